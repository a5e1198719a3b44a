package upsell

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/testdb"
	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

func TestRepositoryFetchUpsellPrompts(t *testing.T) {
	conn := testdb.Open(t)
	storeID, pizzas, drinks := uuid.New(), uuid.New(), uuid.New()
	buttonText := "Quero"

	testdb.MustCreate(t, conn,
		&models.UpsellPrompt{ID: uuid.New(), StoreID: storeID, TriggerCategoryID: pizzas, ContentType: "pizza_edges", Title: "Borda", DisplayOrder: 2, MaxProducts: 4, IsActive: true},
		&models.UpsellPrompt{ID: uuid.New(), StoreID: storeID, TriggerCategoryID: pizzas, TargetCategoryID: &drinks, ContentType: "drink", Title: "Bebida", ButtonText: &buttonText, DisplayOrder: 1, MaxProducts: 3, IsActive: true},
		&models.UpsellPrompt{ID: uuid.New(), StoreID: storeID, TriggerCategoryID: pizzas, ContentType: "banner", Title: "Promo", DisplayOrder: 3, MaxProducts: 4, IsActive: true},
		&models.UpsellPrompt{ID: uuid.New(), StoreID: storeID, TriggerCategoryID: pizzas, ContentType: "combo", Title: "Inativo", DisplayOrder: 0, MaxProducts: 4, IsActive: false},
		&models.UpsellPrompt{ID: uuid.New(), StoreID: uuid.New(), TriggerCategoryID: pizzas, ContentType: "drink", Title: "Outra loja", MaxProducts: 4, IsActive: true},
	)

	prompts, err := NewRepository(conn).FetchUpsellPrompts(context.Background(), storeID, pizzas)
	require.NoError(t, err)
	require.Len(t, prompts, 3)

	assert.Equal(t, "Bebida", prompts[0].Title)
	assert.Equal(t, enums.ContentTypeDrink, prompts[0].ContentType)
	require.NotNil(t, prompts[0].TargetCategoryID)
	assert.Equal(t, drinks, *prompts[0].TargetCategoryID)
	assert.Equal(t, "Quero", *prompts[0].ButtonText)
	assert.Equal(t, 3, prompts[0].MaxProducts)

	assert.Equal(t, enums.ContentTypePizzaEdges, prompts[1].ContentType)
	assert.Equal(t, enums.ContentTypeGeneric, prompts[2].ContentType)

	none, err := NewRepository(conn).FetchUpsellPrompts(context.Background(), storeID, drinks)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCatalogQuickAddLimits(t *testing.T) {
	reader := newFakeCatalog()
	target := uuid.New()
	for i := 0; i < 8; i++ {
		reader.products[target] = append(reader.products[target], catalog.Product{ID: uuid.New(), CategoryID: target})
	}
	storeID := uuid.New()

	tests := []struct {
		name      string
		global    int
		max       int
		wantLimit int
		wantLen   int
	}{
		{name: "prompt below global", global: 6, max: 3, wantLimit: 3, wantLen: 3},
		{name: "global caps prompt", global: 5, max: 10, wantLimit: 5, wantLen: 5},
		{name: "prompt unset", global: 6, max: 0, wantLimit: 6, wantLen: 6},
		{name: "no global limit", global: 0, max: 2, wantLimit: 2, wantLen: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := NewCatalogQuickAdd(reader, tc.global)
			products, err := q.FetchQuickAddProducts(context.Background(), storeID, Prompt{TargetCategoryID: &target, MaxProducts: tc.max})
			require.NoError(t, err)
			assert.Len(t, products, tc.wantLen)
			assert.Equal(t, tc.wantLimit, reader.lastLimit)
		})
	}

	products, err := NewCatalogQuickAdd(reader, 6).FetchQuickAddProducts(context.Background(), storeID, Prompt{MaxProducts: 4})
	require.NoError(t, err)
	assert.Empty(t, products)
}
