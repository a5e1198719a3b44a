package upsell

import (
	"context"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/internal/catalog"
)

// QuickAddSource lists the products a prompt can add with one tap.
type QuickAddSource interface {
	FetchQuickAddProducts(ctx context.Context, storeID uuid.UUID, prompt Prompt) ([]catalog.Product, error)
}

// CatalogQuickAdd lists products of the prompt's target category, bounded by
// the prompt's max products and a global limit.
type CatalogQuickAdd struct {
	reader catalog.Reader
	limit  int
}

func NewCatalogQuickAdd(reader catalog.Reader, limit int) *CatalogQuickAdd {
	return &CatalogQuickAdd{reader: reader, limit: limit}
}

func (q *CatalogQuickAdd) FetchQuickAddProducts(ctx context.Context, storeID uuid.UUID, prompt Prompt) ([]catalog.Product, error) {
	if prompt.TargetCategoryID == nil {
		return []catalog.Product{}, nil
	}
	limit := prompt.MaxProducts
	if q.limit > 0 && (limit <= 0 || limit > q.limit) {
		limit = q.limit
	}
	return q.reader.FetchProducts(ctx, storeID, *prompt.TargetCategoryID, limit)
}
