package upsell

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

type fakePrompts struct {
	prompts []Prompt
	err     error
}

func (f *fakePrompts) FetchUpsellPrompts(ctx context.Context, storeID, triggerCategoryID uuid.UUID) ([]Prompt, error) {
	return f.prompts, f.err
}

type fakeCatalog struct {
	options     map[enums.OptionKind][]catalog.PriceableOption
	additionals map[uuid.UUID][]catalog.Additional
	products    map[uuid.UUID][]catalog.Product
	lastLimit   int
	sizeSeen    uuid.UUID
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		options:     map[enums.OptionKind][]catalog.PriceableOption{},
		additionals: map[uuid.UUID][]catalog.Additional{},
		products:    map[uuid.UUID][]catalog.Product{},
	}
}

func (f *fakeCatalog) FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*catalog.Category, error) {
	return &catalog.Category{ID: categoryID, StoreID: storeID}, nil
}

func (f *fakeCatalog) FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*catalog.Size, error) {
	return nil, errors.New("not used")
}

func (f *fakeCatalog) FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]catalog.Size, error) {
	return nil, nil
}

func (f *fakeCatalog) FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]catalog.PriceableOption, error) {
	f.sizeSeen = sizeID
	return f.options[kind], nil
}

func (f *fakeCatalog) FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]catalog.Additional, error) {
	return f.additionals[categoryID], nil
}

func (f *fakeCatalog) FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]catalog.Product, error) {
	return nil, nil
}

func (f *fakeCatalog) FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]catalog.Product, error) {
	f.lastLimit = limit
	products := f.products[categoryID]
	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

type recordingCart struct {
	lines []cart.Line
	err   error
}

func (r *recordingCart) AddLines(ctx context.Context, storeID, sessionID uuid.UUID, lines []cart.Line) error {
	if r.err != nil {
		return r.err
	}
	r.lines = append(r.lines, lines...)
	return nil
}

type harness struct {
	prompts *fakePrompts
	catalog *fakeCatalog
	cart    *recordingCart
	notices *notify.Recorder
	seq     *Sequencer
	trigger Trigger
}

func newHarness(t *testing.T, prompts ...Prompt) *harness {
	t.Helper()
	h := &harness{
		prompts: &fakePrompts{prompts: prompts},
		catalog: newFakeCatalog(),
		cart:    &recordingCart{},
		notices: notify.NewRecorder(),
		trigger: Trigger{CategoryID: uuid.New(), SizeID: uuid.New()},
	}
	seq, err := NewSequencer(Deps{
		Prompts:  h.prompts,
		QuickAdd: NewCatalogQuickAdd(h.catalog, 6),
		Catalog:  h.catalog,
		Cart:     h.cart,
		Notifier: h.notices,
	}, uuid.New(), uuid.New())
	require.NoError(t, err)
	h.seq = seq
	return h
}

func prompt(ct enums.ContentType, title string) Prompt {
	return Prompt{ID: uuid.New(), ContentType: ct, Title: title, MaxProducts: 4}
}

func additional(group, name, price string) catalog.Additional {
	return catalog.Additional{ID: uuid.New(), GroupName: group, Name: name, Price: decimal.RequireFromString(price)}
}

// priceTable resolves prices from a fixed table.
type priceTable map[uuid.UUID]catalog.Price

func (p priceTable) ResolvePrice(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind, optionID uuid.UUID) (catalog.Price, error) {
	price, ok := p[optionID]
	if !ok {
		return catalog.Price{}, pkgerrors.New(pkgerrors.CodeDataUnavailable, "option not offered for this size")
	}
	return price, nil
}

// usePrices rebuilds the sequencer so option prices come from prices.
func (h *harness) usePrices(t *testing.T, prices catalog.PriceResolver) {
	t.Helper()
	seq, err := NewSequencer(Deps{
		Prompts:  h.prompts,
		QuickAdd: NewCatalogQuickAdd(h.catalog, 6),
		Catalog:  h.catalog,
		Prices:   prices,
		Cart:     h.cart,
		Notifier: h.notices,
	}, uuid.New(), uuid.New())
	require.NoError(t, err)
	h.seq = seq
}
