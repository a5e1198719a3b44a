package flow

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/notify"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

type fakeCatalog struct {
	mu          sync.Mutex
	category    catalog.Category
	sizes       map[uuid.UUID]catalog.Size
	options     map[uuid.UUID]map[enums.OptionKind][]catalog.PriceableOption
	failKinds   map[enums.OptionKind]bool
	additionals []catalog.Additional
	drinks      []catalog.Product
	drinkErr    error
	calls       map[string]int
}

func newFakeCatalog(storeID uuid.UUID) *fakeCatalog {
	return &fakeCatalog{
		category:  catalog.Category{ID: uuid.New(), StoreID: storeID, Name: "Pizza"},
		sizes:     map[uuid.UUID]catalog.Size{},
		options:   map[uuid.UUID]map[enums.OptionKind][]catalog.PriceableOption{},
		failKinds: map[enums.OptionKind]bool{},
		calls:     map[string]int{},
	}
}

func (f *fakeCatalog) addSize(name string, maxFlavors int, base string) catalog.Size {
	size := catalog.Size{ID: uuid.New(), CategoryID: f.category.ID, Name: name, MaxFlavors: maxFlavors, BasePrice: decimal.RequireFromString(base)}
	f.sizes[size.ID] = size
	f.options[size.ID] = map[enums.OptionKind][]catalog.PriceableOption{}
	return size
}

func (f *fakeCatalog) addOption(sizeID uuid.UUID, kind enums.OptionKind, name, price string, premium bool, surcharge string) catalog.PriceableOption {
	opt := catalog.PriceableOption{
		ID:        uuid.New(),
		Kind:      kind,
		Name:      name,
		IsPremium: premium,
		Price:     decimal.RequireFromString(price),
		Surcharge: decimal.RequireFromString(surcharge),
	}
	f.options[sizeID][kind] = append(f.options[sizeID][kind], opt)
	return opt
}

func (f *fakeCatalog) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeCatalog) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeCatalog) FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*catalog.Category, error) {
	if categoryID != f.category.ID || storeID != f.category.StoreID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	c := f.category
	return &c, nil
}

func (f *fakeCatalog) FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*catalog.Size, error) {
	size, ok := f.sizes[sizeID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "size not found")
	}
	return &size, nil
}

func (f *fakeCatalog) FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]catalog.Size, error) {
	return nil, nil
}

func (f *fakeCatalog) FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]catalog.PriceableOption, error) {
	f.record("options:" + kind.String())
	if f.failKinds[kind] {
		return nil, errors.New("catalog offline")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.options[sizeID][kind], nil
}

func (f *fakeCatalog) FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]catalog.Additional, error) {
	f.record("additionals")
	return f.additionals, nil
}

func (f *fakeCatalog) FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]catalog.Product, error) {
	f.record("drinks")
	return f.drinks, f.drinkErr
}

func (f *fakeCatalog) FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]catalog.Product, error) {
	return nil, nil
}

type staticConfig struct {
	cfg flowconfig.Config
	err error
}

func (s staticConfig) FetchFlowConfig(ctx context.Context, storeID uuid.UUID) (flowconfig.Config, error) {
	return s.cfg, s.err
}

type storeGuard struct {
	closed bool
}

func (g *storeGuard) EnsureOpen(ctx context.Context, storeID uuid.UUID) error {
	if g.closed {
		return pkgerrors.New(pkgerrors.CodeStoreClosed, "store is closed")
	}
	return nil
}

type recordingCart struct {
	batches [][]cart.Line
	err     error
}

func (r *recordingCart) AddLines(ctx context.Context, storeID, sessionID uuid.UUID, lines []cart.Line) error {
	if r.err != nil {
		return r.err
	}
	r.batches = append(r.batches, lines)
	return nil
}

func (r *recordingCart) lines() []cart.Line {
	var out []cart.Line
	for _, b := range r.batches {
		out = append(out, b...)
	}
	return out
}

type harness struct {
	storeID uuid.UUID
	catalog *fakeCatalog
	config  *staticConfig
	guard   *storeGuard
	cart    *recordingCart
	notices *notify.Recorder
	ctrl    *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	storeID := uuid.New()
	h := &harness{
		storeID: storeID,
		catalog: newFakeCatalog(storeID),
		config:  &staticConfig{cfg: flowconfig.Config{}},
		guard:   &storeGuard{},
		cart:    &recordingCart{},
		notices: notify.NewRecorder(),
	}
	ctrl, err := NewController(Deps{
		Catalog:    h.catalog,
		FlowConfig: configFunc(func() (flowconfig.Config, error) { return h.config.cfg, h.config.err }),
		Stores:     h.guard,
		Cart:       h.cart,
		Notifier:   h.notices,
	}, uuid.New(), storeID)
	require.NoError(t, err)
	h.ctrl = ctrl
	return h
}

type configFunc func() (flowconfig.Config, error)

func (f configFunc) FetchFlowConfig(ctx context.Context, storeID uuid.UUID) (flowconfig.Config, error) {
	return f()
}

func (h *harness) setSteps(steps map[enums.StepType]flowconfig.Step) {
	h.config.cfg = flowconfig.Config{h.catalog.category.ID: steps}
}

// priceTable resolves prices from a fixed table and records each lookup.
type priceTable struct {
	prices map[uuid.UUID]catalog.Price
	kinds  []enums.OptionKind
}

func (p *priceTable) ResolvePrice(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind, optionID uuid.UUID) (catalog.Price, error) {
	p.kinds = append(p.kinds, kind)
	price, ok := p.prices[optionID]
	if !ok {
		return catalog.Price{}, pkgerrors.New(pkgerrors.CodeDataUnavailable, "option not offered for this size")
	}
	return price, nil
}

// usePrices rebuilds the controller so option prices come from prices.
func (h *harness) usePrices(t *testing.T, prices catalog.PriceResolver) {
	t.Helper()
	ctrl, err := NewController(Deps{
		Catalog:    h.catalog,
		Prices:     prices,
		FlowConfig: configFunc(func() (flowconfig.Config, error) { return h.config.cfg, h.config.err }),
		Stores:     h.guard,
		Cart:       h.cart,
		Notifier:   h.notices,
	}, uuid.New(), h.storeID)
	require.NoError(t, err)
	h.ctrl = ctrl
}
