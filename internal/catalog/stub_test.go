package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

type stubReader struct {
	mu      sync.Mutex
	options map[enums.OptionKind][]PriceableOption
	failing map[enums.OptionKind]bool
	calls   map[string]int
}

func newStubReader() *stubReader {
	return &stubReader{
		options: map[enums.OptionKind][]PriceableOption{},
		failing: map[enums.OptionKind]bool{},
		calls:   map[string]int{},
	}
}

func (s *stubReader) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubReader) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubReader) FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*Category, error) {
	s.record("category")
	return &Category{ID: categoryID, StoreID: storeID, Name: "Pizzas"}, nil
}

func (s *stubReader) FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Size, error) {
	s.record("size")
	return &Size{ID: sizeID, CategoryID: categoryID, Name: "Grande", MaxFlavors: 2}, nil
}

func (s *stubReader) FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]Size, error) {
	s.record("sizes")
	return nil, nil
}

func (s *stubReader) FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]PriceableOption, error) {
	s.record("options:" + kind.String())
	if s.failing[kind] {
		return nil, errors.New("boom")
	}
	return s.options[kind], nil
}

func (s *stubReader) FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]Additional, error) {
	s.record("additionals")
	return nil, nil
}

func (s *stubReader) FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]Product, error) {
	s.record("drinks")
	return nil, nil
}

func (s *stubReader) FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]Product, error) {
	s.record("products")
	return nil, nil
}
