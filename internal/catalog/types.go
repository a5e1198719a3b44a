package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// Reader is the read-only catalog surface consumed by the flow engine.
type Reader interface {
	FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*Category, error)
	FetchSize(ctx context.Context, categoryID, sizeID uuid.UUID) (*Size, error)
	FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]Size, error)
	FetchOptionsForSize(ctx context.Context, categoryID, sizeID uuid.UUID, kind enums.OptionKind) ([]PriceableOption, error)
	FetchAdditionals(ctx context.Context, categoryID uuid.UUID) ([]Additional, error)
	FetchDrinkOptions(ctx context.Context, storeID, categoryID uuid.UUID) ([]Product, error)
	FetchProducts(ctx context.Context, storeID, categoryID uuid.UUID, limit int) ([]Product, error)
}

// Category is the slice of a store category the flow needs.
type Category struct {
	ID              uuid.UUID  `json:"id"`
	StoreID         uuid.UUID  `json:"store_id"`
	Name            string     `json:"name"`
	DrinkCategoryID *uuid.UUID `json:"drink_category_id,omitempty"`
}

// Size is the per-size context captured when a customization session starts.
type Size struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	MaxFlavors int             `json:"max_flavors"`
	BasePrice  decimal.Decimal `json:"base_price"`
	ImageURL   *string         `json:"image_url,omitempty"`
}

// PriceableOption is a flavor, edge or dough already priced for one size.
type PriceableOption struct {
	ID          uuid.UUID        `json:"id"`
	Kind        enums.OptionKind `json:"kind"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	FlavorType  string           `json:"flavor_type,omitempty"`
	IsPremium   bool             `json:"is_premium"`
	Price       decimal.Decimal  `json:"price"`
	Surcharge   decimal.Decimal  `json:"surcharge"`
}

// Additional is an add-on item; GroupName is used for display grouping only.
type Additional struct {
	ID        uuid.UUID       `json:"id"`
	GroupName string          `json:"group_name"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Product is a plain sellable product (drinks, quick-add suggestions).
type Product struct {
	ID          uuid.UUID       `json:"id"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
}

// Price is the resolved price of one option for one size.
type Price struct {
	Amount    decimal.Decimal `json:"amount"`
	Surcharge decimal.Decimal `json:"surcharge"`
}

// FindOption returns the option with the given id from a fetched list.
func FindOption(options []PriceableOption, id uuid.UUID) (PriceableOption, bool) {
	for _, opt := range options {
		if opt.ID == id {
			return opt, true
		}
	}
	return PriceableOption{}, false
}

// FindAdditional returns the add-on with the given id from a fetched list.
func FindAdditional(items []Additional, id uuid.UUID) (Additional, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Additional{}, false
}

// FindProduct returns the product with the given id from a fetched list.
func FindProduct(products []Product, id uuid.UUID) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// GroupAdditionals buckets add-ons by group name preserving first-seen order.
func GroupAdditionals(items []Additional) []AdditionalGroup {
	var groups []AdditionalGroup
	index := map[string]int{}
	for _, item := range items {
		i, ok := index[item.GroupName]
		if !ok {
			i = len(groups)
			index[item.GroupName] = i
			groups = append(groups, AdditionalGroup{Name: item.GroupName})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// AdditionalGroup is a display bucket of add-ons sharing a source group.
type AdditionalGroup struct {
	Name  string       `json:"name"`
	Items []Additional `json:"items"`
}

func categoryFromModel(m models.Category) Category {
	return Category{
		ID:              m.ID,
		StoreID:         m.StoreID,
		Name:            m.Name,
		DrinkCategoryID: m.DrinkCategoryID,
	}
}

func sizeFromModel(m models.ProductSize) Size {
	return Size{
		ID:         m.ID,
		CategoryID: m.CategoryID,
		Name:       m.Name,
		MaxFlavors: m.MaxFlavors,
		BasePrice:  m.BasePrice,
		ImageURL:   m.ImageURL,
	}
}

func additionalFromModel(m models.Additional) Additional {
	return Additional{
		ID:        m.ID,
		GroupName: m.GroupName,
		Name:      m.Name,
		Price:     m.Price,
	}
}

func productFromModel(m models.Product) Product {
	return Product{
		ID:          m.ID,
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
	}
}
