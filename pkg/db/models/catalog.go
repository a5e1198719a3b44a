package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// Category groups products of a store (e.g. "Pizzas", "Bebidas").
// DrinkCategoryID points at the category whose products are offered in the
// drink step of this category's flow.
type Category struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	StoreID         uuid.UUID  `gorm:"column:store_id;type:uuid;not null"`
	Name            string     `gorm:"column:name;not null"`
	DrinkCategoryID *uuid.UUID `gorm:"column:drink_category_id;type:uuid"`
	DisplayOrder    int        `gorm:"column:display_order;not null;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
}

// ProductSize carries the per-size context a customization session captures.
type ProductSize struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Name         string          `gorm:"column:name;not null"`
	MaxFlavors   int             `gorm:"column:max_flavors;not null;default:1"`
	BasePrice    decimal.Decimal `gorm:"column:base_price;type:numeric(12,2);not null"`
	ImageURL     *string         `gorm:"column:image_url"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
}

// AttributeOption is a flavor, edge or dough offered by a category.
type AttributeOption struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   uuid.UUID        `gorm:"column:category_id;type:uuid;not null"`
	Kind         enums.OptionKind `gorm:"column:kind;not null"`
	Name         string           `gorm:"column:name;not null"`
	Description  *string          `gorm:"column:description"`
	FlavorType   *string          `gorm:"column:flavor_type"`
	IsPremium    bool             `gorm:"column:is_premium;not null;default:false"`
	IsActive     bool             `gorm:"column:is_active;not null"`
	DisplayOrder int              `gorm:"column:display_order;not null;default:0"`
}

// AttributePrice prices an option for one size. A missing row means the
// option is not offered for that size.
type AttributePrice struct {
	OptionID  uuid.UUID       `gorm:"column:option_id;type:uuid;primaryKey"`
	SizeID    uuid.UUID       `gorm:"column:size_id;type:uuid;primaryKey"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Surcharge decimal.Decimal `gorm:"column:surcharge;type:numeric(12,2);not null;default:0"`
}

// Additional is a quantity-bearing add-on priced independently of the item.
type Additional struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	GroupName    string          `gorm:"column:group_name;not null;default:''"`
	Name         string          `gorm:"column:name;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	IsActive     bool            `gorm:"column:is_active;not null"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
}

// Product is a plain sellable item (drinks, quick-add upsells).
type Product struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID      uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	CategoryID   uuid.UUID       `gorm:"column:category_id;type:uuid;not null"`
	Name         string          `gorm:"column:name;not null"`
	Description  *string         `gorm:"column:description"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImageURL     *string         `gorm:"column:image_url"`
	IsActive     bool            `gorm:"column:is_active;not null"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
}
