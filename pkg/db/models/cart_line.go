package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// CartLine is a single line inserted into a customer's cart.
type CartLine struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID          `gorm:"column:store_id;type:uuid;not null"`
	SessionID   uuid.UUID          `gorm:"column:session_id;type:uuid;not null"`
	Kind        enums.CartLineKind `gorm:"column:kind;not null"`
	ProductID   *uuid.UUID         `gorm:"column:product_id;type:uuid"`
	Name        string             `gorm:"column:name;not null"`
	UnitPrice   decimal.Decimal    `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity    int                `gorm:"column:quantity;not null;default:1"`
	Description string             `gorm:"column:description;not null;default:''"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
}
