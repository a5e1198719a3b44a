package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
)

// LineRepository defines the persistence surface required by the cart service.
type LineRepository interface {
	WithTx(tx *gorm.DB) LineRepository
	Insert(ctx context.Context, lines []models.CartLine) error
	ListBySession(ctx context.Context, storeID, sessionID uuid.UUID) ([]models.CartLine, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Sink receives the lines emitted by a finished customization or upsell.
type Sink interface {
	AddLines(ctx context.Context, storeID, sessionID uuid.UUID, lines []Line) error
}
