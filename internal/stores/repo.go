package stores

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
)

// scheduleColumns are the store columns the opening-hours guard reads.
var scheduleColumns = []string{"id", "name", "is_open", "timezone", "opens_at", "closes_at", "open_days"}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindSchedule loads the identity and opening schedule of a store.
func (r *Repository) FindSchedule(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Select(scheduleColumns).
		Where("id = ?", id).
		Take(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}
