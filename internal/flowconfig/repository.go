package flowconfig

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// Source loads the flow configuration of a store.
type Source interface {
	FetchFlowConfig(ctx context.Context, storeID uuid.UUID) (Config, error)
}

// Repository reads category_flow_steps through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchFlowConfig returns every configured step of the store. Rows with an
// unknown step type are ignored.
func (r *Repository) FetchFlowConfig(ctx context.Context, storeID uuid.UUID) (Config, error) {
	var rows []models.CategoryFlowStep
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load flow config")
	}

	cfg := Config{}
	for _, row := range rows {
		if !row.StepType.IsValid() {
			continue
		}
		steps, ok := cfg[row.CategoryID]
		if !ok {
			steps = map[enums.StepType]Step{}
			cfg[row.CategoryID] = steps
		}
		steps[row.StepType] = Step{Enabled: row.Enabled, Next: ParseTarget(row.NextStepID)}
	}
	return cfg, nil
}
