package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

type storeRepository interface {
	FindSchedule(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes store operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error)
	EnsureOpen(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo storeRepository
	now  func() time.Time
}

// NewService builds a store service. now defaults to time.Now.
func NewService(repo storeRepository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

// EnsureOpen returns a STORE_CLOSED error unless the store is open right now.
func (s *service) EnsureOpen(ctx context.Context, id uuid.UUID) error {
	store, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !IsOpenAt(store, s.now()) {
		return pkgerrors.New(pkgerrors.CodeStoreClosed, "store is closed")
	}
	return nil
}
