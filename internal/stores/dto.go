package stores

import (
	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
)

// StoreDTO exposes safe tenant data in API responses.
type StoreDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsOpen   bool      `json:"is_open"`
	Timezone string    `json:"timezone"`
	OpensAt  *string   `json:"opens_at,omitempty"`
	ClosesAt *string   `json:"closes_at,omitempty"`
	OpenDays []string  `json:"open_days,omitempty"`
}

// FromModel maps a store row to its DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	days := make([]string, len(m.OpenDays))
	copy(days, m.OpenDays)
	return &StoreDTO{
		ID:       m.ID,
		Name:     m.Name,
		IsOpen:   m.IsOpen,
		Timezone: m.Timezone,
		OpensAt:  m.OpensAt,
		ClosesAt: m.ClosesAt,
		OpenDays: days,
	}
}
