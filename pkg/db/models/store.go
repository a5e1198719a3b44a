package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Store is a storefront tenant. OpensAt/ClosesAt are "HH:MM" in the store's
// local time; OpenDays holds lowercase weekday names.
type Store struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name      string         `gorm:"column:name;not null"`
	IsOpen    bool           `gorm:"column:is_open;not null"`
	Timezone  string         `gorm:"column:timezone;not null;default:'America/Sao_Paulo'"`
	OpensAt   *string        `gorm:"column:opens_at"`
	ClosesAt  *string        `gorm:"column:closes_at"`
	OpenDays  pq.StringArray `gorm:"column:open_days;type:text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
