package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/pkg/enums"
)

// CategoryFlowStep is one operator-authored step row. NextStepID holds a step
// type, "cart", or NULL.
type CategoryFlowStep struct {
	StoreID    uuid.UUID      `gorm:"column:store_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID      `gorm:"column:category_id;type:uuid;primaryKey"`
	StepType   enums.StepType `gorm:"column:step_type;primaryKey"`
	Enabled    bool           `gorm:"column:enabled;not null"`
	NextStepID *string        `gorm:"column:next_step_id"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// UpsellPrompt is a promotional prompt shown after a primary item is finalized.
type UpsellPrompt struct {
	ID                          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	StoreID                     uuid.UUID  `gorm:"column:store_id;type:uuid;not null"`
	TriggerCategoryID           uuid.UUID  `gorm:"column:trigger_category_id;type:uuid;not null"`
	TargetCategoryID            *uuid.UUID `gorm:"column:target_category_id;type:uuid"`
	ContentType                 string     `gorm:"column:content_type;not null;default:'generic'"`
	Title                       string     `gorm:"column:title;not null"`
	Description                 *string    `gorm:"column:description"`
	ButtonText                  *string    `gorm:"column:button_text"`
	SecondaryButtonText         *string    `gorm:"column:secondary_button_text"`
	IconGlyph                   *string    `gorm:"column:icon_glyph"`
	MaxProducts                 int        `gorm:"column:max_products;not null;default:4"`
	DisplayOrder                int        `gorm:"column:display_order;not null;default:0"`
	PrimaryRedirectCategoryID   *uuid.UUID `gorm:"column:primary_redirect_category_id;type:uuid"`
	SecondaryRedirectCategoryID *uuid.UUID `gorm:"column:secondary_redirect_category_id;type:uuid"`
	IsActive                    bool       `gorm:"column:is_active;not null"`
}
