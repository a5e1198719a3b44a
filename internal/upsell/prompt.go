package upsell

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
)

// Prompt is one configured upsell prompt.
type Prompt struct {
	ID                          uuid.UUID         `json:"id"`
	TriggerCategoryID           uuid.UUID         `json:"trigger_category_id"`
	TargetCategoryID            *uuid.UUID        `json:"target_category_id,omitempty"`
	ContentType                 enums.ContentType `json:"content_type"`
	Title                       string            `json:"title"`
	Description                 *string           `json:"description,omitempty"`
	ButtonText                  *string           `json:"button_text,omitempty"`
	SecondaryButtonText         *string           `json:"secondary_button_text,omitempty"`
	IconGlyph                   *string           `json:"icon_glyph,omitempty"`
	MaxProducts                 int               `json:"max_products"`
	DisplayOrder                int               `json:"display_order"`
	PrimaryRedirectCategoryID   *uuid.UUID        `json:"primary_redirect_category_id,omitempty"`
	SecondaryRedirectCategoryID *uuid.UUID        `json:"secondary_redirect_category_id,omitempty"`
}

func promptFromModel(m models.UpsellPrompt) Prompt {
	return Prompt{
		ID:                          m.ID,
		TriggerCategoryID:           m.TriggerCategoryID,
		TargetCategoryID:            m.TargetCategoryID,
		ContentType:                 enums.NormalizeContentType(m.ContentType),
		Title:                       m.Title,
		Description:                 m.Description,
		ButtonText:                  m.ButtonText,
		SecondaryButtonText:         m.SecondaryButtonText,
		IconGlyph:                   m.IconGlyph,
		MaxProducts:                 m.MaxProducts,
		DisplayOrder:                m.DisplayOrder,
		PrimaryRedirectCategoryID:   m.PrimaryRedirectCategoryID,
		SecondaryRedirectCategoryID: m.SecondaryRedirectCategoryID,
	}
}

// PromptSource lists the prompts triggered by a category.
type PromptSource interface {
	FetchUpsellPrompts(ctx context.Context, storeID, triggerCategoryID uuid.UUID) ([]Prompt, error)
}

// Repository reads upsell_prompts through GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FetchUpsellPrompts returns the active prompts of a trigger category ordered
// by display order.
func (r *Repository) FetchUpsellPrompts(ctx context.Context, storeID, triggerCategoryID uuid.UUID) ([]Prompt, error) {
	var rows []models.UpsellPrompt
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND trigger_category_id = ? AND is_active = ?", storeID, triggerCategoryID, true).
		Order("display_order ASC, title ASC").
		Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list upsell prompts")
	}
	prompts := make([]Prompt, 0, len(rows))
	for _, row := range rows {
		prompts = append(prompts, promptFromModel(row))
	}
	return prompts, nil
}
