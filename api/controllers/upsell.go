package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/api/validators"
	"github.com/cardapiohub/cardapio-backend/internal/sessions"
	"github.com/cardapiohub/cardapio-backend/internal/upsell"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

type upsellQuantity struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=0"`
}

type upsellActionRequest struct {
	Kind        string           `json:"kind" validate:"required,oneof=primary secondary back quick_add confirm"`
	ProductID   *uuid.UUID       `json:"product_id"`
	OptionID    *uuid.UUID       `json:"option_id"`
	EdgeID      *uuid.UUID       `json:"edge_id"`
	DoughID     *uuid.UUID       `json:"dough_id"`
	Additionals []upsellQuantity `json:"additionals" validate:"omitempty,dive"`
}

func (r upsellActionRequest) action() upsell.Action {
	action := upsell.Action{
		Kind:      upsell.ActionKind(r.Kind),
		ProductID: r.ProductID,
		OptionID:  r.OptionID,
		EdgeID:    r.EdgeID,
		DoughID:   r.DoughID,
	}
	for _, q := range r.Additionals {
		action.Additionals = append(action.Additionals, upsell.Quantity{ID: q.ID, Quantity: q.Quantity})
	}
	return action
}

// UpsellFetch returns the session with the current upsell prompt.
func UpsellFetch(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		return sess.View(), nil
	})
}

// UpsellAct applies a customer action to the current upsell prompt.
func UpsellAct(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req upsellActionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.Upsell(ctx, req.action())
	})
}
