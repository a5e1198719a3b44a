package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/api/responses"
	"github.com/cardapiohub/cardapio-backend/internal/cart"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

type cartLister interface {
	ListLines(ctx context.Context, storeID, sessionID uuid.UUID) ([]cart.Line, error)
}

type cartResponse struct {
	SessionID uuid.UUID   `json:"session_id"`
	Lines     []cart.Line `json:"lines"`
	Total     string      `json:"total"`
}

// CartFetch lists the cart lines recorded for a session. Lines outlive the
// session itself, so the session does not need to be open.
func CartFetch(svc cartLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lines, err := svc.ListLines(r.Context(), storeID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{
			SessionID: sessionID,
			Lines:     lines,
			Total:     cart.Total(lines).StringFixed(2),
		})
	}
}
