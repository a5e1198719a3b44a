package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/api/middleware"
	"github.com/cardapiohub/cardapio-backend/api/responses"
	"github.com/cardapiohub/cardapio-backend/api/validators"
	"github.com/cardapiohub/cardapio-backend/internal/sessions"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
	"github.com/cardapiohub/cardapio-backend/pkg/types"
)

// SessionIDParam is the route parameter naming a customization session.
const SessionIDParam = "sessionID"

const maxNotesLength = 500

type sessionRegistry interface {
	Create(ctx context.Context, storeID uuid.UUID) (*sessions.Session, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*sessions.Session, error)
	Close(ctx context.Context, storeID, id uuid.UUID) error
}

type chooseSizeRequest struct {
	CategoryID uuid.UUID `json:"category_id" validate:"required"`
	SizeID     uuid.UUID `json:"size_id" validate:"required"`
}

type optionRequest struct {
	OptionID uuid.UUID `json:"option_id" validate:"required"`
}

type nullableOptionRequest struct {
	OptionID types.OptionalID `json:"option_id"`
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

type additionalRequest struct {
	AdditionalID uuid.UUID `json:"additional_id" validate:"required"`
}

type additionalQuantityRequest struct {
	AdditionalID uuid.UUID `json:"additional_id" validate:"required"`
	Delta        int       `json:"delta" validate:"required,min=-10,max=10"`
}

type drinkRequest struct {
	ProductID types.OptionalID `json:"product_id"`
}

// SessionCreate opens a customization session for the store in the route.
func SessionCreate(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sess, err := registry.Create(r.Context(), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sess.View())
	}
}

// SessionFetch returns the session state and delivers pending notices.
func SessionFetch(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		return sess.View(), nil
	})
}

// SessionClose discards the session.
func SessionClose(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
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
		if err := registry.Close(r.Context(), storeID, sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"closed": true})
	}
}

func SessionChooseSize(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req chooseSizeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.ChooseSize(ctx, req.CategoryID, req.SizeID)
	})
}

func SessionToggleFlavor(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req optionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.ToggleFlavor(ctx, req.OptionID)
	})
}

// SessionSetNotes stores the free-text notes of the item, trimmed and capped.
func SessionSetNotes(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req notesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.SetNotes(ctx, validators.SanitizeString(req.Notes, maxNotesLength))
	})
}

// SessionChooseEdge picks an edge, or clears it when option_id is null.
func SessionChooseEdge(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req nullableOptionRequest
		if err := decodeNullable(r, &req, &req.OptionID, "option_id"); err != nil {
			return nil, err
		}
		return sess.ChooseEdge(ctx, req.OptionID.ID)
	})
}

// SessionChooseDough picks a dough, or clears it when option_id is null.
func SessionChooseDough(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req nullableOptionRequest
		if err := decodeNullable(r, &req, &req.OptionID, "option_id"); err != nil {
			return nil, err
		}
		return sess.ChooseDough(ctx, req.OptionID.ID)
	})
}

func SessionToggleAdditional(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req additionalRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.ToggleAdditional(ctx, req.AdditionalID)
	})
}

func SessionChangeAdditionalQuantity(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req additionalQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			return nil, err
		}
		return sess.ChangeAdditionalQuantity(ctx, req.AdditionalID, req.Delta)
	})
}

// SessionAdvance confirms the current step.
func SessionAdvance(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		return sess.Advance(ctx)
	})
}

// SessionChooseDrink picks a drink, or skips it when product_id is null, and
// finalizes the item.
func SessionChooseDrink(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		var req drinkRequest
		if err := decodeNullable(r, &req, &req.ProductID, "product_id"); err != nil {
			return nil, err
		}
		return sess.ChooseDrink(ctx, req.ProductID.ID)
	})
}

func SessionCancel(registry sessionRegistry, logg *logger.Logger) http.HandlerFunc {
	return withSession(registry, logg, func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error) {
		return sess.Cancel(ctx), nil
	})
}

type sessionOp func(ctx context.Context, sess *sessions.Session, r *http.Request) (*sessions.Result, error)

// withSession resolves the session of the route and writes the result of op.
// A failed op still returns the session state so notices reach the client.
func withSession(registry sessionRegistry, logg *logger.Logger, op sessionOp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if registry == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}
		sess, err := registry.Get(ctx, storeID, sessionID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res, err := op(ctx, sess, r)
		if err != nil {
			if res == nil {
				res = sess.View()
			}
			responses.WriteErrorWithData(ctx, logg, w, err, res)
			return
		}
		responses.WriteSuccess(w, res)
	}
}

// decodeNullable decodes a body whose single nullable field must be present,
// either as an id or as an explicit null.
func decodeNullable(r *http.Request, dest any, field *types.OptionalID, name string) error {
	if err := validators.DecodeJSONBody(r, dest); err != nil {
		return err
	}
	if !field.Present {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{name: "is required"})
	}
	return nil
}

func storeIDFromRequest(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.StoreIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "store context missing")
	}
	return id, nil
}

func sessionIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuidParam(r, SessionIDParam, "invalid session id")
}

func uuidParam(r *http.Request, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	return id, nil
}
