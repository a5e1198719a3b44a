package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/cardapiohub/cardapio-backend/api/responses"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	pkgerrors "github.com/cardapiohub/cardapio-backend/pkg/errors"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

// CategoryIDParam is the route parameter naming a category.
const CategoryIDParam = "categoryID"

type sizeLister interface {
	FetchCategory(ctx context.Context, storeID, categoryID uuid.UUID) (*catalog.Category, error)
	FetchSizes(ctx context.Context, categoryID uuid.UUID) ([]catalog.Size, error)
}

type categorySizesResponse struct {
	Category *catalog.Category `json:"category"`
	Sizes    []catalog.Size    `json:"sizes"`
}

// CatalogSizes lists the sizes a customer can start an item with.
func CatalogSizes(reader sizeLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}
		storeID, err := storeIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := uuidParam(r, CategoryIDParam, "invalid category id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := reader.FetchCategory(r.Context(), storeID, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sizes, err := reader.FetchSizes(r.Context(), categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if sizes == nil {
			sizes = []catalog.Size{}
		}
		responses.WriteSuccess(w, categorySizesResponse{Category: category, Sizes: sizes})
	}
}
