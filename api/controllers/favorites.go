package controllers

import (
	"net/http"

	"github.com/buyzaar/storefront/api/responses"
	"github.com/buyzaar/storefront/api/validators"
	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/internal/favorites"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

type toggleFavoriteRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type toggleFavoriteResponse struct {
	ProductID string `json:"productId"`
	Favorite  bool   `json:"favorite"`
	Count     int    `json:"count"`
}

// FavoritesList returns the saved products in insertion order.
func FavoritesList(svc *favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "favorites unavailable"))
			return
		}

		responses.WriteSuccess(w, svc.List())
	}
}

// FavoritesToggle flips membership for a product. Toggling the same product
// twice restores the original state.
func FavoritesToggle(svc *favorites.Service, repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "favorites unavailable"))
			return
		}

		var payload toggleFavoriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := repo.ByID(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		favorite, err := svc.Toggle(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toggleFavoriteResponse{
			ProductID: product.ID,
			Favorite:  favorite,
			Count:     svc.Len(),
		})
	}
}
