package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/buyzaar/storefront/api/responses"
	"github.com/buyzaar/storefront/api/validators"
	"github.com/buyzaar/storefront/internal/cart"
	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
	"github.com/buyzaar/storefront/pkg/types"
)

type cartView struct {
	Items  []cart.LineItem `json:"items"`
	Totals cart.Totals     `json:"totals"`
}

type addItemRequest struct {
	ProductID string      `json:"productId" validate:"required"`
	Size      string      `json:"size" validate:"required"`
	Color     types.Color `json:"color"`
	Quantity  int         `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartFetch returns the line items together with their totals.
func CartFetch(ledger *cart.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "cart unavailable"))
			return
		}

		responses.WriteSuccess(w, cartView{Items: ledger.Items(), Totals: ledger.Totals()})
	}
}

// CartAddItem adds a product variant to the cart, merging into an existing
// line when the product, size and color already match.
func CartAddItem(ledger *cart.Ledger, repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil || repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "cart unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, ok := repo.ByID(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		size, err := enums.ParseProductSize(payload.Size)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size"))
			return
		}
		if !product.HasAvailableSize(size) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "size not available for this product"))
			return
		}

		if err := ledger.AddItem(r.Context(), product, size, payload.Color, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, cartView{Items: ledger.Items(), Totals: ledger.Totals()})
	}
}

// CartUpdateQuantity sets the quantity of the line at the given index.
// Out-of-range indexes leave the cart untouched.
func CartUpdateQuantity(ledger *cart.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "cart unavailable"))
			return
		}

		index, err := lineIndexFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ledger.UpdateQuantity(r.Context(), index, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartView{Items: ledger.Items(), Totals: ledger.Totals()})
	}
}

// CartRemoveItem drops the line at the given index. Out-of-range indexes
// leave the cart untouched.
func CartRemoveItem(ledger *cart.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "cart unavailable"))
			return
		}

		index, err := lineIndexFromURL(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ledger.RemoveItem(r.Context(), index); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartView{Items: ledger.Items(), Totals: ledger.Totals()})
	}
}

// CartClear empties the cart.
func CartClear(ledger *cart.Ledger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ledger == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "cart unavailable"))
			return
		}

		if err := ledger.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartView{Items: ledger.Items(), Totals: ledger.Totals()})
	}
}

func lineIndexFromURL(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "line index must be numeric").WithDetails(map[string]any{"field": "index"})
	}
	return index, nil
}
