package controllers

import (
	"net/http"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/buyzaar/storefront/api/responses"
	"github.com/buyzaar/storefront/api/validators"
	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/enums"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

// CatalogList returns the catalog narrowed by the filter query parameters
// and ordered by the requested sort key.
func CatalogList(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		state, err := filterStateFromQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products := repo.ByCategory(r.URL.Query().Get("category"))
		responses.WriteSuccess(w, catalog.ApplyFilters(products, state))
	}
}

// CatalogDetail returns a single product by id.
func CatalogDetail(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		product, ok := repo.ByID(productID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// CatalogSearch matches the query against name, description, brand and
// category. Queries below the minimum length return an empty set without
// touching the catalog.
func CatalogSearch(repo *catalog.Repository, cfg config.SearchConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		query := r.URL.Query().Get("q")
		if utf8.RuneCountInString(query) < cfg.MinQueryLength {
			responses.WriteSuccess(w, []catalog.Product{})
			return
		}

		responses.WriteSuccess(w, repo.Search(query))
	}
}

// CatalogFeatured returns the top rated products.
func CatalogFeatured(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 8, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repo.Featured(limit))
	}
}

// CatalogSimilar returns products sharing the given product's category.
func CatalogSimilar(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		productID := chi.URLParam(r, "productId")
		product, ok := repo.ByID(productID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 4, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, repo.Similar(product.Category, product.ID, limit))
	}
}

// CatalogOptions returns the facets a filter panel can offer, derived from
// the catalog snapshot.
func CatalogOptions(repo *catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeServer, "catalog unavailable"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"categories": repo.Categories(),
			"filters":    repo.FilterOptions(),
			"sorts":      enums.SortKeys(),
		})
	}
}

func filterStateFromQuery(r *http.Request) (catalog.FilterState, error) {
	var state catalog.FilterState

	state.Brands = validators.ParseQueryList(r, "brands")
	state.Colors = validators.ParseQueryList(r, "colors")

	for _, raw := range validators.ParseQueryList(r, "sizes") {
		size, err := enums.ParseProductSize(raw)
		if err != nil {
			return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size filter").WithDetails(map[string]any{"field": "sizes"})
		}
		state.Sizes = append(state.Sizes, size)
	}

	min, err := validators.ParseQueryDecimal(r, "minPrice")
	if err != nil {
		return state, err
	}
	state.PriceMin = min

	max, err := validators.ParseQueryDecimal(r, "maxPrice")
	if err != nil {
		return state, err
	}
	state.PriceMax = max

	sort, err := enums.ParseSortKey(r.URL.Query().Get("sort"))
	if err != nil {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort key").WithDetails(map[string]any{"field": "sort"})
	}
	state.Sort = sort

	return state, nil
}
