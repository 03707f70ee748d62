package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buyzaar/storefront/api/controllers"
	"github.com/buyzaar/storefront/api/middleware"
	"github.com/buyzaar/storefront/internal/cart"
	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/internal/favorites"
	"github.com/buyzaar/storefront/internal/profile"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store controllers.StatePinger,
	repo *catalog.Repository,
	ledger *cart.Ledger,
	favoritesService *favorites.Service,
	profileService *profile.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, store))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(repo, logg))
			r.Get("/featured", controllers.CatalogFeatured(repo, logg))
			r.Get("/search", controllers.CatalogSearch(repo, cfg.Search, logg))
			r.Get("/options", controllers.CatalogOptions(repo, logg))
			r.Get("/{productId}", controllers.CatalogDetail(repo, logg))
			r.Get("/{productId}/similar", controllers.CatalogSimilar(repo, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(ledger, logg))
			r.Delete("/", controllers.CartClear(ledger, logg))
			r.Post("/items", controllers.CartAddItem(ledger, repo, logg))
			r.Patch("/items/{index}", controllers.CartUpdateQuantity(ledger, logg))
			r.Delete("/items/{index}", controllers.CartRemoveItem(ledger, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesList(favoritesService, logg))
			r.Post("/toggle", controllers.FavoritesToggle(favoritesService, repo, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(profileService, logg))
			r.Post("/register", controllers.AuthRegister(profileService, logg))
			r.Post("/logout", controllers.AuthLogout(profileService, logg))
			r.Get("/status", controllers.AuthStatus(profileService, logg))
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/me", controllers.ProfileFetch(profileService, logg))
			r.Patch("/me", controllers.ProfileUpdate(profileService, logg))
			r.Route("/preferences", func(r chi.Router) {
				r.Post("/styles", controllers.StylePreferenceAdd(profileService, logg))
				r.Delete("/styles", controllers.StylePreferenceRemove(profileService, logg))
				r.Put("/sizes", controllers.SizePreferencesUpdate(profileService, logg))
			})
			r.Route("/try-ons", func(r chi.Router) {
				r.Get("/", controllers.TryOnHistoryList(profileService, logg))
				r.Post("/", controllers.TryOnHistoryAdd(profileService, logg))
			})
		})

		r.Route("/theme", func(r chi.Router) {
			r.Get("/", controllers.ThemeFetch(profileService, logg))
			r.Put("/", controllers.ThemeSet(profileService, logg))
			r.Post("/toggle", controllers.ThemeToggle(profileService, logg))
		})

		r.Post("/checkout", controllers.Checkout(profileService, ledger, logg))
	})

	return r
}
