package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/buyzaar/storefront/api/routes"
	"github.com/buyzaar/storefront/internal/cart"
	"github.com/buyzaar/storefront/internal/catalog"
	"github.com/buyzaar/storefront/internal/favorites"
	"github.com/buyzaar/storefront/internal/profile"
	"github.com/buyzaar/storefront/pkg/config"
	"github.com/buyzaar/storefront/pkg/logger"
	"github.com/buyzaar/storefront/pkg/metrics"
	"github.com/buyzaar/storefront/pkg/storage"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := storage.Open(context.Background(), cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to open state store", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing state store", err)
		}
	}()

	metricsCollector := metrics.NewStorefrontMetrics(prometheus.DefaultRegisterer)

	repo := catalog.NewRepository(catalog.GenerateProducts(cfg.Catalog.Size, cfg.Catalog.Seed))

	rates, err := cart.RatesFromConfig(cfg.Cart)
	if err != nil {
		logg.Error(context.Background(), "failed to parse cart rates", err)
		os.Exit(1)
	}

	ledger, err := cart.NewLedger(cart.LedgerParams{
		Store:        store,
		Logger:       logg,
		Metrics:      metricsCollector,
		Rates:        rates,
		Policy:       cfg.Cart.Policy(),
		MaxLineItems: cfg.Cart.MaxLineItems,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart ledger", err)
		os.Exit(1)
	}

	favoritesService := favorites.NewService(favorites.ServiceParams{
		Store:        store,
		Logger:       logg,
		MaxFavorites: cfg.Cart.MaxFavorites,
	})

	profileService := profile.NewService(profile.ServiceParams{
		Store:  store,
		Logger: logg,
	})

	for name, hydrate := range map[string]func(context.Context) error{
		"cart":      ledger.Hydrate,
		"favorites": favoritesService.Hydrate,
		"profile":   profileService.Hydrate,
	} {
		if err := hydrate(context.Background()); err != nil {
			ctx := logg.WithField(context.Background(), "state", name)
			logg.Error(ctx, "failed to hydrate persisted state", err)
			os.Exit(1)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"catalog":  repo.Len(),
		"hydrated": ledger.Len(),
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, store, repo, ledger, favoritesService, profileService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
