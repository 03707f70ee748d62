package controllers

import (
	"context"
	"net/http"

	"github.com/buyzaar/storefront/api/responses"
	"github.com/buyzaar/storefront/pkg/config"
	pkgerrors "github.com/buyzaar/storefront/pkg/errors"
	"github.com/buyzaar/storefront/pkg/logger"
)

// StatePinger is the readiness view of the state store.
type StatePinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Buyzaar-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, store StatePinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Buyzaar-Env", cfg.App.Env)

		if store != nil {
			if err := store.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeServer, err, "state store unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
