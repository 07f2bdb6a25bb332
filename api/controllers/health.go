package controllers

import (
	"context"
	"net/http"

	"github.com/lauracastellan/velora-backend/api/responses"
	"github.com/lauracastellan/velora-backend/pkg/config"
	pkgerrors "github.com/lauracastellan/velora-backend/pkg/errors"
	"github.com/lauracastellan/velora-backend/pkg/logger"
)

// Pinger is the readiness probe a backing store exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Velora-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness. When the catalog cache feature is on, a
// failing Redis ping makes the instance not ready; otherwise Redis is not a
// hard dependency.
func HealthReady(cfg *config.Config, cache Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Velora-Env", cfg.App.Env)

		if cfg.FeatureFlags.CatalogCache && cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cache unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
