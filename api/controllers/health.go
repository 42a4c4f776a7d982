package controllers

import (
	"net/http"

	"github.com/takuma-ones/ec-app/api/responses"
	"github.com/takuma-ones/ec-app/pkg/config"
	"github.com/takuma-ones/ec-app/pkg/db"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"github.com/takuma-ones/ec-app/pkg/logger"
	"github.com/takuma-ones/ec-app/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EC-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-EC-Env", cfg.App.Env)

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
