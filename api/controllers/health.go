package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/buynowhq/buynow-backend/api/responses"
	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db"
	"github.com/buynowhq/buynow-backend/pkg/logger"
	"github.com/buynowhq/buynow-backend/pkg/redis"
	"github.com/buynowhq/buynow-backend/pkg/storage/gcs"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Buynow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing dependency and reports per-dependency
// status. Any failure turns the response into a 503.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, gcsP gcs.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		probe := func(name string, ping func(context.Context) error) {
			if ping == nil {
				checks[name] = "not configured"
				healthy = false
				return
			}
			if err := ping(ctx); err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness probe failed: "+err.Error())
				}
				checks[name] = "unreachable"
				healthy = false
				return
			}
			checks[name] = "ok"
		}

		var dbPing, redisPing, gcsPing func(context.Context) error
		if dbP != nil {
			dbPing = dbP.Ping
		}
		if redisP != nil {
			redisPing = redisP.Ping
		}
		if gcsP != nil {
			gcsPing = gcsP.Ping
		}
		probe("postgres", dbPing)
		probe("redis", redisPing)
		probe("gcs", gcsPing)

		w.Header().Set("X-Buynow-Env", cfg.App.Env)
		status := http.StatusOK
		state := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": state,
			"checks": checks,
		})
	}
}
