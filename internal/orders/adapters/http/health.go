package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

const readinessTimeout = 2 * time.Second

// RegisterHealth binds /healthz, which always answers, and /readyz, which
// pings the backing store.
func RegisterHealth(r chi.Router, checker ports.HealthChecker, logger *slog.Logger) {
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"status": "ok"}})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := checker.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "store unreachable")
			return
		}
		writeJSON(w, http.StatusOK, envelope{Success: true, Data: map[string]string{"status": "ready"}})
	})
}
