package handler

import (
	"context"
	"net/http"
	"time"

	"cloudstorage/internal/httputil"
	"cloudstorage/internal/logger"
)

// HealthCheck reports whether a backing dependency is reachable
type HealthCheck func(ctx context.Context) error

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	check  HealthCheck
	logger *logger.Logger
}

// NewHealthHandler creates a health handler. A nil check always reports ok.
func NewHealthHandler(check HealthCheck, log *logger.Logger) *HealthHandler {
	return &HealthHandler{check: check, logger: log}
}

// Health is a simple health check endpoint
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.check(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("health check failed")
			httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "unavailable",
				"time":   time.Now(),
			})
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now(),
	})
}
