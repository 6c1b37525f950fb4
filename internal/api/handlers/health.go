package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/wonny/rs-screener/pkg/database"
)

// HealthChecker reports database health
type HealthChecker interface {
	HealthCheck(ctx context.Context) database.HealthStatus
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	db      HealthChecker // optional
	service string
}

// NewHealthHandler creates a new health handler. db may be nil.
func NewHealthHandler(db HealthChecker, service string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		service: service,
	}
}

// Check returns server health status
// GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"service": h.service,
	}

	if h.db == nil {
		respondJSON(w, http.StatusOK, body)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := h.db.HealthCheck(ctx)
	body["database"] = status
	if !status.Healthy {
		body["status"] = "degraded"
		respondJSON(w, http.StatusServiceUnavailable, body)
		return
	}
	respondJSON(w, http.StatusOK, body)
}
