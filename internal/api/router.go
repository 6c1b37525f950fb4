package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/rs-screener/internal/api/handlers"
	"github.com/wonny/rs-screener/pkg/logger"
)

// NewRouter creates and configures the HTTP router. metricsHandler may be nil.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	screening *handlers.ScreeningHandler,
	health *handlers.HealthHandler,
	metricsHandler http.Handler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", health.Check).Methods("GET")

	// Prometheus
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Screening endpoints
	api.HandleFunc("/screening/latest", screening.GetLatest).Methods("GET")
	api.HandleFunc("/screening/latest/summary", screening.GetLatestSummary).Methods("GET")
	api.HandleFunc("/screening/runs/{id:[0-9]+}", screening.GetRun).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// statusRecorder captures the response status for request logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			entry := log.WithFields(map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			if rec.status >= http.StatusInternalServerError {
				entry.Warn("HTTP request failed")
				return
			}
			entry.Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
