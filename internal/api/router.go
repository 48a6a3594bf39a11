package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/olkan/catalog/internal/api/handlers"
	"github.com/olkan/catalog/pkg/config"
	"github.com/olkan/catalog/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	cfg *config.Config,
	datasetHandler *handlers.DatasetHandler,
	qualityHandler *handlers.QualityHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Catalog API
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/datasets", datasetHandler.Create).Methods("POST")
	v1.HandleFunc("/datasets", datasetHandler.List).Methods("GET")
	v1.HandleFunc("/datasets/{id}", datasetHandler.Get).Methods("GET")
	v1.HandleFunc("/datasets/{id}", datasetHandler.Update).Methods("PUT")
	v1.HandleFunc("/datasets/{id}", datasetHandler.Delete).Methods("DELETE")
	v1.HandleFunc("/datasets/{id}/quality", qualityHandler.GetReport).Methods("GET")

	// AI quality endpoints
	ai := r.PathPrefix("/api/ai").Subrouter()
	ai.HandleFunc("/quality/stats", qualityHandler.Stats).Methods("GET")
	ai.HandleFunc("/quality/assess", qualityHandler.BatchAssess).Methods("POST")
	ai.HandleFunc("/quality/benchmarks", qualityHandler.Benchmarks).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))
	if cfg.RateLimit.Enabled {
		r.Use(rateLimitMiddleware(cfg, log))
	}

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "olkan-catalog-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
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
