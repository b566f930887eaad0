package api

import (
	"net/http"

	"github.com/2beens/fitsync/internal/middleware"
	"github.com/2beens/fitsync/internal/telemetry/metrics"

	"github.com/gorilla/mux"
)

// SetupRoutes registers the API. Sync and import routes share one rate limit bucket per route.
func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	metricsManager *metrics.Manager,
	syncAllowedPerMin int,
) {
	syncRouter := r.PathPrefix("/sync").Subrouter()
	syncRouter.Handle("/hevy",
		middleware.RateLimit(rateLimiter, "sync-hevy", syncAllowedPerMin, metricsManager)(
			http.HandlerFunc(handler.HandleSyncHevy),
		),
	).Methods("POST", "OPTIONS").Name("sync-hevy")
	syncRouter.HandleFunc("/status", handler.HandleSyncStatus).Methods("GET", "OPTIONS").Name("sync-status")

	r.Handle("/import/health",
		middleware.RateLimit(rateLimiter, "import-health", syncAllowedPerMin, metricsManager)(
			http.HandlerFunc(handler.HandleImportHealth),
		),
	).Methods("POST", "OPTIONS").Name("import-health")

	r.HandleFunc("/workouts", handler.HandleListWorkouts).Methods("GET", "OPTIONS").Name("list-workouts")

	analyticsRouter := r.PathPrefix("/analytics").Subrouter()
	analyticsRouter.HandleFunc("/frequency", handler.HandleFrequency).Methods("GET", "OPTIONS").Name("analytics-frequency")
	analyticsRouter.HandleFunc("/progression", handler.HandleProgression).Methods("GET", "OPTIONS").Name("analytics-progression")
	analyticsRouter.HandleFunc("/plateau", handler.HandlePlateau).Methods("GET", "OPTIONS").Name("analytics-plateau")
	analyticsRouter.HandleFunc("/balance", handler.HandleBalance).Methods("GET", "OPTIONS").Name("analytics-balance")
	analyticsRouter.HandleFunc("/overview", handler.HandleOverview).Methods("GET", "OPTIONS").Name("analytics-overview")

	r.HandleFunc("/health/metrics", handler.HandleHealthMetrics).Methods("GET", "OPTIONS").Name("health-metrics")
}
