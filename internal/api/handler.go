package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/analytics"
	"github.com/2beens/fitsync/internal/ingest/healthexport"
	"github.com/2beens/fitsync/internal/syncer"
	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"
	"github.com/2beens/fitsync/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=api_test

// MaxImportBodyBytes caps the size of an uploaded health export.
const MaxImportBodyBytes = 256 << 20

const dateLayout = "2006-01-02"

type reportEngine interface {
	Frequency(ctx context.Context, userID string, windowDays int) (*analytics.FrequencyReport, error)
	Progression(ctx context.Context, userID, exerciseName string, windowDays int) (*analytics.Progression, error)
	Plateau(ctx context.Context, userID, exerciseName string) (*analytics.PlateauReport, error)
	Balance(ctx context.Context, userID string) (*analytics.BalanceReport, error)
	Overview(ctx context.Context, userID string, windowDays int) (*analytics.Overview, error)
	HealthMetrics(ctx context.Context, userID string, windowDays int, metrics []string) (*analytics.HealthMetricsReport, error)
}

type workoutsLister interface {
	ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error)
}

type syncService interface {
	SyncRemote(ctx context.Context, userID string) (*syncer.Result, error)
	ImportHealthExport(ctx context.Context, userID string, export *healthexport.Export) (*syncer.HealthImportResult, error)
}

type statusReader interface {
	Get(ctx context.Context, userID string, source workout.Source) (*syncer.Result, error)
}

type ListWorkoutsResponse struct {
	Workouts []workout.Workout `json:"workouts"`
	Total    int               `json:"total"`
}

type Handler struct {
	reports reportEngine
	lister  workoutsLister
	syncer  syncService
	status  statusReader
}

func NewHandler(reports reportEngine, lister workoutsLister, syncer syncService, status statusReader) *Handler {
	return &Handler{
		reports: reports,
		lister:  lister,
		syncer:  syncer,
		status:  status,
	}
}

// userIDParam reads and validates the user_id query parameter.
func userIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "error, user_id not set", http.StatusBadRequest)
		return "", false
	}
	if _, err := uuid.Parse(userID); err != nil {
		http.Error(w, "error, user_id must be a uuid", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

// intParam reads an optional non-negative integer query parameter, zero when missing.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		http.Error(w, "error, invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func dateParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		http.Error(w, "error, invalid "+name+", use YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func (handler *Handler) HandleSyncHevy(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sync.hevy")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	result, err := handler.syncer.SyncRemote(ctx, userID)
	if err != nil {
		log.Errorf("hevy sync for %s failed: %s", userID, err)
		statusCode := http.StatusInternalServerError
		if workout.IsTransportError(err) {
			statusCode = http.StatusBadGateway
		}
		if result == nil {
			http.Error(w, "error, sync failed", statusCode)
			return
		}
		pkg.WriteJSON(w, result, statusCode)
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *Handler) HandleImportHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.import.health")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	export, err := healthexport.ParseStream(http.MaxBytesReader(w, r.Body, MaxImportBodyBytes))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || errors.Is(err, healthexport.ErrExportTooLarge) {
			http.Error(w, "error, export too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Tracef("import health export, parse body: %s", err)
		http.Error(w, "error, invalid health export: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := handler.syncer.ImportHealthExport(ctx, userID, export)
	if err != nil {
		log.Errorf("health import for %s failed: %s", userID, err)
		if result == nil {
			http.Error(w, "error, import failed", http.StatusInternalServerError)
			return
		}
		pkg.WriteJSON(w, result, http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *Handler) HandleSyncStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sync.status")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	source := workout.Source(r.URL.Query().Get("source"))
	if source == "" {
		source = workout.SourceHevy
	}

	result, err := handler.status.Get(ctx, userID, source)
	if err != nil {
		if errors.Is(err, syncer.ErrStatusNotFound) {
			http.Error(w, "error, no sync recorded", http.StatusNotFound)
			return
		}
		log.Errorf("get sync status for %s: %s", userID, err)
		http.Error(w, "error, failed to get sync status", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *Handler) HandleListWorkouts(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	from, ok := dateParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := dateParam(w, r, "to")
	if !ok {
		return
	}
	if to != nil {
		// inclusive end date
		endOfDay := to.Add(24*time.Hour - time.Nanosecond)
		to = &endOfDay
	}

	workouts, err := handler.lister.ListWorkouts(ctx, workout.ListParams{
		UserID: userID,
		Source: workout.Source(r.URL.Query().Get("source")),
		From:   from,
		To:     to,
		Limit:  limit,
	})
	if err != nil {
		log.Errorf("list workouts for %s: %s", userID, err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}
	if workouts == nil {
		workouts = []workout.Workout{}
	}

	pkg.WriteJSON(w, ListWorkoutsResponse{
		Workouts: workouts,
		Total:    len(workouts),
	}, http.StatusOK)
}

func (handler *Handler) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.frequency")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}

	report, err := handler.reports.Frequency(ctx, userID, days)
	if err != nil {
		log.Errorf("frequency report for %s: %s", userID, err)
		http.Error(w, "error, failed to analyze workouts", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.progression")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise not set", http.StatusBadRequest)
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}

	progression, err := handler.reports.Progression(ctx, userID, exercise, days)
	if err != nil {
		log.Errorf("progression of %q for %s: %s", exercise, userID, err)
		http.Error(w, "error, failed to get exercise history", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, progression, http.StatusOK)
}

func (handler *Handler) HandlePlateau(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.plateau")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise not set", http.StatusBadRequest)
		return
	}

	report, err := handler.reports.Plateau(ctx, userID, exercise)
	if err != nil {
		log.Errorf("plateau of %q for %s: %s", exercise, userID, err)
		http.Error(w, "error, failed to detect plateau", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (handler *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.balance")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	report, err := handler.reports.Balance(ctx, userID)
	if err != nil {
		log.Errorf("balance report for %s: %s", userID, err)
		http.Error(w, "error, failed to assess muscle balance", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}

func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.overview")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}

	overview, err := handler.reports.Overview(ctx, userID, days)
	if err != nil {
		log.Errorf("overview for %s: %s", userID, err)
		http.Error(w, "error, failed to build overview", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, overview, http.StatusOK)
}

func (handler *Handler) HandleHealthMetrics(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.metrics")
	defer span.End()

	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}
	var metrics []string
	if raw := r.URL.Query().Get("metrics"); raw != "" {
		metrics = strings.Split(raw, ",")
	}

	report, err := handler.reports.HealthMetrics(ctx, userID, days, metrics)
	if err != nil {
		if errors.Is(err, analytics.ErrHealthMetricsUnavailable) {
			http.Error(w, "error, health metrics not available", http.StatusNotImplemented)
			return
		}
		log.Errorf("health metrics for %s: %s", userID, err)
		http.Error(w, "error, failed to get health metrics", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSON(w, report, http.StatusOK)
}
