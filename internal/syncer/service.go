package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitsync/internal/events"
	"github.com/2beens/fitsync/internal/ingest/healthexport"
	"github.com/2beens/fitsync/internal/ingest/hevy"
	"github.com/2beens/fitsync/internal/reconcile"
	"github.com/2beens/fitsync/internal/store"
	"github.com/2beens/fitsync/internal/telemetry/metrics"
	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=syncer_test

// ReconcileMargin widens the time range of cached records compared against new ones.
const ReconcileMargin = 24 * time.Hour

type workoutsFetcher interface {
	FetchWorkouts(ctx context.Context) (*hevy.FetchResult, error)
}

type workoutsStore interface {
	UpsertWorkouts(ctx context.Context, workouts []workout.Workout) (*store.UpsertResult, error)
	ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error)
	UpsertDailyMetrics(ctx context.Context, days []workout.DailyMetric) (*store.UpsertResult, error)
	UpsertRawMetrics(ctx context.Context, metrics []workout.RawMetric) (*store.UpsertResult, error)
}

type statusRecorder interface {
	Save(ctx context.Context, result *Result) error
}

type eventPublisher interface {
	PublishSynced(ctx context.Context, ev events.WorkoutsSynced) error
}

type reportInvalidator interface {
	InvalidateReports()
}

// Result summarizes one sync or import run. It is returned even when the run failed.
type Result struct {
	UserID         string         `json:"userId"`
	Source         workout.Source `json:"source"`
	TotalProcessed int            `json:"totalProcessed"`
	Saved          int            `json:"saved"`
	Skipped        int            `json:"skipped"`
	Discarded      int            `json:"discarded"`
	Pages          int            `json:"pages,omitempty"`
	Truncated      bool           `json:"truncated,omitempty"`
	Message        string         `json:"message"`
	Error          string         `json:"error,omitempty"`
	StartedAt      time.Time      `json:"startedAt"`
	FinishedAt     time.Time      `json:"finishedAt"`
}

type HealthImportResult struct {
	Workouts     *Result `json:"workouts"`
	DailyMetrics int     `json:"dailyMetrics"`
	RawMetrics   int     `json:"rawMetrics"`
	Skipped      int     `json:"skipped"`
	Message      string  `json:"message"`
}

type ServiceParams struct {
	Fetcher  workoutsFetcher
	Store    workoutsStore
	Resolver workout.MuscleGroupResolver
	// Authoritative defaults to hevy.
	Authoritative workout.Source
	// Optional collaborators.
	Status    statusRecorder
	Publisher eventPublisher
	Reports   reportInvalidator
	Metrics   *metrics.Manager
	Now       func() time.Time
}

type Service struct {
	fetcher       workoutsFetcher
	store         workoutsStore
	resolver      workout.MuscleGroupResolver
	authoritative workout.Source
	status        statusRecorder
	publisher     eventPublisher
	reports       reportInvalidator
	metrics       *metrics.Manager
	now           func() time.Time
}

func NewService(params ServiceParams) *Service {
	authoritative := params.Authoritative
	if authoritative == "" {
		authoritative = workout.SourceHevy
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	var publisher eventPublisher = events.NopPublisher{}
	if params.Publisher != nil {
		publisher = params.Publisher
	}
	return &Service{
		fetcher:       params.Fetcher,
		store:         params.Store,
		resolver:      params.Resolver,
		authoritative: authoritative,
		status:        params.Status,
		publisher:     publisher,
		reports:       params.Reports,
		metrics:       params.Metrics,
		now:           now,
	}
}

// SyncRemote pulls every workout from Hevy and writes the ones that survive reconciliation.
// The fetch runs before anything is written; a failed fetch writes nothing.
func (s *Service) SyncRemote(ctx context.Context, userID string) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.sync_remote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	result := s.newResult(userID, workout.SourceHevy)
	defer func() {
		s.finish(ctx, result, err)
	}()

	if s.fetcher == nil {
		return result, errors.New("no remote fetcher configured")
	}

	fetched, err := s.fetcher.FetchWorkouts(ctx)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to fetch workouts from %s.", displayName(workout.SourceHevy))
		return result, fmt.Errorf("fetch workouts: %w", err)
	}
	result.Pages = fetched.Pages
	result.Truncated = fetched.Truncated
	result.Skipped = fetched.Skipped
	if fetched.Truncated {
		log.Warnf("sync %s: stopped at the page ceiling after %d pages", userID, fetched.Pages)
	}

	if err := s.ingestRaw(ctx, result, fetched.Workouts); err != nil {
		return result, err
	}
	return result, nil
}

// ImportHealthExport writes daily metrics, raw samples and workouts of a parsed export.
func (s *Service) ImportHealthExport(ctx context.Context, userID string, export *healthexport.Export) (_ *HealthImportResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.import_health_export")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	importResult := &HealthImportResult{}
	if export == nil {
		importResult.Message = "Empty export."
		return importResult, nil
	}
	importResult.Skipped = export.Skipped
	if export.Errs != nil {
		log.Debugf("import %s: skipped %d export entries: %s", userID, export.Skipped, export.Errs)
	}

	days := make([]workout.DailyMetric, len(export.DailyMetrics))
	for i, d := range export.DailyMetrics {
		d.UserID = userID
		days[i] = d
	}
	daysResult, err := s.store.UpsertDailyMetrics(ctx, days)
	if err != nil {
		importResult.Message = "Failed to save daily metrics."
		return importResult, fmt.Errorf("upsert daily metrics: %w", err)
	}
	importResult.DailyMetrics = daysResult.Count

	samples := make([]workout.RawMetric, len(export.RawMetrics))
	for i, m := range export.RawMetrics {
		m.UserID = userID
		samples[i] = m
	}
	samplesResult, err := s.store.UpsertRawMetrics(ctx, samples)
	if err != nil {
		importResult.Message = "Failed to save raw metrics."
		return importResult, fmt.Errorf("upsert raw metrics: %w", err)
	}
	importResult.RawMetrics = samplesResult.Count

	result := s.newResult(userID, workout.SourceAppleHealth)
	importResult.Workouts = result
	err = s.ingestRaw(ctx, result, export.Workouts)
	s.finish(ctx, result, err)
	if err != nil {
		importResult.Message = result.Message
		return importResult, err
	}

	importResult.Message = fmt.Sprintf(
		"Imported %d daily metrics, %d raw metrics and %d workouts.",
		importResult.DailyMetrics, importResult.RawMetrics, result.Saved,
	)
	return importResult, nil
}

// ImportFitActivity writes one decoded FIT activity through the same path as other sources.
func (s *Service) ImportFitActivity(ctx context.Context, userID string, raw workout.RawWorkout) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "syncer.import_fit_activity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	result := s.newResult(userID, workout.SourceFitFile)
	defer func() {
		s.finish(ctx, result, err)
	}()

	if err := s.ingestRaw(ctx, result, []workout.RawWorkout{raw}); err != nil {
		return result, err
	}
	return result, nil
}

// ingestRaw builds canonical records, reconciles them against the cache and upserts the survivors.
// Records already skipped by the caller (result.Skipped) count as processed.
func (s *Service) ingestRaw(ctx context.Context, result *Result, raws []workout.RawWorkout) error {
	source := result.Source
	result.TotalProcessed = len(raws) + result.Skipped
	if len(raws) == 0 {
		result.Message = fmt.Sprintf("No workouts found from %s.", displayName(source))
		return nil
	}

	var built []workout.Workout
	var skipErrs error
	for _, raw := range raws {
		w, err := workout.Build(result.UserID, source, raw, s.resolver)
		if err != nil {
			result.Skipped++
			skipErrs = multierr.Append(skipErrs, err)
			continue
		}
		built = append(built, w)
	}
	if skipErrs != nil {
		log.Debugf("%s %s: skipped records: %s", source, result.UserID, skipErrs)
	}

	survivors, discarded, err := s.reconcileWithCache(ctx, result.UserID, built)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to reconcile workouts from %s.", displayName(source))
		return err
	}
	result.Discarded = len(discarded)
	for _, d := range discarded {
		log.Debugf("%s %s: discarded %s (%s) as duplicate", source, result.UserID, d.ExternalID, d.StartTime)
	}

	upserted, err := s.store.UpsertWorkouts(ctx, survivors)
	if err != nil {
		result.Message = fmt.Sprintf("Failed to save workouts from %s.", displayName(source))
		return fmt.Errorf("upsert workouts: %w", err)
	}
	result.Saved = upserted.Count
	result.Message = fmt.Sprintf("Successfully synced %d workouts from %s.", result.Saved, displayName(source))

	if result.Saved > 0 {
		ids := make([]string, 0, len(survivors))
		for _, w := range survivors {
			ids = append(ids, w.ExternalID)
		}
		if err := s.publisher.PublishSynced(ctx, events.WorkoutsSynced{
			UserID:     result.UserID,
			Source:     source,
			Saved:      result.Saved,
			Skipped:    result.Skipped,
			Discarded:  result.Discarded,
			WorkoutIDs: ids,
			SyncedAt:   s.now().UTC(),
		}); err != nil {
			log.Errorf("failed to publish sync event for %s: %s", result.UserID, err)
		}
		if s.reports != nil {
			s.reports.InvalidateReports()
		}
	}
	return nil
}

// reconcileWithCache runs the reconciler over the new records plus the cached records of the
// same user around their time range. Only new records are returned as survivors; cached rows
// stay untouched.
func (s *Service) reconcileWithCache(ctx context.Context, userID string, built []workout.Workout) (survivors, discarded []workout.Workout, err error) {
	if len(built) == 0 {
		return nil, nil, nil
	}

	from, to := built[0].StartTime, built[0].StartTime
	newKeys := make(map[string]struct{}, len(built))
	for _, w := range built {
		if w.StartTime.Before(from) {
			from = w.StartTime
		}
		if w.StartTime.After(to) {
			to = w.StartTime
		}
		newKeys[w.Key()] = struct{}{}
	}
	from = from.Add(-ReconcileMargin)
	to = to.Add(ReconcileMargin)

	cached, err := s.store.ListWorkouts(ctx, workout.ListParams{
		UserID: userID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("list cached workouts: %w", err)
	}

	candidates := make([]workout.Workout, 0, len(cached)+len(built))
	for _, c := range cached {
		// a re-fetched record replaces its cached version
		if _, ok := newKeys[c.Key()]; ok {
			continue
		}
		candidates = append(candidates, c)
	}
	candidates = append(candidates, built...)

	for _, w := range reconcile.Reconcile(candidates, s.authoritative) {
		if _, ok := newKeys[w.Key()]; ok {
			survivors = append(survivors, w)
		}
	}
	for _, w := range reconcile.Discarded(candidates, s.authoritative) {
		if _, ok := newKeys[w.Key()]; ok {
			discarded = append(discarded, w)
		}
	}
	return survivors, discarded, nil
}

func (s *Service) newResult(userID string, source workout.Source) *Result {
	return &Result{
		UserID:    userID,
		Source:    source,
		StartedAt: s.now().UTC(),
	}
}

// finish records metrics and the status of a run.
func (s *Service) finish(ctx context.Context, result *Result, err error) {
	result.FinishedAt = s.now().UTC()
	if err != nil {
		result.Error = err.Error()
		if result.Message == "" {
			result.Message = fmt.Sprintf("Failed to sync workouts from %s.", displayName(result.Source))
		}
		log.Errorf("%s sync for %s failed: %s", result.Source, result.UserID, err)
	} else {
		log.Infof("%s sync for %s: %s (processed %d, skipped %d, discarded %d)",
			result.Source, result.UserID, result.Message, result.TotalProcessed, result.Skipped, result.Discarded)
	}

	if s.metrics != nil {
		source := string(result.Source)
		s.metrics.HistSyncDuration.WithLabelValues(source).Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())
		s.metrics.CounterSyncedWorkouts.WithLabelValues(source).Add(float64(result.Saved))
		s.metrics.CounterSkippedRecords.WithLabelValues(source).Add(float64(result.Skipped))
		s.metrics.CounterDiscardedDuplicates.WithLabelValues(source).Add(float64(result.Discarded))
		if err != nil {
			s.metrics.CounterSyncFailures.WithLabelValues(source).Inc()
		}
	}

	if s.status != nil {
		if saveErr := s.status.Save(ctx, result); saveErr != nil {
			log.Errorf("failed to save sync status for %s: %s", result.UserID, saveErr)
		}
	}
}

func displayName(source workout.Source) string {
	switch source {
	case workout.SourceHevy:
		return "Hevy"
	case workout.SourceAppleHealth:
		return "Apple Health"
	case workout.SourceFitFile:
		return "FIT file"
	default:
		return string(source)
	}
}
