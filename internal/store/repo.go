package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"
	"github.com/2beens/fitsync/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	Backoff:    50 * time.Millisecond,
}

const upsertWorkoutSQL = `
	INSERT INTO workout_cache (
		user_id, source, source_workout_id, workout_date, end_time, title,
		duration_minutes, total_sets, total_volume_kg, bodyweight_reps, exercise_count, muscle_groups,
		calories_burned, distance_meters, avg_heart_rate, workout_data, raw_payload,
		last_synced, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now(), now())
	ON CONFLICT (user_id, source, source_workout_id) DO UPDATE SET
		workout_date = EXCLUDED.workout_date,
		end_time = EXCLUDED.end_time,
		title = EXCLUDED.title,
		duration_minutes = EXCLUDED.duration_minutes,
		total_sets = EXCLUDED.total_sets,
		total_volume_kg = EXCLUDED.total_volume_kg,
		bodyweight_reps = EXCLUDED.bodyweight_reps,
		exercise_count = EXCLUDED.exercise_count,
		muscle_groups = EXCLUDED.muscle_groups,
		calories_burned = EXCLUDED.calories_burned,
		distance_meters = EXCLUDED.distance_meters,
		avg_heart_rate = EXCLUDED.avg_heart_rate,
		workout_data = EXCLUDED.workout_data,
		raw_payload = EXCLUDED.raw_payload,
		last_synced = now(),
		updated_at = now();`

const upsertDailyMetricSQL = `
	INSERT INTO daily_metrics (
		user_id, metric_date, steps, weight_lbs, active_calories, resting_heart_rate,
		distance_miles, exercise_minutes, stand_minutes, additional_metrics
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (user_id, metric_date) DO UPDATE SET
		steps = COALESCE(EXCLUDED.steps, daily_metrics.steps),
		weight_lbs = COALESCE(EXCLUDED.weight_lbs, daily_metrics.weight_lbs),
		active_calories = COALESCE(EXCLUDED.active_calories, daily_metrics.active_calories),
		resting_heart_rate = COALESCE(EXCLUDED.resting_heart_rate, daily_metrics.resting_heart_rate),
		distance_miles = COALESCE(EXCLUDED.distance_miles, daily_metrics.distance_miles),
		exercise_minutes = COALESCE(EXCLUDED.exercise_minutes, daily_metrics.exercise_minutes),
		stand_minutes = COALESCE(EXCLUDED.stand_minutes, daily_metrics.stand_minutes),
		additional_metrics = daily_metrics.additional_metrics || EXCLUDED.additional_metrics,
		updated_at = now();`

const insertRawMetricSQL = `
	INSERT INTO raw_metrics (user_id, metric_date, metric_type, value, unit, source, source_metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id, metric_type, metric_date) DO UPDATE SET
		value = EXCLUDED.value,
		unit = EXCLUDED.unit,
		source = EXCLUDED.source,
		source_metadata = EXCLUDED.source_metadata;`

// Repo is the PostgreSQL cache of canonical workouts and health metrics.
type Repo struct {
	db             *pgxpool.Pool
	retry          RetryPolicy
	retriesCounter prometheus.Counter
}

// NewRepo creates the repo. retriesCounter may be nil.
func NewRepo(db *pgxpool.Pool, retry RetryPolicy, retriesCounter prometheus.Counter) *Repo {
	if retry.MaxRetries < 0 {
		retry.MaxRetries = 0
	}
	return &Repo{
		db:             db,
		retry:          retry,
		retriesCounter: retriesCounter,
	}
}

// UpsertWorkouts writes the whole batch in one transaction, keyed by (user, source, external id).
// Existing rows keep their id and created_at, derived fields are overwritten.
func (r *Repo) UpsertWorkouts(ctx context.Context, workouts []workout.Workout) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	prepared := PrepareWorkouts(workouts)
	span.SetAttributes(attribute.Int("workouts.count", len(prepared)))
	if len(prepared) == 0 {
		return NewWorkoutsUpsertResult(0), nil
	}

	if err := r.withRetry(ctx, "upsert workouts", func(ctx context.Context) error {
		return r.upsertWorkoutsTx(ctx, prepared)
	}); err != nil {
		return nil, err
	}

	return NewWorkoutsUpsertResult(len(prepared)), nil
}

func (r *Repo) upsertWorkoutsTx(ctx context.Context, workouts []workout.Workout) (err error) {
	batch := &pgx.Batch{}
	for _, w := range workouts {
		args, err := workoutArgs(w)
		if err != nil {
			return err
		}
		batch.Queue(upsertWorkoutSQL, args...)
	}

	return r.execBatchInTx(ctx, batch)
}

func workoutArgs(w workout.Workout) ([]any, error) {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []workout.Exercise{}
	}
	workoutData, err := json.Marshal(exercises)
	if err != nil {
		return nil, fmt.Errorf("marshal exercises of %s: %w", w.Key(), err)
	}

	var rawPayload []byte
	if len(w.RawPayload) > 0 {
		rawPayload = w.RawPayload
	}

	muscleGroups := w.MuscleGroups
	if muscleGroups == nil {
		muscleGroups = []string{}
	}

	return []any{
		w.UserID, string(w.Source), w.ExternalID, w.StartTime.UTC(), w.EndTime.UTC(), w.Title,
		w.DurationMinutes, w.TotalSets, w.TotalVolumeKg, w.BodyweightReps, w.ExerciseCount, muscleGroups,
		w.CaloriesBurned, w.DistanceMeters, w.AvgHeartRate, workoutData, rawPayload,
	}, nil
}

// ListWorkouts returns cached workouts of a user, newest first.
func (r *Repo) ListWorkouts(ctx context.Context, params workout.ListParams) (_ []workout.Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID))
	span.SetAttributes(attribute.String("source", string(params.Source)))
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id::text, user_id, source, source_workout_id, workout_date, end_time, title,
				duration_minutes, total_sets, total_volume_kg::float8, bodyweight_reps, exercise_count, muscle_groups,
				calories_burned, distance_meters, avg_heart_rate, workout_data, raw_payload,
				last_synced, created_at, updated_at
			FROM workout_cache
			WHERE user_id = $1
				AND ($2::text = '' OR source = $2)
				AND ($3::timestamptz IS NULL OR workout_date >= $3)
				AND ($4::timestamptz IS NULL OR workout_date <= $4)
			ORDER BY workout_date DESC
			LIMIT NULLIF($5::int, 0);`,
		params.UserID, string(params.Source), params.From, params.To, params.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var workouts []workout.Workout
	for rows.Next() {
		var w workout.Workout
		var source string
		var workoutData, rawPayload []byte
		if err := rows.Scan(
			&w.ID, &w.UserID, &source, &w.ExternalID, &w.StartTime, &w.EndTime, &w.Title,
			&w.DurationMinutes, &w.TotalSets, &w.TotalVolumeKg, &w.BodyweightReps, &w.ExerciseCount, &w.MuscleGroups,
			&w.CaloriesBurned, &w.DistanceMeters, &w.AvgHeartRate, &workoutData, &rawPayload,
			&w.LastSynced, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		w.Source = workout.Source(source)
		w.StartTime = w.StartTime.UTC()
		w.EndTime = w.EndTime.UTC()
		if err := json.Unmarshal(workoutData, &w.Exercises); err != nil {
			return nil, fmt.Errorf("unmarshal workout data of %s: %w", w.ID, err)
		}
		if len(rawPayload) > 0 {
			w.RawPayload = rawPayload
		}
		workouts = append(workouts, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

// UpsertDailyMetrics merges days into existing rows; present columns overwrite, absent ones are kept.
func (r *Repo) UpsertDailyMetrics(ctx context.Context, days []workout.DailyMetric) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.daily_metrics.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	prepared := PrepareDailyMetrics(days)
	span.SetAttributes(attribute.Int("days.count", len(prepared)))
	if len(prepared) == 0 {
		return NewUpsertResult(0, "daily metrics"), nil
	}

	batch := &pgx.Batch{}
	for _, d := range prepared {
		additional, err := json.Marshal(nonNilMetrics(d.AdditionalMetrics))
		if err != nil {
			return nil, fmt.Errorf("marshal additional metrics: %w", err)
		}
		batch.Queue(
			upsertDailyMetricSQL,
			d.UserID, d.MetricDate, d.Steps, d.WeightLbs, d.ActiveCalories, d.RestingHeartRate,
			d.DistanceMiles, d.ExerciseMinutes, d.StandMinutes, additional,
		)
	}

	if err := r.withRetry(ctx, "upsert daily metrics", func(ctx context.Context) error {
		return r.execBatchInTx(ctx, batch)
	}); err != nil {
		return nil, err
	}

	return NewUpsertResult(len(prepared), "daily metrics"), nil
}

// ListDailyMetrics returns the daily metrics of a user between from and to (inclusive dates), newest first.
// A zero to leaves the range open.
func (r *Repo) ListDailyMetrics(ctx context.Context, userID string, from, to time.Time) (_ []workout.DailyMetric, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.daily_metrics.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	var toDate *time.Time
	if !to.IsZero() {
		toDate = &to
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				user_id, metric_date, steps, weight_lbs, active_calories, resting_heart_rate,
				distance_miles, exercise_minutes, stand_minutes, additional_metrics
			FROM daily_metrics
			WHERE user_id = $1
				AND metric_date >= $2::date
				AND ($3::date IS NULL OR metric_date <= $3::date)
			ORDER BY metric_date DESC;`,
		userID, from, toDate,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var days []workout.DailyMetric
	for rows.Next() {
		var d workout.DailyMetric
		var additional []byte
		if err := rows.Scan(
			&d.UserID, &d.MetricDate, &d.Steps, &d.WeightLbs, &d.ActiveCalories, &d.RestingHeartRate,
			&d.DistanceMiles, &d.ExerciseMinutes, &d.StandMinutes, &additional,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if len(additional) > 0 {
			if err := json.Unmarshal(additional, &d.AdditionalMetrics); err != nil {
				return nil, fmt.Errorf("unmarshal additional metrics of %s: %w", d.MetricDate.Format(time.DateOnly), err)
			}
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	span.SetAttributes(attribute.Int("daily_metrics.count", len(days)))
	return days, nil
}

// UpsertRawMetrics writes samples in chunks, each chunk in its own transaction.
// A sample stored for the same (user, type, instant) is overwritten.
func (r *Repo) UpsertRawMetrics(ctx context.Context, metrics []workout.RawMetric) (_ *UpsertResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.raw_metrics.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	prepared := PrepareRawMetrics(metrics)
	span.SetAttributes(attribute.Int("raw_metrics.count", len(prepared)))

	for _, chunk := range Chunks(len(prepared), RawMetricsChunkSize) {
		batch := &pgx.Batch{}
		for _, m := range prepared[chunk[0]:chunk[1]] {
			metadata, err := json.Marshal(m.Metadata)
			if err != nil {
				return nil, fmt.Errorf("marshal raw metric metadata: %w", err)
			}
			batch.Queue(
				insertRawMetricSQL,
				m.UserID, m.MetricDate.UTC(), m.MetricType, m.Value, m.Unit, m.Source, metadata,
			)
		}

		if err := r.withRetry(ctx, "insert raw metrics", func(ctx context.Context) error {
			return r.execBatchInTx(ctx, batch)
		}); err != nil {
			return nil, fmt.Errorf("chunk [%d:%d]: %w", chunk[0], chunk[1], err)
		}
	}

	return NewUpsertResult(len(prepared), "raw metrics"), nil
}

func (r *Repo) execBatchInTx(ctx context.Context, batch *pgx.Batch) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("exec batch statement %d: %w", i, err)
		}
	}
	return br.Close()
}

// withRetry re-runs fn when the transaction lost a race against a concurrent writer.
func (r *Repo) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || !pkg.IsRetryableTxError(err) || attempt >= r.retry.MaxRetries {
			break
		}

		if r.retriesCounter != nil {
			r.retriesCounter.Inc()
		}
		wait := r.retry.Backoff * time.Duration(attempt+1)
		log.Debugf("%s: retryable tx error (attempt %d), retrying in %s: %s", op, attempt+1, wait, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(wait):
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func nonNilMetrics(m map[string]workout.MetricValue) map[string]workout.MetricValue {
	if m == nil {
		return map[string]workout.MetricValue{}
	}
	return m
}
