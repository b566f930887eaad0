// Package sqlite is a single-file cache used by the offline CLI. It keeps the
// same upsert contract as the PostgreSQL repo.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/store"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// fixed width, so the text column sorts chronologically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `
	CREATE TABLE IF NOT EXISTS workout_cache (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		source TEXT NOT NULL,
		source_workout_id TEXT NOT NULL,
		workout_date TEXT NOT NULL,
		end_time TEXT NOT NULL,
		title TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		total_sets INTEGER NOT NULL DEFAULT 0,
		total_volume_kg REAL NOT NULL DEFAULT 0,
		bodyweight_reps INTEGER NOT NULL DEFAULT 0,
		exercise_count INTEGER NOT NULL DEFAULT 0,
		muscle_groups TEXT NOT NULL DEFAULT '[]',
		calories_burned REAL,
		distance_meters REAL,
		avg_heart_rate REAL,
		workout_data TEXT NOT NULL DEFAULT '[]',
		raw_payload TEXT,
		last_synced TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, source, source_workout_id)
	);
	CREATE INDEX IF NOT EXISTS idx_workout_cache_user_date ON workout_cache(user_id, workout_date DESC);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		user_id TEXT NOT NULL,
		metric_date TEXT NOT NULL,
		steps REAL,
		weight_lbs REAL,
		active_calories REAL,
		resting_heart_rate REAL,
		distance_miles REAL,
		exercise_minutes REAL,
		stand_minutes REAL,
		additional_metrics TEXT NOT NULL DEFAULT '{}',
		updated_at TEXT NOT NULL,
		PRIMARY KEY (user_id, metric_date)
	);

	CREATE TABLE IF NOT EXISTS raw_metrics (
		user_id TEXT NOT NULL,
		metric_date TEXT NOT NULL,
		metric_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT,
		source TEXT,
		source_metadata TEXT,
		PRIMARY KEY (user_id, metric_type, metric_date)
	);
`

type Store struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens or creates the cache database at path. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	path = strings.TrimPrefix(path, "sqlite:")
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	// one connection, so ":memory:" databases are not split across connections
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	log.Debugf("sqlite cache opened at %s", path)
	return &Store{
		conn: conn,
		now:  time.Now,
	}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) UpsertWorkouts(ctx context.Context, workouts []workout.Workout) (*store.UpsertResult, error) {
	prepared := store.PrepareWorkouts(workouts)
	if len(prepared) == 0 {
		return store.NewWorkoutsUpsertResult(0), nil
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO workout_cache (
				id, user_id, source, source_workout_id, workout_date, end_time, title,
				duration_minutes, total_sets, total_volume_kg, bodyweight_reps, exercise_count, muscle_groups,
				calories_burned, distance_meters, avg_heart_rate, workout_data, raw_payload,
				last_synced, created_at, updated_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (user_id, source, source_workout_id) DO UPDATE SET
				workout_date = excluded.workout_date,
				end_time = excluded.end_time,
				title = excluded.title,
				duration_minutes = excluded.duration_minutes,
				total_sets = excluded.total_sets,
				total_volume_kg = excluded.total_volume_kg,
				bodyweight_reps = excluded.bodyweight_reps,
				exercise_count = excluded.exercise_count,
				muscle_groups = excluded.muscle_groups,
				calories_burned = excluded.calories_burned,
				distance_meters = excluded.distance_meters,
				avg_heart_rate = excluded.avg_heart_rate,
				workout_data = excluded.workout_data,
				raw_payload = excluded.raw_payload,
				last_synced = excluded.last_synced,
				updated_at = excluded.updated_at`)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		now := s.now().UTC().Format(timeLayout)
		for _, w := range prepared {
			exercises := w.Exercises
			if exercises == nil {
				exercises = []workout.Exercise{}
			}
			workoutData, err := json.Marshal(exercises)
			if err != nil {
				return fmt.Errorf("marshal exercises of %s: %w", w.Key(), err)
			}
			groups := w.MuscleGroups
			if groups == nil {
				groups = []string{}
			}
			muscleGroups, err := json.Marshal(groups)
			if err != nil {
				return fmt.Errorf("marshal muscle groups of %s: %w", w.Key(), err)
			}
			var rawPayload *string
			if len(w.RawPayload) > 0 {
				p := string(w.RawPayload)
				rawPayload = &p
			}

			if _, err := stmt.ExecContext(ctx,
				uuid.NewString(), w.UserID, string(w.Source), w.ExternalID,
				w.StartTime.UTC().Format(timeLayout), w.EndTime.UTC().Format(timeLayout), w.Title,
				w.DurationMinutes, w.TotalSets, w.TotalVolumeKg, w.BodyweightReps, w.ExerciseCount, string(muscleGroups),
				w.CaloriesBurned, w.DistanceMeters, w.AvgHeartRate, string(workoutData), rawPayload,
				now, now, now,
			); err != nil {
				return fmt.Errorf("upsert %s: %w", w.Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store.NewWorkoutsUpsertResult(len(prepared)), nil
}

func (s *Store) ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error) {
	query := `
		SELECT
			id, user_id, source, source_workout_id, workout_date, end_time, title,
			duration_minutes, total_sets, total_volume_kg, bodyweight_reps, exercise_count, muscle_groups,
			calories_burned, distance_meters, avg_heart_rate, workout_data, raw_payload,
			last_synced, created_at, updated_at
		FROM workout_cache
		WHERE user_id = ?`
	args := []any{params.UserID}
	if params.Source != "" {
		query += " AND source = ?"
		args = append(args, string(params.Source))
	}
	if params.From != nil {
		query += " AND workout_date >= ?"
		args = append(args, params.From.UTC().Format(timeLayout))
	}
	if params.To != nil {
		query += " AND workout_date <= ?"
		args = append(args, params.To.UTC().Format(timeLayout))
	}
	query += " ORDER BY workout_date DESC"
	if params.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, params.Limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var workouts []workout.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return workouts, nil
}

func scanWorkout(rows *sql.Rows) (workout.Workout, error) {
	var w workout.Workout
	var source, start, end, muscleGroups, workoutData, lastSynced, createdAt, updatedAt string
	var rawPayload sql.NullString
	if err := rows.Scan(
		&w.ID, &w.UserID, &source, &w.ExternalID, &start, &end, &w.Title,
		&w.DurationMinutes, &w.TotalSets, &w.TotalVolumeKg, &w.BodyweightReps, &w.ExerciseCount, &muscleGroups,
		&w.CaloriesBurned, &w.DistanceMeters, &w.AvgHeartRate, &workoutData, &rawPayload,
		&lastSynced, &createdAt, &updatedAt,
	); err != nil {
		return w, fmt.Errorf("rows scan: %w", err)
	}

	w.Source = workout.Source(source)
	var err error
	for _, tf := range []struct {
		dst *time.Time
		src string
	}{
		{&w.StartTime, start}, {&w.EndTime, end},
		{&w.LastSynced, lastSynced}, {&w.CreatedAt, createdAt}, {&w.UpdatedAt, updatedAt},
	} {
		if *tf.dst, err = time.Parse(timeLayout, tf.src); err != nil {
			return w, fmt.Errorf("parse time %q of %s: %w", tf.src, w.ID, err)
		}
	}

	if err := json.Unmarshal([]byte(muscleGroups), &w.MuscleGroups); err != nil {
		return w, fmt.Errorf("unmarshal muscle groups of %s: %w", w.ID, err)
	}
	if err := json.Unmarshal([]byte(workoutData), &w.Exercises); err != nil {
		return w, fmt.Errorf("unmarshal workout data of %s: %w", w.ID, err)
	}
	if rawPayload.Valid {
		w.RawPayload = json.RawMessage(rawPayload.String)
	}
	return w, nil
}

func (s *Store) UpsertDailyMetrics(ctx context.Context, days []workout.DailyMetric) (*store.UpsertResult, error) {
	prepared := store.PrepareDailyMetrics(days)
	if len(prepared) == 0 {
		return store.NewUpsertResult(0, "daily metrics"), nil
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		now := s.now().UTC().Format(timeLayout)
		for _, d := range prepared {
			existing := map[string]workout.MetricValue{}
			var existingRaw sql.NullString
			err := tx.QueryRowContext(ctx,
				`SELECT additional_metrics FROM daily_metrics WHERE user_id = ? AND metric_date = ?`,
				d.UserID, d.MetricDate.Format(time.DateOnly),
			).Scan(&existingRaw)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("read daily metrics: %w", err)
			}
			if existingRaw.Valid {
				if err := json.Unmarshal([]byte(existingRaw.String), &existing); err != nil {
					return fmt.Errorf("unmarshal additional metrics: %w", err)
				}
			}
			for k, v := range d.AdditionalMetrics {
				existing[k] = v
			}
			additional, err := json.Marshal(existing)
			if err != nil {
				return fmt.Errorf("marshal additional metrics: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO daily_metrics (
					user_id, metric_date, steps, weight_lbs, active_calories, resting_heart_rate,
					distance_miles, exercise_minutes, stand_minutes, additional_metrics, updated_at
				)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (user_id, metric_date) DO UPDATE SET
					steps = COALESCE(excluded.steps, steps),
					weight_lbs = COALESCE(excluded.weight_lbs, weight_lbs),
					active_calories = COALESCE(excluded.active_calories, active_calories),
					resting_heart_rate = COALESCE(excluded.resting_heart_rate, resting_heart_rate),
					distance_miles = COALESCE(excluded.distance_miles, distance_miles),
					exercise_minutes = COALESCE(excluded.exercise_minutes, exercise_minutes),
					stand_minutes = COALESCE(excluded.stand_minutes, stand_minutes),
					additional_metrics = excluded.additional_metrics,
					updated_at = excluded.updated_at`,
				d.UserID, d.MetricDate.Format(time.DateOnly), d.Steps, d.WeightLbs, d.ActiveCalories,
				d.RestingHeartRate, d.DistanceMiles, d.ExerciseMinutes, d.StandMinutes, string(additional), now,
			); err != nil {
				return fmt.Errorf("upsert daily metrics %s: %w", d.MetricDate.Format(time.DateOnly), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store.NewUpsertResult(len(prepared), "daily metrics"), nil
}

// ListDailyMetrics returns the daily metrics of a user between from and to (inclusive dates), newest first.
// A zero to leaves the range open.
func (s *Store) ListDailyMetrics(ctx context.Context, userID string, from, to time.Time) ([]workout.DailyMetric, error) {
	query := `
		SELECT
			user_id, metric_date, steps, weight_lbs, active_calories, resting_heart_rate,
			distance_miles, exercise_minutes, stand_minutes, additional_metrics
		FROM daily_metrics
		WHERE user_id = ? AND metric_date >= ?`
	args := []any{userID, from.Format(time.DateOnly)}
	if !to.IsZero() {
		query += " AND metric_date <= ?"
		args = append(args, to.Format(time.DateOnly))
	}
	query += " ORDER BY metric_date DESC"

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var days []workout.DailyMetric
	for rows.Next() {
		var d workout.DailyMetric
		var date, additional string
		if err := rows.Scan(
			&d.UserID, &date, &d.Steps, &d.WeightLbs, &d.ActiveCalories, &d.RestingHeartRate,
			&d.DistanceMiles, &d.ExerciseMinutes, &d.StandMinutes, &additional,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if d.MetricDate, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("parse metric date %q: %w", date, err)
		}
		if err := json.Unmarshal([]byte(additional), &d.AdditionalMetrics); err != nil {
			return nil, fmt.Errorf("unmarshal additional metrics of %s: %w", date, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return days, nil
}

func (s *Store) UpsertRawMetrics(ctx context.Context, metrics []workout.RawMetric) (*store.UpsertResult, error) {
	prepared := store.PrepareRawMetrics(metrics)
	if len(prepared) == 0 {
		return store.NewUpsertResult(0, "raw metrics"), nil
	}

	for _, chunk := range store.Chunks(len(prepared), store.RawMetricsChunkSize) {
		err := s.inTx(ctx, func(tx *sql.Tx) error {
			stmt, err := tx.PrepareContext(ctx, `
				INSERT INTO raw_metrics (user_id, metric_date, metric_type, value, unit, source, source_metadata)
				VALUES (?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (user_id, metric_type, metric_date) DO UPDATE SET
					value = excluded.value,
					unit = excluded.unit,
					source = excluded.source,
					source_metadata = excluded.source_metadata`)
			if err != nil {
				return fmt.Errorf("prepare raw metrics insert: %w", err)
			}
			defer stmt.Close()

			for _, m := range prepared[chunk[0]:chunk[1]] {
				metadata, err := json.Marshal(m.Metadata)
				if err != nil {
					return fmt.Errorf("marshal raw metric metadata: %w", err)
				}
				if _, err := stmt.ExecContext(ctx,
					m.UserID, m.MetricDate.UTC().Format(timeLayout), m.MetricType, m.Value, m.Unit, m.Source, string(metadata),
				); err != nil {
					return fmt.Errorf("insert raw metric: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("chunk [%d:%d]: %w", chunk[0], chunk[1], err)
		}
	}

	return store.NewUpsertResult(len(prepared), "raw metrics"), nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit()
		}
	}()

	return fn(tx)
}

// IsSQLiteURI reports whether a --store value points at a sqlite file.
func IsSQLiteURI(v string) bool {
	return strings.HasPrefix(v, "sqlite:") || strings.HasSuffix(v, ".db") || v == ":memory:"
}
