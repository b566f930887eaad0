package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/2beens/fitsync/internal/reconcile"
	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	log "github.com/sirupsen/logrus"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
	"go.opentelemetry.io/otel/attribute"
)

// writerParallelism is the number of goroutines the parquet writer uses to encode pages.
const writerParallelism = 4

// WorkoutRow is one exported workout.
type WorkoutRow struct {
	ID              string   `parquet:"name=id, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserID          string   `parquet:"name=user_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Source          string   `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ExternalID      string   `parquet:"name=external_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	StartTimeMillis int64    `parquet:"name=start_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	EndTimeMillis   int64    `parquet:"name=end_time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Title           string   `parquet:"name=title, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	DurationMinutes int32    `parquet:"name=duration_minutes, type=INT32"`
	TotalSets       int32    `parquet:"name=total_sets, type=INT32"`
	TotalVolumeKg   float64  `parquet:"name=total_volume_kg, type=DOUBLE"`
	BodyweightReps  int32    `parquet:"name=bodyweight_reps, type=INT32"`
	ExerciseCount   int32    `parquet:"name=exercise_count, type=INT32"`
	MuscleGroups    string   `parquet:"name=muscle_groups, type=BYTE_ARRAY, convertedtype=UTF8"`
	CaloriesBurned  *float64 `parquet:"name=calories_burned, type=DOUBLE, repetitiontype=OPTIONAL"`
	DistanceMeters  *float64 `parquet:"name=distance_meters, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgHeartRate    *float64 `parquet:"name=avg_heart_rate, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func toRow(w workout.Workout) WorkoutRow {
	return WorkoutRow{
		ID:              w.ID,
		UserID:          w.UserID,
		Source:          string(w.Source),
		ExternalID:      w.ExternalID,
		StartTimeMillis: w.StartTime.UTC().UnixMilli(),
		EndTimeMillis:   w.EndTime.UTC().UnixMilli(),
		Title:           w.Title,
		DurationMinutes: int32(w.DurationMinutes),
		TotalSets:       int32(w.TotalSets),
		TotalVolumeKg:   w.TotalVolumeKg,
		BodyweightReps:  int32(w.BodyweightReps),
		ExerciseCount:   int32(w.ExerciseCount),
		MuscleGroups:    strings.Join(w.MuscleGroups, ","),
		CaloriesBurned:  w.CaloriesBurned,
		DistanceMeters:  w.DistanceMeters,
		AvgHeartRate:    w.AvgHeartRate,
	}
}

// WriteWorkouts encodes workouts as a SNAPPY compressed parquet file into out.
func WriteWorkouts(out io.Writer, workouts []workout.Workout) error {
	fw := parquetbuffer.NewBufferFile()
	if err := writeRows(fw, workouts); err != nil {
		return err
	}
	if _, err := out.Write(fw.Bytes()); err != nil {
		return fmt.Errorf("write parquet bytes: %w", err)
	}
	return nil
}

// WriteWorkoutsFile encodes workouts into a parquet file at path, replacing it if present.
func WriteWorkoutsFile(path string, workouts []workout.Workout) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file: %w", err)
	}
	return writeRows(fw, workouts)
}

func writeRows(fw source.ParquetFile, workouts []workout.Workout) (err error) {
	defer func() {
		if closeErr := fw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close parquet file: %w", closeErr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(WorkoutRow), writerParallelism)
	if err != nil {
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, w := range workouts {
		if err := pw.Write(toRow(w)); err != nil {
			_ = pw.WriteStop()
			return fmt.Errorf("write workout %s: %w", w.ExternalID, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}

type workoutsLister interface {
	ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error)
}

type Exporter struct {
	lister        workoutsLister
	authoritative workout.Source
}

func NewExporter(lister workoutsLister, authoritative workout.Source) *Exporter {
	if authoritative == "" {
		authoritative = workout.SourceHevy
	}
	return &Exporter{
		lister:        lister,
		authoritative: authoritative,
	}
}

// ExportFile writes the reconciled workouts matching params to a parquet file and returns how many were written.
func (e *Exporter) ExportFile(ctx context.Context, params workout.ListParams, path string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "export.parquet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", params.UserID))
	span.SetAttributes(attribute.String("path", path))

	workouts, err := e.lister.ListWorkouts(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("list workouts: %w", err)
	}
	workouts = reconcile.Reconcile(workouts, e.authoritative)

	if err := WriteWorkoutsFile(path, workouts); err != nil {
		return 0, err
	}
	log.Debugf("exported %d workouts of %s to %s", len(workouts), params.UserID, path)
	return len(workouts), nil
}
