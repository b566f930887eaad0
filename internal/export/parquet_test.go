package export_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/2beens/fitsync/internal/export"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/source"
)

var start = time.Date(2025, 5, 4, 17, 30, 0, 0, time.UTC)

func testWorkouts() []workout.Workout {
	calories := 412.5
	return []workout.Workout{
		{
			ID:         "id-1",
			UserID:     "u1",
			Source:     workout.SourceHevy,
			ExternalID: "h1",
			StartTime:  start,
			EndTime:    start.Add(70 * time.Minute),
			Title:      "Push",
			Metrics: workout.Metrics{
				DurationMinutes: 70,
				TotalSets:       18,
				TotalVolumeKg:   8450.5,
				ExerciseCount:   5,
				MuscleGroups:    []string{"chest", "shoulders", "triceps"},
			},
		},
		{
			ID:             "id-2",
			UserID:         "u1",
			Source:         workout.SourceAppleHealth,
			ExternalID:     "ah1",
			StartTime:      start.AddDate(0, 0, -1),
			EndTime:        start.AddDate(0, 0, -1).Add(30 * time.Minute),
			Title:          "Outdoor Run",
			Metrics:        workout.Metrics{DurationMinutes: 30},
			CaloriesBurned: &calories,
		},
	}
}

func readRows(t *testing.T, fr source.ParquetFile) []export.WorkoutRow {
	t.Helper()
	pr, err := reader.NewParquetReader(fr, new(export.WorkoutRow), 2)
	require.NoError(t, err)
	defer pr.ReadStop()

	rows := make([]export.WorkoutRow, int(pr.GetNumRows()))
	require.NoError(t, pr.Read(&rows))
	return rows
}

func TestWriteWorkouts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteWorkouts(&buf, testWorkouts()))
	require.NotZero(t, buf.Len())

	rows := readRows(t, parquetbuffer.NewBufferFileFromBytes(buf.Bytes()))
	require.Len(t, rows, 2)

	assert.Equal(t, "h1", rows[0].ExternalID)
	assert.Equal(t, "hevy", rows[0].Source)
	assert.Equal(t, start.UnixMilli(), rows[0].StartTimeMillis)
	assert.Equal(t, int32(70), rows[0].DurationMinutes)
	assert.Equal(t, 8450.5, rows[0].TotalVolumeKg)
	assert.Equal(t, "chest,shoulders,triceps", rows[0].MuscleGroups)
	assert.Nil(t, rows[0].CaloriesBurned)

	require.NotNil(t, rows[1].CaloriesBurned)
	assert.Equal(t, 412.5, *rows[1].CaloriesBurned)
	assert.Empty(t, rows[1].MuscleGroups)
}

type fakeLister struct {
	workouts []workout.Workout
	err      error
	params   workout.ListParams
}

func (f *fakeLister) ListWorkouts(_ context.Context, params workout.ListParams) ([]workout.Workout, error) {
	f.params = params
	return f.workouts, f.err
}

func TestExporter_ExportFile(t *testing.T) {
	workouts := testWorkouts()
	// a timezone-shifted wearable copy of the hevy session
	workouts = append(workouts, workout.Workout{
		UserID:     "u1",
		Source:     workout.SourceAppleHealth,
		ExternalID: "ah-dup",
		StartTime:  start.Add(-2 * time.Hour),
		EndTime:    start.Add(-2 * time.Hour).Add(71 * time.Minute),
		Metrics:    workout.Metrics{DurationMinutes: 71},
	})
	lister := &fakeLister{workouts: workouts}
	exporter := export.NewExporter(lister, "")

	path := filepath.Join(t.TempDir(), "workouts.parquet")
	n, err := exporter.ExportFile(context.Background(), workout.ListParams{UserID: "u1"}, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "u1", lister.params.UserID)

	fr, err := local.NewLocalFileReader(path)
	require.NoError(t, err)
	defer fr.Close()

	rows := readRows(t, fr)
	require.Len(t, rows, 2)
	assert.Equal(t, "h1", rows[0].ExternalID)
	assert.Equal(t, "ah1", rows[1].ExternalID)
}

func TestExporter_ExportFile_ListError(t *testing.T) {
	exporter := export.NewExporter(&fakeLister{err: errors.New("db down")}, workout.SourceHevy)

	path := filepath.Join(t.TempDir(), "workouts.parquet")
	n, err := exporter.ExportFile(context.Background(), workout.ListParams{UserID: "u1"}, path)
	require.Error(t, err)
	assert.Zero(t, n)
	assert.NoFileExists(t, path)
}
