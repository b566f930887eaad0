package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/2beens/fitsync/internal/workout"
)

// RawMetricsChunkSize bounds the rows written per statement batch.
const RawMetricsChunkSize = 4000

type UpsertResult struct {
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// NewUpsertResult builds the summary returned by every upsert, what names the record kind.
func NewUpsertResult(count int, what string) *UpsertResult {
	if count == 0 {
		return &UpsertResult{Message: fmt.Sprintf("No %s to upsert", what)}
	}
	return &UpsertResult{
		Count:   count,
		Message: fmt.Sprintf("Upserted %d %s", count, what),
	}
}

func NewWorkoutsUpsertResult(count int) *UpsertResult {
	return NewUpsertResult(count, "workouts")
}

// PrepareWorkouts orders records by key and keeps the last record for a repeated key.
// Writers touching rows in the same order can't deadlock each other.
func PrepareWorkouts(workouts []workout.Workout) []workout.Workout {
	byKey := make(map[string]workout.Workout, len(workouts))
	for _, w := range workouts {
		byKey[w.Key()] = w
	}

	out := make([]workout.Workout, 0, len(byKey))
	for _, w := range byKey {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// PrepareDailyMetrics keeps one row per user and calendar date (last wins), ordered by key.
func PrepareDailyMetrics(days []workout.DailyMetric) []workout.DailyMetric {
	byKey := make(map[string]workout.DailyMetric, len(days))
	for _, d := range days {
		byKey[dailyKey(d)] = d
	}

	out := make([]workout.DailyMetric, 0, len(byKey))
	for _, d := range byKey {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return dailyKey(out[i]) < dailyKey(out[j])
	})
	return out
}

func dailyKey(d workout.DailyMetric) string {
	return d.UserID + "|" + d.MetricDate.Format(time.DateOnly)
}

// PrepareRawMetrics keeps one sample per (user, type, instant) key, the last one wins, ordered by key.
func PrepareRawMetrics(metrics []workout.RawMetric) []workout.RawMetric {
	byKey := make(map[string]workout.RawMetric, len(metrics))
	for _, m := range metrics {
		byKey[m.Key()] = m
	}

	out := make([]workout.RawMetric, 0, len(byKey))
	for _, m := range byKey {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Chunks splits n items into [start, end) ranges of at most size items.
func Chunks(n, size int) [][2]int {
	if size <= 0 {
		size = n
	}
	var chunks [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, [2]int{start, end})
	}
	return chunks
}
