package workout

import (
	"math"
	"sort"
	"time"
)

// MuscleGroupResolver maps an exercise onto its primary muscle group.
type MuscleGroupResolver interface {
	ResolveMuscleGroup(ex Exercise) (string, bool)
}

// ComputeMetrics derives the summary metrics of one raw workout.
// A workout without start or end instant is rejected with a ParseError.
func ComputeMetrics(raw RawWorkout, resolver MuscleGroupResolver) (Metrics, error) {
	if raw.StartTime == nil || raw.StartTime.IsZero() {
		return Metrics{}, NewParseError(raw.ExternalID, "missing start time", nil)
	}
	if raw.EndTime == nil || raw.EndTime.IsZero() {
		return Metrics{}, NewParseError(raw.ExternalID, "missing end time", nil)
	}

	m := Metrics{
		DurationMinutes: durationMinutes(*raw.StartTime, *raw.EndTime),
		ExerciseCount:   len(raw.Exercises),
		MuscleGroups:    []string{},
	}

	groups := make(map[string]struct{})
	var volume float64
	for _, ex := range raw.Exercises {
		m.TotalSets += len(ex.Sets)
		for _, set := range ex.Sets {
			switch {
			case set.WeightKg != nil:
				reps := 0
				if set.Reps != nil {
					reps = *set.Reps
				}
				volume += *set.WeightKg * float64(reps)
			case set.Reps != nil:
				m.BodyweightReps += *set.Reps
			}
		}

		if resolver == nil {
			continue
		}
		if group, ok := resolver.ResolveMuscleGroup(ex); ok {
			groups[group] = struct{}{}
		}
	}

	for g := range groups {
		m.MuscleGroups = append(m.MuscleGroups, g)
	}
	sort.Strings(m.MuscleGroups)
	m.TotalVolumeKg = round2(volume)

	return m, nil
}

// Build turns a raw record into a canonical workout of the given user and source.
func Build(userID string, source Source, raw RawWorkout, resolver MuscleGroupResolver) (Workout, error) {
	metrics, err := ComputeMetrics(raw, resolver)
	if err != nil {
		return Workout{}, err
	}

	title := raw.Title
	if title == "" {
		title = DefaultTitle
	}

	exercises := raw.Exercises
	if exercises == nil {
		exercises = []Exercise{}
	}

	return Workout{
		UserID:         userID,
		Source:         source,
		ExternalID:     raw.ExternalID,
		StartTime:      raw.StartTime.UTC(),
		EndTime:        raw.EndTime.UTC(),
		Title:          title,
		Metrics:        metrics,
		CaloriesBurned: raw.CaloriesBurned,
		DistanceMeters: raw.DistanceMeters,
		AvgHeartRate:   raw.AvgHeartRate,
		Exercises:      exercises,
		RawPayload:     raw.Payload,
	}, nil
}

// floor, not truncation: a negative span of 90s gives -2
func durationMinutes(start, end time.Time) int {
	return int(math.Floor(end.Sub(start).Seconds() / 60))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
