package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

// Session is one workout's performance on a matched exercise.
type Session struct {
	Date         time.Time `json:"date"`
	WorkoutID    string    `json:"workoutId"`
	ExerciseName string    `json:"exerciseName"`
	MaxWeight    float64   `json:"maxWeight"`
	TotalSets    int       `json:"totalSets"`
	TotalVolume  float64   `json:"totalVolume"`
}

type PersonalRecords struct {
	MaxWeight     float64   `json:"maxWeight"`
	MaxWeightDate time.Time `json:"maxWeightDate"`
	MaxVolume     float64   `json:"maxVolume"`
}

type Progression struct {
	Query            string           `json:"query"`
	ExerciseName     string           `json:"exerciseName"`
	PeriodDays       int              `json:"periodDays"`
	Unit             Unit             `json:"unit"`
	SessionsFound    int              `json:"sessionsFound"`
	NotFound         bool             `json:"notFound,omitempty"`
	Message          string           `json:"message,omitempty"`
	DateRange        *DateRange       `json:"dateRange,omitempty"`
	PersonalRecords  *PersonalRecords `json:"personalRecords,omitempty"`
	Trend            Trend            `json:"trend,omitempty"`
	FirstSessionMax  float64          `json:"firstSessionMax"`
	LatestSessionMax float64          `json:"latestSessionMax"`
	TotalImprovement float64          `json:"totalImprovement"`
	Sessions         []Session        `json:"sessions"`
}

// Progression tracks max weight, sets and volume of an exercise across sessions.
// Exercise titles match case-insensitively on a substring, so "bench" matches "Bench Press (Barbell)".
func (e *Engine) Progression(ctx context.Context, userID, exerciseName string, windowDays int) (_ *Progression, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.progression")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if windowDays <= 0 {
		windowDays = e.policies.Progression.DefaultWindowDays
	}
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("exercise", exerciseName))
	span.SetAttributes(attribute.Int("window_days", windowDays))

	key := cacheKey(userID, "progression", strings.ToLower(exerciseName), windowDays, e.policies.Unit)
	return cached(e, key, func() (*Progression, error) {
		workouts, err := e.listWindow(ctx, userID, windowDays)
		if err != nil {
			return nil, err
		}
		sessions := ExtractSessions(workouts, exerciseName, e.policies.Unit)
		return ComputeProgression(exerciseName, windowDays, sessions, e.policies.Unit, e.policies.Progression), nil
	})
}

// ExtractSessions returns one session per workout containing a matching exercise with at least
// one weighted set, oldest first. Matches within the same workout are merged.
func ExtractSessions(workouts []workout.Workout, exerciseName string, unit Unit) []Session {
	query := strings.ToLower(strings.TrimSpace(exerciseName))
	if query == "" {
		return nil
	}

	var sessions []Session
	for _, w := range workouts {
		var (
			matched    bool
			name       string
			maxKg      float64
			totalSets  int
			totalVolKg float64
		)
		for _, ex := range w.Exercises {
			if !strings.Contains(strings.ToLower(ex.Title), query) {
				continue
			}

			weighted := false
			var exMaxKg, exVolKg float64
			for _, set := range ex.Sets {
				if set.WeightKg == nil {
					continue
				}
				reps := 0
				if set.Reps != nil {
					reps = *set.Reps
				}
				if !weighted || *set.WeightKg > exMaxKg {
					exMaxKg = *set.WeightKg
				}
				weighted = true
				exVolKg += *set.WeightKg * float64(reps)
			}
			// bodyweight only
			if !weighted {
				continue
			}

			if !matched || exMaxKg > maxKg {
				maxKg = exMaxKg
			}
			if !matched {
				name = ex.Title
			}
			matched = true
			totalSets += len(ex.Sets)
			totalVolKg += exVolKg
		}
		if !matched {
			continue
		}

		sessions = append(sessions, Session{
			Date:         w.StartTime,
			WorkoutID:    w.ExternalID,
			ExerciseName: name,
			MaxWeight:    round1(unit.FromKg(maxKg)),
			TotalSets:    totalSets,
			TotalVolume:  round1(unit.FromKg(totalVolKg)),
		})
	}
	return sessions
}

// ComputeProgression derives records and trend from sessions sorted oldest first.
func ComputeProgression(query string, windowDays int, sessions []Session, unit Unit, policy ProgressionPolicy) *Progression {
	p := &Progression{
		Query:         query,
		ExerciseName:  query,
		PeriodDays:    windowDays,
		Unit:          unit,
		SessionsFound: len(sessions),
		Sessions:      sessions,
	}
	if len(sessions) == 0 {
		p.NotFound = true
		p.Sessions = []Session{}
		p.Message = fmt.Sprintf(
			"No sessions found for '%s' in the last %d days. Try a different name or check spelling.",
			query, windowDays,
		)
		return p
	}

	first, last := sessions[0], sessions[len(sessions)-1]
	p.ExerciseName = first.ExerciseName
	p.DateRange = &DateRange{Start: first.Date, End: last.Date}

	// earliest session wins ties for the max weight date
	records := &PersonalRecords{
		MaxWeight:     first.MaxWeight,
		MaxWeightDate: first.Date,
		MaxVolume:     first.TotalVolume,
	}
	for _, s := range sessions[1:] {
		if s.MaxWeight > records.MaxWeight {
			records.MaxWeight = s.MaxWeight
			records.MaxWeightDate = s.Date
		}
		if s.TotalVolume > records.MaxVolume {
			records.MaxVolume = s.TotalVolume
		}
	}
	p.PersonalRecords = records

	improvement := last.MaxWeight - first.MaxWeight
	threshold := policy.TrendThreshold(unit)
	p.FirstSessionMax = first.MaxWeight
	p.LatestSessionMax = last.MaxWeight
	p.TotalImprovement = round1(improvement)
	switch {
	case improvement > threshold:
		p.Trend = TrendIncreasing
	case improvement < -threshold:
		p.Trend = TrendDecreasing
	default:
		p.Trend = TrendStable
	}
	return p
}
