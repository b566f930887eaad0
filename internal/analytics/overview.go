package analytics

import (
	"context"
	"time"

	"github.com/2beens/fitsync/internal/reconcile"
	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

type Overview struct {
	Frequency *FrequencyReport `json:"frequency"`
	Balance   *BalanceReport   `json:"balance"`
}

// Overview computes the frequency and balance reports concurrently.
func (e *Engine) Overview(ctx context.Context, userID string, windowDays int) (_ *Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	overview := &Overview{}
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		report, err := e.Frequency(gCtx, userID, windowDays)
		if err != nil {
			return err
		}
		overview.Frequency = report
		return nil
	})
	g.Go(func() error {
		report, err := e.Balance(gCtx, userID)
		if err != nil {
			return err
		}
		overview.Balance = report
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

type WorkoutSummary struct {
	ExternalID      string         `json:"workoutId"`
	Source          workout.Source `json:"source"`
	Title           string         `json:"title"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	TotalVolume     float64        `json:"totalVolume"`
	Unit            Unit           `json:"unit"`
	ExerciseCount   int            `json:"exerciseCount"`
	TotalSets       int            `json:"totalSets"`
	MuscleGroups    []string       `json:"muscleGroups,omitempty"`
}

// RecentWorkouts lists the newest reconciled workouts of a user, newest first.
func (e *Engine) RecentWorkouts(ctx context.Context, userID string, limit int) (_ []WorkoutSummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.recent-workouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Int("limit", limit))

	if limit <= 0 {
		limit = 10
	}

	// over-fetch so hidden duplicates don't shrink the page
	workouts, err := e.lister.ListWorkouts(ctx, workout.ListParams{
		UserID: userID,
		Limit:  limit * 2,
	})
	if err != nil {
		return nil, err
	}

	// the store lists newest first, which Reconcile keeps
	reconciled := reconcile.Reconcile(workouts, e.authoritative)
	if len(reconciled) > limit {
		reconciled = reconciled[:limit]
	}

	summaries := make([]WorkoutSummary, 0, len(reconciled))
	for _, w := range reconciled {
		summaries = append(summaries, WorkoutSummary{
			ExternalID:      w.ExternalID,
			Source:          w.Source,
			Title:           w.Title,
			Date:            w.StartTime.UTC().Format(time.RFC3339),
			DurationMinutes: w.DurationMinutes,
			TotalVolume:     round1(e.policies.Unit.FromKg(w.TotalVolumeKg)),
			Unit:            e.policies.Unit,
			ExerciseCount:   w.ExerciseCount,
			TotalSets:       w.TotalSets,
			MuscleGroups:    w.MuscleGroups,
		})
	}
	return summaries, nil
}
