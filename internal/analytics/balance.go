package analytics

import (
	"context"
	"fmt"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

type ImbalanceType string

const (
	Undertrained ImbalanceType = "undertrained"
	Overtrained  ImbalanceType = "overtrained"
)

type Imbalance struct {
	MuscleGroup       string        `json:"muscleGroup"`
	Type              ImbalanceType `json:"type"`
	CurrentPercentage float64       `json:"currentPercentage"`
	IdealRange        string        `json:"idealRange"`
	Deficit           float64       `json:"deficit,omitempty"`
	Excess            float64       `json:"excess,omitempty"`
}

type BalanceReport struct {
	PeriodDays             int                `json:"periodDays"`
	TotalExercisesAnalyzed int                `json:"totalExercisesAnalyzed"`
	Distribution           map[string]float64 `json:"distribution"`
	BalanceScore           float64            `json:"balanceScore"`
	ImbalancesDetected     int                `json:"imbalancesDetected"`
	Imbalances             []Imbalance        `json:"imbalances"`
	PushPullImbalance      bool               `json:"pushPullImbalance"`
	Recommendations        []string           `json:"recommendations"`
	Summary                string             `json:"summary,omitempty"`
	NoData                 bool               `json:"noData,omitempty"`
	Message                string             `json:"message,omitempty"`
}

// MuscleGroupCounts tallies exercise occurrences per resolved group. Every exercise counts
// toward total, including the ones whose group can't be resolved.
type MuscleGroupCounts struct {
	Groups map[string]int
	Total  int
}

// Balance assesses the muscle group distribution of exercises in the balance window.
func (e *Engine) Balance(ctx context.Context, userID string) (_ *BalanceReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.balance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))

	policy := e.policies.Balance
	return cached(e, cacheKey(userID, "balance", policy.WindowDays), func() (*BalanceReport, error) {
		workouts, err := e.listWindow(ctx, userID, policy.WindowDays)
		if err != nil {
			return nil, err
		}
		counts := CountMuscleGroups(workouts, e.resolver, policy)
		report := AssessBalance(counts, policy)
		report.PeriodDays = policy.WindowDays
		return report, nil
	})
}

func CountMuscleGroups(workouts []workout.Workout, resolver workout.MuscleGroupResolver, policy BalancePolicy) MuscleGroupCounts {
	counts := MuscleGroupCounts{Groups: make(map[string]int)}
	for _, w := range workouts {
		for _, ex := range w.Exercises {
			counts.Total++

			group := ex.MuscleGroup
			if resolver != nil {
				if resolved, ok := resolver.ResolveMuscleGroup(ex); ok {
					group = resolved
				}
			}
			if group == "" {
				continue
			}
			counts.Groups[policy.canonicalGroup(group)]++
		}
	}
	return counts
}

// AssessBalance compares the share of each group against its ideal range.
func AssessBalance(counts MuscleGroupCounts, policy BalancePolicy) *BalanceReport {
	report := &BalanceReport{
		TotalExercisesAnalyzed: counts.Total,
		Distribution:           make(map[string]float64),
		Imbalances:             []Imbalance{},
		Recommendations:        []string{},
	}
	if counts.Total == 0 {
		report.NoData = true
		report.Message = "No exercise data available for balance analysis"
		return report
	}

	for group, n := range counts.Groups {
		report.Distribution[group] = round1(float64(n) / float64(counts.Total) * 100)
	}

	score := 100.0
	for _, r := range policy.IdealRanges {
		current := report.Distribution[r.Group]
		idealRange := fmt.Sprintf("%g-%g%%", r.Min, r.Max)
		switch {
		case current < r.Min:
			deficit := round1(r.Min - current)
			report.Imbalances = append(report.Imbalances, Imbalance{
				MuscleGroup:       r.Group,
				Type:              Undertrained,
				CurrentPercentage: current,
				IdealRange:        idealRange,
				Deficit:           deficit,
			})
			report.Recommendations = append(report.Recommendations, fmt.Sprintf(
				"Increase %s training - currently %g%%, should be %g-%g%%", r.Group, current, r.Min, r.Max,
			))
			score -= deficit * policy.DeficitWeight
		case current > r.Max:
			excess := round1(current - r.Max)
			report.Imbalances = append(report.Imbalances, Imbalance{
				MuscleGroup:       r.Group,
				Type:              Overtrained,
				CurrentPercentage: current,
				IdealRange:        idealRange,
				Excess:            excess,
			})
			report.Recommendations = append(report.Recommendations, fmt.Sprintf(
				"Reduce %s training frequency - currently %g%%, should be %g-%g%%", r.Group, current, r.Min, r.Max,
			))
			score -= excess * policy.ExcessWeight
		}
	}

	push := report.Distribution["chest"] + report.Distribution["shoulders"]
	pull := report.Distribution["back"]
	if push > pull*policy.PushPullRatio {
		report.PushPullImbalance = true
		report.Recommendations = append(report.Recommendations,
			"Push/Pull imbalance detected - increase back/pulling exercises")
	}

	if score < 0 {
		score = 0
	}
	report.BalanceScore = round1(score)
	report.ImbalancesDetected = len(report.Imbalances)
	report.Summary = fmt.Sprintf(
		"Balance score: %.1f/100 with %d imbalances detected", report.BalanceScore, report.ImbalancesDetected,
	)
	return report
}
