package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

type FrequencyReport struct {
	PeriodDays          int            `json:"periodDays"`
	TotalWorkouts       int            `json:"totalWorkouts"`
	WorkoutsPerWeek     float64        `json:"workoutsPerWeek"`
	AvgDaysBetween      float64        `json:"avgDaysBetween"`
	LongestGapDays      int            `json:"longestGapDays"`
	Unit                Unit           `json:"unit"`
	TotalVolume         float64        `json:"totalVolume"`
	AvgVolumePerWorkout float64        `json:"avgVolumePerWorkout"`
	VolumeTrend         Trend          `json:"volumeTrend"`
	ConsistencyScore    float64        `json:"consistencyScore"`
	WorkoutDistribution map[string]int `json:"workoutDistribution,omitempty"`
	DateRange           *DateRange     `json:"dateRange,omitempty"`
	Message             string         `json:"message,omitempty"`
}

// Frequency reports training frequency, volume trend and consistency over the last windowDays.
// A non-positive window uses the policy default.
func (e *Engine) Frequency(ctx context.Context, userID string, windowDays int) (_ *FrequencyReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if windowDays <= 0 {
		windowDays = e.policies.Frequency.DefaultWindowDays
	}
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Int("window_days", windowDays))

	return cached(e, cacheKey(userID, "frequency", windowDays, e.policies.Unit), func() (*FrequencyReport, error) {
		workouts, err := e.listWindow(ctx, userID, windowDays)
		if err != nil {
			return nil, err
		}
		return ComputeFrequency(workouts, windowDays, e.policies.Unit, e.policies.Frequency), nil
	})
}

// ComputeFrequency builds the report from workouts sorted oldest first.
func ComputeFrequency(workouts []workout.Workout, windowDays int, unit Unit, policy FrequencyPolicy) *FrequencyReport {
	report := &FrequencyReport{
		PeriodDays:    windowDays,
		TotalWorkouts: len(workouts),
		Unit:          unit,
		VolumeTrend:   TrendStable,
	}
	if len(workouts) == 0 {
		report.Message = fmt.Sprintf("No workouts found in the last %d days", windowDays)
		return report
	}

	workoutsPerWeek := float64(len(workouts)) / (float64(windowDays) / 7)

	var gaps []int
	for i := 1; i < len(workouts); i++ {
		gap := dateOf(workouts[i].StartTime).Sub(dateOf(workouts[i-1].StartTime)).Hours() / 24
		gaps = append(gaps, int(gap))
	}
	avgGap, maxGap := 0.0, 0
	for _, g := range gaps {
		avgGap += float64(g)
		if g > maxGap {
			maxGap = g
		}
	}
	if len(gaps) > 0 {
		avgGap /= float64(len(gaps))
	}

	volumes := make([]float64, len(workouts))
	distribution := make(map[string]int)
	var totalVolume float64
	for i, w := range workouts {
		volumes[i] = unit.FromKg(w.TotalVolumeKg)
		totalVolume += volumes[i]

		title := w.Title
		if title == "" {
			title = workout.DefaultTitle
		}
		distribution[title]++
	}

	report.WorkoutsPerWeek = round1(workoutsPerWeek)
	report.AvgDaysBetween = round1(avgGap)
	report.LongestGapDays = maxGap
	report.TotalVolume = round1(totalVolume)
	report.AvgVolumePerWorkout = round1(totalVolume / float64(len(workouts)))
	report.VolumeTrend = VolumeTrend(volumes, policy)
	report.ConsistencyScore = round1(ConsistencyScore(workoutsPerWeek, maxGap, policy))
	report.WorkoutDistribution = distribution
	report.DateRange = &DateRange{
		Start: workouts[0].StartTime,
		End:   workouts[len(workouts)-1].StartTime,
	}
	return report
}

// VolumeTrend compares the mean of the later half of chronologically ordered volumes
// against the earlier half.
func VolumeTrend(volumes []float64, policy FrequencyPolicy) Trend {
	if len(volumes) < policy.TrendMinPoints || len(volumes) < 2 {
		return TrendStable
	}

	mid := len(volumes) / 2
	firstHalf := mean(volumes[:mid])
	secondHalf := mean(volumes[mid:])
	switch {
	case secondHalf > firstHalf*policy.TrendUpFactor:
		return TrendIncreasing
	case secondHalf < firstHalf*policy.TrendDownFactor:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// ConsistencyScore rewards frequency up to the weekly target and penalizes
// each day of the longest gap above the allowance. Result is within [0, 100].
func ConsistencyScore(workoutsPerWeek float64, longestGapDays int, policy FrequencyPolicy) float64 {
	frequencyScore := 100.0
	if policy.TargetPerWeek > 0 {
		frequencyScore = math.Min(100, workoutsPerWeek/policy.TargetPerWeek*policy.FrequencyWeight)
	}
	gapPenalty := math.Max(0, float64(longestGapDays-policy.GapAllowanceDays)*policy.GapPenaltyPerDay)
	return math.Max(0, math.Min(100, frequencyScore-gapPenalty))
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
