package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/telemetry/tracing"
	"github.com/2beens/fitsync/internal/workout"

	"go.opentelemetry.io/otel/attribute"
)

var ErrHealthMetricsUnavailable = errors.New("health metrics are not available")

const (
	defaultHealthWindowDays = 30
	healthTrendDays         = 7
)

// DefaultHealthMetrics are reported when the caller does not pick any.
var DefaultHealthMetrics = []string{"steps", "weight_lbs", "active_calories", "exercise_minutes"}

// HealthDay is one day of the recent trend, only metrics with a value are present.
type HealthDay struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
}

type HealthMetricsReport struct {
	DaysRequested int                `json:"daysRequested"`
	DaysAnalyzed  int                `json:"daysAnalyzed"`
	DataCoverage  float64            `json:"dataCoverage"`
	Metrics       []string           `json:"metrics"`
	Averages      map[string]float64 `json:"averages"`
	RecentTrend   []HealthDay        `json:"recentTrend"`
	Message       string             `json:"message,omitempty"`
}

// HealthMetrics summarizes the daily health metrics of the last windowDays days: coverage,
// per metric averages and the most recent week, oldest day first.
// Metric names are the daily columns (steps, weight_lbs, ...) or keys of the additional metrics.
func (e *Engine) HealthMetrics(ctx context.Context, userID string, windowDays int, metrics []string) (_ *HealthMetricsReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.health-metrics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if e.dailyMetrics == nil {
		return nil, ErrHealthMetricsUnavailable
	}
	if windowDays <= 0 {
		windowDays = defaultHealthWindowDays
	}
	metrics = normalizeMetricNames(metrics)
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.Int("window_days", windowDays))
	span.SetAttributes(attribute.StringSlice("metrics", metrics))

	key := cacheKey(userID, "health", windowDays, strings.Join(metrics, ","))
	return cached(e, key, func() (*HealthMetricsReport, error) {
		days, err := e.dailyMetrics.ListDailyMetrics(ctx, userID, e.windowStart(windowDays), time.Time{})
		if err != nil {
			return nil, fmt.Errorf("list daily metrics: %w", err)
		}
		return ComputeHealthMetrics(days, windowDays, metrics), nil
	})
}

func normalizeMetricNames(metrics []string) []string {
	var out []string
	seen := make(map[string]bool, len(metrics))
	for _, m := range metrics {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultHealthMetrics...)
	}
	return out
}

// ComputeHealthMetrics builds the report from days sorted newest first.
func ComputeHealthMetrics(days []workout.DailyMetric, windowDays int, metrics []string) *HealthMetricsReport {
	report := &HealthMetricsReport{
		DaysRequested: windowDays,
		DaysAnalyzed:  len(days),
		Metrics:       metrics,
		Averages:      map[string]float64{},
		RecentTrend:   []HealthDay{},
	}
	if len(days) == 0 {
		report.Message = fmt.Sprintf("No health metrics data found for the last %d days.", windowDays)
		return report
	}
	if windowDays > 0 {
		report.DataCoverage = round1(float64(len(days)) / float64(windowDays) * 100)
	}

	for _, m := range metrics {
		var sum float64
		var n int
		for _, d := range days {
			if v, ok := dailyValue(d, m); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			report.Averages[m] = round1(sum / float64(n))
		}
	}

	recent := days
	if len(recent) > healthTrendDays {
		recent = recent[:healthTrendDays]
	}
	for i := len(recent) - 1; i >= 0; i-- {
		day := HealthDay{
			Date:   recent[i].MetricDate.Format(time.DateOnly),
			Values: map[string]float64{},
		}
		for _, m := range metrics {
			if v, ok := dailyValue(recent[i], m); ok {
				day.Values[m] = v
			}
		}
		report.RecentTrend = append(report.RecentTrend, day)
	}
	return report
}

// dailyValue reads one named metric of a day. Additional metrics use the value, or the average.
func dailyValue(d workout.DailyMetric, name string) (float64, bool) {
	var v *float64
	switch name {
	case "steps":
		v = d.Steps
	case "weight_lbs":
		v = d.WeightLbs
	case "active_calories":
		v = d.ActiveCalories
	case "resting_heart_rate":
		v = d.RestingHeartRate
	case "distance_miles":
		v = d.DistanceMiles
	case "exercise_minutes":
		v = d.ExerciseMinutes
	case "stand_minutes":
		v = d.StandMinutes
	default:
		extra, ok := d.AdditionalMetrics[name]
		if !ok {
			return 0, false
		}
		v = extra.Value
		if v == nil {
			v = extra.Avg
		}
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}
