package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/2beens/fitsync/internal/cache"
	"github.com/2beens/fitsync/internal/reconcile"
	"github.com/2beens/fitsync/internal/workout"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=engine_mocks_test.go -package=analytics_test

type workoutsLister interface {
	ListWorkouts(ctx context.Context, params workout.ListParams) ([]workout.Workout, error)
}

type dailyMetricsLister interface {
	ListDailyMetrics(ctx context.Context, userID string, from, to time.Time) ([]workout.DailyMetric, error)
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type EngineParams struct {
	Lister workoutsLister
	// DailyMetrics is optional, without it the health metrics report is unavailable.
	DailyMetrics dailyMetricsLister
	Resolver     workout.MuscleGroupResolver
	Policies     Policies
	// Authoritative is the source trusted when cached records of different sources
	// describe the same session.
	Authoritative workout.Source
	// Cache and CacheTTL are optional.
	Cache    cache.Cache
	CacheTTL time.Duration
	Now      func() time.Time
}

// Engine computes read-only reports over one user's cached workouts.
type Engine struct {
	lister        workoutsLister
	dailyMetrics  dailyMetricsLister
	resolver      workout.MuscleGroupResolver
	policies      Policies
	authoritative workout.Source
	cache         cache.Cache
	cacheTTL      time.Duration
	now           func() time.Time
}

func NewEngine(params EngineParams) *Engine {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	authoritative := params.Authoritative
	if authoritative == "" {
		authoritative = workout.SourceHevy
	}
	policies := params.Policies
	if policies.Unit == "" {
		policies.Unit = UnitKg
	}
	return &Engine{
		lister:        params.Lister,
		dailyMetrics:  params.DailyMetrics,
		resolver:      params.Resolver,
		policies:      policies,
		authoritative: authoritative,
		cache:         params.Cache,
		cacheTTL:      params.CacheTTL,
		now:           now,
	}
}

func (e *Engine) Policies() Policies {
	return e.policies
}

// InvalidateReports drops every cached report. Called after new data is written.
func (e *Engine) InvalidateReports() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

// windowStart is the first instant of the calendar day windowDays before today (UTC).
func (e *Engine) windowStart(windowDays int) time.Time {
	today := e.now().UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -windowDays)
}

// listWindow returns the user's reconciled workouts since the window start, oldest first.
func (e *Engine) listWindow(ctx context.Context, userID string, windowDays int) ([]workout.Workout, error) {
	from := e.windowStart(windowDays)
	workouts, err := e.lister.ListWorkouts(ctx, workout.ListParams{
		UserID: userID,
		From:   &from,
	})
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}

	reconciled := reconcile.Reconcile(workouts, e.authoritative)
	if dropped := len(workouts) - len(reconciled); dropped > 0 {
		log.Debugf("analytics: %d cached duplicates hidden for user %s", dropped, userID)
	}

	sorted := make([]workout.Workout, len(reconciled))
	copy(sorted, reconciled)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime)
	})
	return sorted, nil
}

// cached returns the report stored under key, or computes and stores it.
func cached[T any](e *Engine, key string, compute func() (*T, error)) (*T, error) {
	if e.cache == nil {
		return compute()
	}

	if raw, found := e.cache.Get(key); found {
		var report T
		err := json.Unmarshal(raw, &report)
		if err == nil {
			return &report, nil
		}
		log.Errorf("failed to unmarshal cached report %s: %s", key, err)
	}

	report, err := compute()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal report %s: %s", key, err)
		return report, nil
	}
	if err := e.cache.Set(key, raw, e.cacheTTL); err != nil {
		log.Errorf("failed to cache report %s: %s", key, err)
	}
	return report, nil
}

func cacheKey(userID, kind string, params ...any) string {
	key := userID + "::" + kind
	for _, p := range params {
		key += fmt.Sprintf("::%v", p)
	}
	return key
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dateOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
