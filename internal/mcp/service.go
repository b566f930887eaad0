package mcp

import (
	"context"
	"errors"

	"github.com/2beens/fitsync/internal/analytics"
	"github.com/2beens/fitsync/internal/syncer"
)

var ErrSyncNotConfigured = errors.New("hevy sync is not configured")

// reportEngine computes read-only reports over the cached workouts (for dependency injection and testing).
type reportEngine interface {
	RecentWorkouts(ctx context.Context, userID string, limit int) ([]analytics.WorkoutSummary, error)
	Frequency(ctx context.Context, userID string, windowDays int) (*analytics.FrequencyReport, error)
	Progression(ctx context.Context, userID, exerciseName string, windowDays int) (*analytics.Progression, error)
	Plateau(ctx context.Context, userID, exerciseName string) (*analytics.PlateauReport, error)
	Balance(ctx context.Context, userID string) (*analytics.BalanceReport, error)
	HealthMetrics(ctx context.Context, userID string, windowDays int, metrics []string) (*analytics.HealthMetricsReport, error)
}

// remoteSyncer pulls new workouts from the remote tracking service.
type remoteSyncer interface {
	SyncRemote(ctx context.Context, userID string) (*syncer.Result, error)
}

// contextService provides the data behind every tool.
// Used by Handler for testability.
type contextService interface {
	RecentWorkouts(ctx context.Context, userID string, limit int) ([]analytics.WorkoutSummary, error)
	WorkoutAnalysis(ctx context.Context, userID string, days int) (*analytics.FrequencyReport, error)
	ExerciseHistory(ctx context.Context, userID, exerciseName string, days int) (*analytics.Progression, error)
	DetectPlateau(ctx context.Context, userID, exerciseName string) (*analytics.PlateauReport, error)
	MuscleBalance(ctx context.Context, userID string) (*analytics.BalanceReport, error)
	HealthMetrics(ctx context.Context, userID string, days int, metrics []string) (*analytics.HealthMetricsReport, error)
	SyncHevy(ctx context.Context, userID string) (*syncer.Result, error)
}

// ContextService holds the analytics engine and the optional syncer.
type ContextService struct {
	reports reportEngine
	syncer  remoteSyncer
}

// NewContextService builds a ContextService. A nil syncer disables the sync tool.
func NewContextService(reports reportEngine, syncer remoteSyncer) *ContextService {
	return &ContextService{
		reports: reports,
		syncer:  syncer,
	}
}

func (s *ContextService) RecentWorkouts(ctx context.Context, userID string, limit int) ([]analytics.WorkoutSummary, error) {
	return s.reports.RecentWorkouts(ctx, userID, limit)
}

func (s *ContextService) WorkoutAnalysis(ctx context.Context, userID string, days int) (*analytics.FrequencyReport, error) {
	return s.reports.Frequency(ctx, userID, days)
}

func (s *ContextService) ExerciseHistory(ctx context.Context, userID, exerciseName string, days int) (*analytics.Progression, error) {
	return s.reports.Progression(ctx, userID, exerciseName, days)
}

func (s *ContextService) DetectPlateau(ctx context.Context, userID, exerciseName string) (*analytics.PlateauReport, error) {
	return s.reports.Plateau(ctx, userID, exerciseName)
}

func (s *ContextService) MuscleBalance(ctx context.Context, userID string) (*analytics.BalanceReport, error) {
	return s.reports.Balance(ctx, userID)
}

func (s *ContextService) HealthMetrics(ctx context.Context, userID string, days int, metrics []string) (*analytics.HealthMetricsReport, error) {
	return s.reports.HealthMetrics(ctx, userID, days, metrics)
}

// SyncHevy runs a remote sync. The returned result is kept even when the sync failed,
// so the caller can show the counts and the message.
func (s *ContextService) SyncHevy(ctx context.Context, userID string) (*syncer.Result, error) {
	if s.syncer == nil {
		return nil, ErrSyncNotConfigured
	}
	return s.syncer.SyncRemote(ctx, userID)
}
