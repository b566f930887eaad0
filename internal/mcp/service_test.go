package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/fitsync/internal/analytics"
	"github.com/2beens/fitsync/internal/syncer"
)

// mockReportEngine implements reportEngine for service tests.
type mockReportEngine struct {
	frequency *analytics.FrequencyReport
	err       error
	gotDays   int
}

func (m *mockReportEngine) RecentWorkouts(ctx context.Context, userID string, limit int) ([]analytics.WorkoutSummary, error) {
	return nil, m.err
}

func (m *mockReportEngine) Frequency(ctx context.Context, userID string, windowDays int) (*analytics.FrequencyReport, error) {
	m.gotDays = windowDays
	return m.frequency, m.err
}

func (m *mockReportEngine) Progression(ctx context.Context, userID, exerciseName string, windowDays int) (*analytics.Progression, error) {
	return &analytics.Progression{Query: exerciseName, PeriodDays: windowDays}, m.err
}

func (m *mockReportEngine) Plateau(ctx context.Context, userID, exerciseName string) (*analytics.PlateauReport, error) {
	return &analytics.PlateauReport{ExerciseName: exerciseName}, m.err
}

func (m *mockReportEngine) Balance(ctx context.Context, userID string) (*analytics.BalanceReport, error) {
	return &analytics.BalanceReport{PeriodDays: 90}, m.err
}

func (m *mockReportEngine) HealthMetrics(ctx context.Context, userID string, windowDays int, metrics []string) (*analytics.HealthMetricsReport, error) {
	m.gotDays = windowDays
	return &analytics.HealthMetricsReport{DaysRequested: windowDays, Metrics: metrics}, m.err
}

type mockSyncer struct {
	result *syncer.Result
	err    error
}

func (m *mockSyncer) SyncRemote(ctx context.Context, userID string) (*syncer.Result, error) {
	return m.result, m.err
}

func TestContextService_Reports(t *testing.T) {
	engine := &mockReportEngine{frequency: &analytics.FrequencyReport{TotalWorkouts: 4}}
	svc := NewContextService(engine, nil)

	report, err := svc.WorkoutAnalysis(context.Background(), testUserID, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalWorkouts != 4 || engine.gotDays != 14 {
		t.Fatalf("unexpected report %+v (days %d)", report, engine.gotDays)
	}

	progression, err := svc.ExerciseHistory(context.Background(), testUserID, "bench", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progression.Query != "bench" || progression.PeriodDays != 60 {
		t.Fatalf("unexpected progression %+v", progression)
	}

	health, err := svc.HealthMetrics(context.Background(), testUserID, 21, []string{"steps"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if health.DaysRequested != 21 || engine.gotDays != 21 || len(health.Metrics) != 1 {
		t.Fatalf("unexpected health report %+v", health)
	}

	engine.err = errors.New("db gone")
	if _, err := svc.MuscleBalance(context.Background(), testUserID); err == nil {
		t.Fatalf("expected error")
	}
}

func TestContextService_SyncHevy(t *testing.T) {
	svc := NewContextService(&mockReportEngine{}, nil)
	if _, err := svc.SyncHevy(context.Background(), testUserID); !errors.Is(err, ErrSyncNotConfigured) {
		t.Fatalf("err = %v, want ErrSyncNotConfigured", err)
	}

	want := &syncer.Result{Saved: 3, Message: "Successfully synced 3 workouts from Hevy."}
	svc = NewContextService(&mockReportEngine{}, &mockSyncer{result: want})
	got, err := svc.SyncHevy(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestNewServer(t *testing.T) {
	server := NewServer(NewContextService(&mockReportEngine{}, nil), testUserID)
	if server == nil {
		t.Fatalf("expected server")
	}
	if NewHTTPHandler(server) == nil {
		t.Fatalf("expected http handler")
	}
}
