package analytics

import (
	"context"
	"fmt"

	"github.com/2beens/fitsync/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type PlateauStatus string

const (
	PlateauInsufficientData PlateauStatus = "INSUFFICIENT_DATA"
	PlateauDetected         PlateauStatus = "PLATEAU_DETECTED"
	PlateauProgressing      PlateauStatus = "PROGRESSING"
)

type PlateauAnalysis struct {
	RecentSessionsAnalyzed int     `json:"recentSessionsAnalyzed"`
	PeriodDays             int     `json:"periodDays"`
	StartingWeight         float64 `json:"startingWeight"`
	CurrentWeight          float64 `json:"currentWeight"`
	MaxWeightInPeriod      float64 `json:"maxWeightInPeriod"`
	GrowthPercentage       float64 `json:"growthPercentage"`
	IsFlat                 bool    `json:"isFlat"`
	IsStuck                bool    `json:"isStuck"`
}

type PlateauReport struct {
	ExerciseName    string           `json:"exerciseName"`
	Status          PlateauStatus    `json:"status"`
	Unit            Unit             `json:"unit"`
	Message         string           `json:"message,omitempty"`
	Analysis        *PlateauAnalysis `json:"analysis,omitempty"`
	RecentWeights   []float64        `json:"recentWeights,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// Plateau looks for stalled max weight in the most recent sessions of an exercise
// within the plateau lookback.
func (e *Engine) Plateau(ctx context.Context, userID, exerciseName string) (_ *PlateauReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analytics.plateau")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID))
	span.SetAttributes(attribute.String("exercise", exerciseName))

	policy := e.policies.Plateau
	progression, err := e.Progression(ctx, userID, exerciseName, policy.LookbackDays)
	if err != nil {
		return nil, err
	}

	report := DetectPlateau(progression.Sessions, policy)
	report.Unit = e.policies.Unit
	report.ExerciseName = progression.ExerciseName
	if progression.NotFound {
		report.Message = progression.Message
	}
	span.SetAttributes(attribute.String("status", string(report.Status)))
	return report, nil
}

// DetectPlateau classifies sessions sorted oldest first. ExerciseName is left to the caller.
func DetectPlateau(sessions []Session, policy PlateauPolicy) *PlateauReport {
	if len(sessions) < policy.MinSessions || len(sessions) == 0 {
		return &PlateauReport{
			Status: PlateauInsufficientData,
			Message: fmt.Sprintf(
				"Only found %d sessions. Need at least %d to detect a plateau.",
				len(sessions), policy.MinSessions,
			),
		}
	}

	recent := sessions
	if policy.WindowSessions > 0 && len(recent) > policy.WindowSessions {
		recent = recent[len(recent)-policy.WindowSessions:]
	}

	weights := make([]float64, len(recent))
	maxWeight := recent[0].MaxWeight
	for i, s := range recent {
		weights[i] = s.MaxWeight
		if s.MaxWeight > maxWeight {
			maxWeight = s.MaxWeight
		}
	}
	firstWeight, lastWeight := weights[0], weights[len(weights)-1]

	isFlat := lastWeight <= firstWeight*(1+policy.FlatGrowth)
	isStuck := lastWeight < maxWeight
	spanDays := int(recent[len(recent)-1].Date.Sub(recent[0].Date).Hours() / 24)
	isPlateau := (isFlat || isStuck) && spanDays > policy.MinSpanDays

	growth := 0.0
	if firstWeight > 0 {
		growth = round2((lastWeight - firstWeight) / firstWeight * 100)
	}

	report := &PlateauReport{
		Analysis: &PlateauAnalysis{
			RecentSessionsAnalyzed: len(recent),
			PeriodDays:             spanDays,
			StartingWeight:         firstWeight,
			CurrentWeight:          lastWeight,
			MaxWeightInPeriod:      maxWeight,
			GrowthPercentage:       growth,
			IsFlat:                 isFlat,
			IsStuck:                isStuck,
		},
		RecentWeights: weights,
	}
	if isPlateau {
		report.Status = PlateauDetected
		report.Recommendations = append([]string(nil), policy.Recommendations...)
	} else {
		report.Status = PlateauProgressing
		report.Recommendations = []string{policy.ProgressingMessage}
	}
	return report
}
