package workout

import (
	"encoding/json"
	"time"
)

type Source string

const (
	SourceHevy        Source = "hevy"
	SourceAppleHealth Source = "apple_health"
	SourceFitFile     Source = "fit_file"
)

func (s Source) String() string {
	return string(s)
}

const (
	SetTypeNormal  = "normal"
	SetTypeWarmup  = "warmup"
	SetTypeFailure = "failure"
	SetTypeDropset = "dropset"
)

const DefaultTitle = "Untitled Workout"

// Set is one logged set of an exercise. All measurements are optional,
// a bodyweight set has reps but no weight, a cardio set may only have a duration.
type Set struct {
	Index           int      `json:"index"`
	Type            string   `json:"type"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	DistanceMeters  *float64 `json:"distanceMeters,omitempty"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty"`
	RPE             *float64 `json:"rpe,omitempty"`
	CustomMetric    *float64 `json:"customMetric,omitempty"`
}

type Exercise struct {
	Title      string `json:"title"`
	TemplateID string `json:"templateId,omitempty"`
	// MuscleGroup is set only when the source embeds it on the exercise itself.
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Notes       string `json:"notes,omitempty"`
	Sets        []Set  `json:"sets"`
}

// RawWorkout is a source record after field-name normalization and before metric calculation.
type RawWorkout struct {
	ExternalID     string
	Title          string
	StartTime      *time.Time
	EndTime        *time.Time
	Exercises      []Exercise
	CaloriesBurned *float64
	DistanceMeters *float64
	AvgHeartRate   *float64
	Payload        json.RawMessage
}

type Metrics struct {
	DurationMinutes int      `json:"durationMinutes"`
	TotalSets       int      `json:"totalSets"`
	TotalVolumeKg   float64  `json:"totalVolumeKg"`
	BodyweightReps  int      `json:"bodyweightReps"`
	ExerciseCount   int      `json:"exerciseCount"`
	MuscleGroups    []string `json:"muscleGroups"`
}

// Workout is the canonical, reconciled representation of one training session.
type Workout struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Source     Source    `json:"source"`
	ExternalID string    `json:"externalId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Title      string    `json:"title"`
	Metrics

	CaloriesBurned *float64 `json:"caloriesBurned,omitempty"`
	DistanceMeters *float64 `json:"distanceMeters,omitempty"`
	AvgHeartRate   *float64 `json:"avgHeartRate,omitempty"`

	Exercises  []Exercise      `json:"exercises"`
	RawPayload json.RawMessage `json:"-"`

	LastSynced time.Time `json:"lastSynced"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Key returns the identity of the record in the cache.
func (w Workout) Key() string {
	return w.UserID + "|" + string(w.Source) + "|" + w.ExternalID
}

// ListParams filters workouts read from the cache. Zero values mean "no filter".
type ListParams struct {
	UserID string
	Source Source
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyMetric is one day of aggregated wearable health data.
type DailyMetric struct {
	UserID            string                 `json:"userId"`
	MetricDate        time.Time              `json:"metricDate"`
	Steps             *float64               `json:"steps,omitempty"`
	WeightLbs         *float64               `json:"weightLbs,omitempty"`
	ActiveCalories    *float64               `json:"activeCalories,omitempty"`
	RestingHeartRate  *float64               `json:"restingHeartRate,omitempty"`
	DistanceMiles     *float64               `json:"distanceMiles,omitempty"`
	ExerciseMinutes   *float64               `json:"exerciseMinutes,omitempty"`
	StandMinutes      *float64               `json:"standMinutes,omitempty"`
	AdditionalMetrics map[string]MetricValue `json:"additionalMetrics"`
}

type MetricValue struct {
	Value  *float64 `json:"value,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Avg    *float64 `json:"avg,omitempty"`
	Units  string   `json:"units,omitempty"`
	Source string   `json:"source,omitempty"`
}

// RawMetric is one time-series sample, usually recorded during a workout.
type RawMetric struct {
	UserID     string         `json:"userId"`
	MetricDate time.Time      `json:"metricDate"`
	MetricType string         `json:"metricType"`
	Value      float64        `json:"value"`
	Unit       string         `json:"unit"`
	Source     string         `json:"source"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (m RawMetric) Key() string {
	return m.UserID + "|" + m.MetricType + "|" + m.MetricDate.UTC().Format(time.RFC3339Nano)
}
