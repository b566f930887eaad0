package hevy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/workout"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// The MCP server passes Hevy API objects through, sometimes re-keyed to camelCase
// depending on its version. Both spellings are accepted here and nowhere else.

type wireSet struct {
	Index *int     `json:"index"`
	Type  string   `json:"type"`
	Reps  *float64 `json:"reps"`
	RPE   *float64 `json:"rpe"`

	WeightKg      *float64 `json:"weight_kg"`
	WeightKgCamel *float64 `json:"weightKg"`

	DistanceMeters      *float64 `json:"distance_meters"`
	DistanceMetersCamel *float64 `json:"distanceMeters"`

	DurationSeconds      *float64 `json:"duration_seconds"`
	DurationSecondsCamel *float64 `json:"durationSeconds"`

	CustomMetric      *float64 `json:"custom_metric"`
	CustomMetricCamel *float64 `json:"customMetric"`
}

type wireExercise struct {
	Title string    `json:"title"`
	Notes string    `json:"notes"`
	Sets  []wireSet `json:"sets"`

	TemplateID      string `json:"exercise_template_id"`
	TemplateIDCamel string `json:"exerciseTemplateId"`

	PrimaryMuscleGroup string `json:"primary_muscle_group"`
	MuscleGroup        string `json:"muscle_group"`
	MuscleGroupCamel   string `json:"muscleGroup"`
}

type wireWorkout struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Exercises []wireExercise `json:"exercises"`

	StartTime      string `json:"start_time"`
	StartTimeCamel string `json:"startTime"`
	EndTime        string `json:"end_time"`
	EndTimeCamel   string `json:"endTime"`
}

type wirePage struct {
	Workouts       []json.RawMessage `json:"workouts"`
	Page           int               `json:"page"`
	PageCount      int               `json:"page_count"`
	PageCountCamel int               `json:"pageCount"`
}

// page is one decoded get-workouts response.
type page struct {
	workouts  []json.RawMessage
	pageCount int
}

var errEmptyBody = errors.New("empty tool response body")

// decodePage accepts either a bare JSON list of workouts or an object carrying them
// under "workouts" with optional pagination fields.
func decodePage(body string) (*page, error) {
	trimmed := bytes.TrimSpace([]byte(body))
	if len(trimmed) == 0 {
		return nil, errEmptyBody
	}

	if trimmed[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("unmarshal workout list: %w", err)
		}
		return &page{workouts: list}, nil
	}

	var wp wirePage
	if err := json.Unmarshal(trimmed, &wp); err != nil {
		return nil, fmt.Errorf("unmarshal workouts page: %w", err)
	}
	return &page{
		workouts:  wp.Workouts,
		pageCount: firstInt(wp.PageCount, wp.PageCountCamel),
	}, nil
}

// normalizeWorkouts converts wire records into RawWorkouts. Records that are not
// objects or carry no id are skipped; their errors are combined.
func normalizeWorkouts(raws []json.RawMessage) (_ []workout.RawWorkout, errs error) {
	out := make([]workout.RawWorkout, 0, len(raws))
	for i, raw := range raws {
		rw, err := normalizeWorkout(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		out = append(out, rw)
	}
	return out, errs
}

func normalizeWorkout(raw json.RawMessage) (workout.RawWorkout, error) {
	var w wireWorkout
	if err := json.Unmarshal(raw, &w); err != nil {
		return workout.RawWorkout{}, workout.NewParseError("", "unmarshal workout", err)
	}
	if strings.TrimSpace(w.ID) == "" {
		return workout.RawWorkout{}, workout.NewParseError("", "missing id", nil)
	}

	title := strings.TrimSpace(w.Title)
	if title == "" {
		title = workout.DefaultTitle
	}

	exercises := make([]workout.Exercise, 0, len(w.Exercises))
	for _, we := range w.Exercises {
		exercises = append(exercises, normalizeExercise(we))
	}

	payload := make(json.RawMessage, len(raw))
	copy(payload, raw)

	return workout.RawWorkout{
		ExternalID: w.ID,
		Title:      title,
		StartTime:  parseTimestamp(w.ID, firstString(w.StartTime, w.StartTimeCamel)),
		EndTime:    parseTimestamp(w.ID, firstString(w.EndTime, w.EndTimeCamel)),
		Exercises:  exercises,
		Payload:    payload,
	}, nil
}

func normalizeExercise(we wireExercise) workout.Exercise {
	sets := make([]workout.Set, 0, len(we.Sets))
	for i, ws := range we.Sets {
		idx := i
		if ws.Index != nil {
			idx = *ws.Index
		}
		setType := strings.ToLower(strings.TrimSpace(ws.Type))
		if setType == "" {
			setType = workout.SetTypeNormal
		}
		sets = append(sets, workout.Set{
			Index:           idx,
			Type:            setType,
			WeightKg:        firstFloat(ws.WeightKg, ws.WeightKgCamel),
			Reps:            toIntPtr(ws.Reps),
			DistanceMeters:  firstFloat(ws.DistanceMeters, ws.DistanceMetersCamel),
			DurationSeconds: firstFloat(ws.DurationSeconds, ws.DurationSecondsCamel),
			RPE:             ws.RPE,
			CustomMetric:    firstFloat(ws.CustomMetric, ws.CustomMetricCamel),
		})
	}

	return workout.Exercise{
		Title:       strings.TrimSpace(we.Title),
		TemplateID:  firstString(we.TemplateID, we.TemplateIDCamel),
		MuscleGroup: firstString(we.PrimaryMuscleGroup, we.MuscleGroup, we.MuscleGroupCamel),
		Notes:       we.Notes,
		Sets:        sets,
	}
}

// parseTimestamp returns nil for an absent or unparseable instant, leaving the
// decision to reject the record to the metric calculator.
func parseTimestamp(workoutID, value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	log.Debugf("hevy workout %s: unparseable timestamp %q", workoutID, value)
	return nil
}

func firstString(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}

func toIntPtr(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
