package healthexport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/workout"

	"github.com/klauspost/compress/gzip"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// DateLayout is the timestamp format of Health Auto Export JSON files.
const DateLayout = "2006-01-02 15:04:05 -0700"

const (
	MetricHeartRate         = "heart_rate"
	MetricStepCount         = "step_count"
	MetricActiveEnergy      = "active_energy"
	MetricHeartRateRecovery = "heart_rate_recovery"
)

// MaxDecompressedBytes caps how much a gzipped export may inflate to.
var MaxDecompressedBytes int64 = 1 << 30

var ErrExportTooLarge = errors.New("decompressed export too large")

// Export is the parsed content of one export file.
type Export struct {
	DailyMetrics []workout.DailyMetric
	RawMetrics   []workout.RawMetric
	Workouts     []workout.RawWorkout

	// Skipped counts data points and workouts that could not be parsed.
	Skipped int
	Errs    error
}

type fileRoot struct {
	Data *struct {
		Metrics  *[]metricSeries  `json:"metrics"`
		Workouts []json.RawMessage `json:"workouts"`
	} `json:"data"`
}

type metricSeries struct {
	Name  string        `json:"name"`
	Units string        `json:"units"`
	Data  []metricPoint `json:"data"`
}

type metricPoint struct {
	Date   string   `json:"date"`
	Qty    *float64 `json:"qty"`
	Min    *float64 `json:"Min"`
	Max    *float64 `json:"Max"`
	Avg    *float64 `json:"Avg"`
	Units  string   `json:"units"`
	Source string   `json:"source"`
}

type quantity struct {
	Qty   *float64 `json:"qty"`
	Units string   `json:"units"`
}

type exportWorkout struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Start              string        `json:"start"`
	End                string        `json:"end"`
	ActiveEnergyBurned *quantity     `json:"activeEnergyBurned"`
	Distance           *quantity     `json:"distance"`
	HeartRateData      []metricPoint `json:"heartRateData"`
	StepCount          []metricPoint `json:"stepCount"`
	ActiveEnergy       []metricPoint `json:"activeEnergy"`
	HeartRateRecovery  []metricPoint `json:"heartRateRecovery"`
}

// ParseFile reads an export from disk, gunzipping it when the name ends in .gz
// or the content starts with the gzip magic bytes.
func ParseFile(path string) (*Export, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", path, err)
	}
	defer f.Close()

	return parseMaybeGzip(f, strings.HasSuffix(strings.ToLower(path), ".gz"))
}

// ParseStream is Parse for a body that may be gzip compressed, detected by its magic bytes.
func ParseStream(r io.Reader) (*Export, error) {
	return parseMaybeGzip(r, false)
}

func parseMaybeGzip(r io.Reader, gzipped bool) (*Export, error) {
	br := bufio.NewReader(r)
	var body io.Reader = br
	magic, _ := br.Peek(2)
	if gzipped || bytes.Equal(magic, []byte{0x1f, 0x8b}) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, workout.NewParseError("", "invalid gzip stream", err)
		}
		defer gz.Close()
		body = &cappedReader{
			r:   io.LimitReader(gz, MaxDecompressedBytes+1),
			max: MaxDecompressedBytes,
		}
	}

	return Parse(body)
}

type cappedReader struct {
	r    io.Reader
	read int64
	max  int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)
	if c.read > c.max {
		return n, ErrExportTooLarge
	}
	return n, err
}

// Parse decodes an export. The file must carry data.metrics, otherwise it is rejected
// as a whole with a ParseError. Individual bad points or workouts are skipped and counted.
func Parse(r io.Reader) (*Export, error) {
	var root fileRoot
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, workout.NewParseError("", "invalid export json", err)
	}
	if root.Data == nil {
		return nil, workout.NewParseError("", "'data' key not found", nil)
	}
	if root.Data.Metrics == nil {
		return nil, workout.NewParseError("", "'metrics' key not found", nil)
	}

	export := &Export{}
	export.DailyMetrics = export.parseDailyMetrics(*root.Data.Metrics)

	workouts := make([]exportWorkout, 0, len(root.Data.Workouts))
	for i, raw := range root.Data.Workouts {
		var w exportWorkout
		if err := json.Unmarshal(raw, &w); err != nil {
			export.skip(workout.NewParseError("", fmt.Sprintf("workout %d", i), err))
			continue
		}
		workouts = append(workouts, w)

		rw, err := toRawWorkout(w, raw)
		if err != nil {
			export.skip(err)
			continue
		}
		export.Workouts = append(export.Workouts, rw)
	}
	export.RawMetrics = export.parseRawMetrics(workouts)

	if export.Skipped > 0 {
		log.Warnf("health export: skipped %d entries: %s", export.Skipped, export.Errs)
	}
	log.Debugf(
		"health export: %d daily metrics, %d raw metrics, %d workouts",
		len(export.DailyMetrics), len(export.RawMetrics), len(export.Workouts),
	)

	return export, nil
}

func (e *Export) skip(err error) {
	e.Skipped++
	e.Errs = multierr.Append(e.Errs, err)
}

// parseDailyMetrics groups every metric point by its local calendar date.
// Known metrics fill their column, heart rate keeps min/max/avg, everything else
// ends up in AdditionalMetrics.
func (e *Export) parseDailyMetrics(series []metricSeries) []workout.DailyMetric {
	byDate := make(map[string]*workout.DailyMetric)

	for _, s := range series {
		for _, p := range s.Data {
			ts, err := time.Parse(DateLayout, p.Date)
			if err != nil {
				e.skip(workout.NewParseError("", fmt.Sprintf("metric %s date %q", s.Name, p.Date), err))
				continue
			}

			dateKey := ts.Format(time.DateOnly)
			day, ok := byDate[dateKey]
			if !ok {
				day = &workout.DailyMetric{
					MetricDate:        time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
					AdditionalMetrics: map[string]workout.MetricValue{},
				}
				byDate[dateKey] = day
			}

			if s.Name == MetricHeartRate {
				day.AdditionalMetrics[s.Name] = workout.MetricValue{
					Min:    p.Min,
					Max:    p.Max,
					Avg:    p.Avg,
					Units:  s.Units,
					Source: p.Source,
				}
				continue
			}

			if column := dailyColumn(day, s.Name); column != nil {
				*column = p.Qty
				continue
			}
			day.AdditionalMetrics[s.Name] = workout.MetricValue{
				Value:  p.Qty,
				Units:  s.Units,
				Source: p.Source,
			}
		}
	}

	days := make([]workout.DailyMetric, 0, len(byDate))
	for _, d := range byDate {
		days = append(days, *d)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].MetricDate.Before(days[j].MetricDate)
	})
	return days
}

func dailyColumn(day *workout.DailyMetric, metricName string) **float64 {
	switch metricName {
	case "step_count":
		return &day.Steps
	case "weight_body_mass":
		return &day.WeightLbs
	case "active_energy":
		return &day.ActiveCalories
	case "resting_heart_rate":
		return &day.RestingHeartRate
	case "walking_running_distance":
		return &day.DistanceMiles
	case "apple_exercise_time":
		return &day.ExerciseMinutes
	case "apple_stand_time":
		return &day.StandMinutes
	default:
		return nil
	}
}

// parseRawMetrics extracts the per-workout time series. Any of the arrays may be absent.
func (e *Export) parseRawMetrics(workouts []exportWorkout) []workout.RawMetric {
	var out []workout.RawMetric
	for _, w := range workouts {
		out = append(out, e.seriesToRaw(w.ID, MetricHeartRate, "bpm", w.HeartRateData, true)...)
		out = append(out, e.seriesToRaw(w.ID, MetricStepCount, "steps", w.StepCount, false)...)
		out = append(out, e.seriesToRaw(w.ID, MetricActiveEnergy, "kcal", w.ActiveEnergy, false)...)
		out = append(out, e.seriesToRaw(w.ID, MetricHeartRateRecovery, "bpm", w.HeartRateRecovery, true)...)
	}
	return out
}

func (e *Export) seriesToRaw(workoutID, metricType, defaultUnit string, points []metricPoint, useAvg bool) []workout.RawMetric {
	out := make([]workout.RawMetric, 0, len(points))
	for _, p := range points {
		ts, err := time.Parse(DateLayout, p.Date)
		if err != nil {
			e.skip(workout.NewParseError(workoutID, fmt.Sprintf("%s sample date %q", metricType, p.Date), err))
			continue
		}

		value := p.Qty
		if useAvg {
			value = p.Avg
		}
		if value == nil {
			e.skip(workout.NewParseError(workoutID, fmt.Sprintf("%s sample without value", metricType), nil))
			continue
		}

		unit := p.Units
		if unit == "" {
			unit = defaultUnit
		}

		metadata := map[string]any{"workout_id": workoutID}
		if useAvg {
			metadata["min"] = p.Min
			metadata["max"] = p.Max
			metadata["avg"] = p.Avg
		}

		out = append(out, workout.RawMetric{
			MetricDate: ts.UTC(),
			MetricType: metricType,
			Value:      *value,
			Unit:       unit,
			Source:     p.Source,
			Metadata:   metadata,
		})
	}
	return out
}

func toRawWorkout(w exportWorkout, raw json.RawMessage) (workout.RawWorkout, error) {
	if strings.TrimSpace(w.ID) == "" {
		return workout.RawWorkout{}, workout.NewParseError("", "workout without id", nil)
	}

	rw := workout.RawWorkout{
		ExternalID: w.ID,
		Title:      strings.TrimSpace(w.Name),
		Exercises:  []workout.Exercise{},
		Payload:    raw,
	}
	if rw.Title == "" {
		rw.Title = workout.DefaultTitle
	}

	// a bad timestamp leaves the pointer nil, the calculator rejects the record
	if ts, err := time.Parse(DateLayout, w.Start); err == nil {
		rw.StartTime = &ts
	}
	if ts, err := time.Parse(DateLayout, w.End); err == nil {
		rw.EndTime = &ts
	}

	if w.ActiveEnergyBurned != nil {
		rw.CaloriesBurned = w.ActiveEnergyBurned.Qty
	}
	if w.Distance != nil {
		rw.DistanceMeters = distanceToMeters(w.Distance)
	}
	rw.AvgHeartRate = averageHeartRate(w.HeartRateData)

	return rw, nil
}

func distanceToMeters(q *quantity) *float64 {
	if q.Qty == nil {
		return nil
	}
	var meters float64
	switch strings.ToLower(q.Units) {
	case "mi":
		meters = *q.Qty * 1609.344
	case "km":
		meters = *q.Qty * 1000
	default:
		meters = *q.Qty
	}
	return &meters
}

func averageHeartRate(points []metricPoint) *float64 {
	var sum float64
	var n int
	for _, p := range points {
		if p.Avg == nil || *p.Avg == 0 {
			continue
		}
		sum += *p.Avg
		n++
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}
