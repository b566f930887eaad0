package fitfile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitsync/internal/workout"

	"github.com/tormoder/fit"
)

var ErrNoSession = errors.New("activity file has no session message")

// ParseActivityFile decodes a FIT activity from disk. The file name without
// extension is used as external id.
func ParseActivityFile(path string) (workout.RawWorkout, error) {
	f, err := os.Open(path)
	if err != nil {
		return workout.RawWorkout{}, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	externalID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseActivity(f, externalID)
}

// ParseActivity maps the first session of a FIT activity onto a RawWorkout.
// A session without usable start instant yields a record with nil start, rejected later.
func ParseActivity(r io.Reader, externalID string) (workout.RawWorkout, error) {
	decoded, err := fit.Decode(r)
	if err != nil {
		return workout.RawWorkout{}, workout.NewParseError(externalID, "decode FIT file", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return workout.RawWorkout{}, workout.NewParseError(externalID, "activity FIT expected", err)
	}
	if len(activity.Sessions) == 0 {
		return workout.RawWorkout{}, workout.NewParseError(externalID, "no sessions", ErrNoSession)
	}

	return fromSession(activity.Sessions[0], externalID), nil
}

func fromSession(session *fit.SessionMsg, externalID string) workout.RawWorkout {
	rw := workout.RawWorkout{
		ExternalID: externalID,
		Title:      sportTitle(fmt.Sprint(session.Sport)),
		Exercises:  []workout.Exercise{},
	}

	start := validTime(session.StartTime)
	if start != nil {
		rw.StartTime = start
		elapsed := positive(session.GetTotalElapsedTimeScaled())
		if elapsed == 0 {
			elapsed = positive(session.GetTotalTimerTimeScaled())
		}
		if elapsed > 0 {
			end := start.Add(time.Duration(elapsed * float64(time.Second)))
			rw.EndTime = &end
		} else {
			rw.EndTime = validTime(session.Timestamp)
		}
	}

	if cal := session.TotalCalories; cal != math.MaxUint16 && cal > 0 {
		v := float64(cal)
		rw.CaloriesBurned = &v
	}
	if dist := positive(session.GetTotalDistanceScaled()); dist > 0 {
		rw.DistanceMeters = &dist
	}
	if hr := session.AvgHeartRate; hr != math.MaxUint8 && hr > 0 {
		v := float64(hr)
		rw.AvgHeartRate = &v
	}

	return rw
}

func sportTitle(sport string) string {
	sport = strings.TrimPrefix(sport, "Sport")
	sport = strings.TrimSpace(strings.ReplaceAll(sport, "_", " "))
	if sport == "" || strings.Contains(strings.ToLower(sport), "invalid") {
		return workout.DefaultTitle
	}
	return strings.ToUpper(sport[:1]) + sport[1:]
}

func validTime(t time.Time) *time.Time {
	if t.IsZero() || fit.IsBaseTime(t) {
		return nil
	}
	t = t.UTC()
	return &t
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
