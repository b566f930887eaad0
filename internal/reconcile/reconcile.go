package reconcile

import (
	"sort"
	"time"

	"github.com/2beens/fitsync/internal/workout"
)

const (
	// DirectOverlapWindow catches the same session logged by two clocks a few minutes apart.
	DirectOverlapWindow = 30 * time.Minute

	// TimezoneShiftMaxDurationDiff is the largest duration difference, in minutes,
	// still considered the same session when start times differ by whole hours.
	TimezoneShiftMaxDurationDiff = 2
	TimezoneShiftMaxDelta        = 24 * time.Hour
	TimezoneShiftHourTolerance   = 5 * time.Minute
)

// Rule reports whether other duplicates the authoritative record.
type Rule func(other, authoritative workout.Workout) bool

// DirectOverlap matches records starting less than 30 minutes apart.
func DirectOverlap(other, authoritative workout.Workout) bool {
	return startDelta(other, authoritative) < int64(DirectOverlapWindow.Seconds())
}

// TimezoneShift matches records of near-equal duration that start within one day
// and whose offset is within 5 minutes of a whole number of hours.
func TimezoneShift(other, authoritative workout.Workout) bool {
	durDiff := other.DurationMinutes - authoritative.DurationMinutes
	if durDiff < 0 {
		durDiff = -durDiff
	}
	if durDiff > TimezoneShiftMaxDurationDiff {
		return false
	}

	delta := startDelta(other, authoritative)
	if delta >= int64(TimezoneShiftMaxDelta.Seconds()) {
		return false
	}

	hour := int64(time.Hour.Seconds())
	tolerance := int64(TimezoneShiftHourTolerance.Seconds())
	rem := delta % hour
	return rem < tolerance || rem > hour-tolerance
}

// IsDuplicate is the rule set used by Reconcile.
func IsDuplicate(other, authoritative workout.Workout) bool {
	return DirectOverlap(other, authoritative) || TimezoneShift(other, authoritative)
}

// Reconcile drops non-authoritative candidates that duplicate an authoritative one.
// Authoritative records always survive. With no authoritative candidates the input is returned as is,
// otherwise the result is sorted by start time, newest first.
func Reconcile(candidates []workout.Workout, authoritative workout.Source) []workout.Workout {
	kept, _ := partitionDuplicates(candidates, authoritative, IsDuplicate)
	return kept
}

// Discarded returns the candidates Reconcile would drop.
func Discarded(candidates []workout.Workout, authoritative workout.Source) []workout.Workout {
	_, dropped := partitionDuplicates(candidates, authoritative, IsDuplicate)
	return dropped
}

func partitionDuplicates(
	candidates []workout.Workout,
	authoritativeSource workout.Source,
	isDuplicate Rule,
) (kept, dropped []workout.Workout) {
	var authoritative, others []workout.Workout
	for _, c := range candidates {
		if c.Source == authoritativeSource {
			authoritative = append(authoritative, c)
		} else {
			others = append(others, c)
		}
	}

	if len(authoritative) == 0 {
		return candidates, nil
	}

	kept = make([]workout.Workout, 0, len(candidates))
	kept = append(kept, authoritative...)
	for _, o := range others {
		if matchesAny(o, authoritative, isDuplicate) {
			dropped = append(dropped, o)
			continue
		}
		kept = append(kept, o)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime.After(kept[j].StartTime)
	})

	return kept, dropped
}

func matchesAny(other workout.Workout, authoritative []workout.Workout, isDuplicate Rule) bool {
	for _, a := range authoritative {
		if isDuplicate(other, a) {
			return true
		}
	}
	return false
}

// startDelta is |other.start - authoritative.start| in whole seconds.
func startDelta(other, authoritative workout.Workout) int64 {
	d := other.StartTime.Sub(authoritative.StartTime)
	if d < 0 {
		d = -d
	}
	return int64(d / time.Second)
}
