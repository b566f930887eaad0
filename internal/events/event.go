package events

import (
	"time"

	"github.com/2beens/fitsync/internal/workout"
)

const TopicWorkoutsSynced = "workouts.synced"

// WorkoutsSynced is published after workouts of one user were written to the cache.
type WorkoutsSynced struct {
	UserID     string         `json:"userId"`
	Source     workout.Source `json:"source"`
	Saved      int            `json:"saved"`
	Skipped    int            `json:"skipped"`
	Discarded  int            `json:"discarded"`
	WorkoutIDs []string       `json:"workoutIds"`
	SyncedAt   time.Time      `json:"syncedAt"`
}
