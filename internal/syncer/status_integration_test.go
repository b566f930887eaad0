//go:build integration_test || all_tests

package syncer_test

import (
	"testing"
	"time"

	"github.com/2beens/fitsync/internal/syncer"
	"github.com/2beens/fitsync/internal/workout"
	testingpkg "github.com/2beens/fitsync/pkg/testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusStore_Redis(t *testing.T) {
	ctx, rdb := testingpkg.GetRedisClientAndCtx(t)
	statusStore := syncer.NewStatusStore(rdb, time.Minute)

	userID := "status-it-user"
	require.NoError(t, rdb.Del(ctx, syncer.StatusKey(userID, workout.SourceHevy)).Err())

	_, err := statusStore.Get(ctx, userID, workout.SourceHevy)
	require.ErrorIs(t, err, syncer.ErrStatusNotFound)

	result := &syncer.Result{
		UserID:         userID,
		Source:         workout.SourceHevy,
		TotalProcessed: 3,
		Saved:          2,
		Discarded:      1,
		Message:        "Successfully synced 2 workouts from Hevy.",
		StartedAt:      testNow,
		FinishedAt:     testNow.Add(time.Second),
	}
	require.NoError(t, statusStore.Save(ctx, result))

	got, err := statusStore.Get(ctx, userID, workout.SourceHevy)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Saved)
	assert.Equal(t, 1, got.Discarded)
	assert.True(t, testNow.Equal(got.StartedAt))

	ttl, err := rdb.TTL(ctx, syncer.StatusKey(userID, workout.SourceHevy)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	// other sources are tracked separately
	_, err = statusStore.Get(ctx, userID, workout.SourceAppleHealth)
	require.ErrorIs(t, err, syncer.ErrStatusNotFound)
}
