//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/2beens/fitsync/internal/syncer"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestSyncStatus_NotFound() {
	t := s.T()

	resp, body := s.get("/sync/status", userQuery(otherUserID))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "no sync recorded")

	resp, _ = s.get("/sync/status", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestSyncHevy_UnreachableServerIsRecorded() {
	t := s.T()
	userID := "1f2e3d4c-5b6a-4798-8a7b-6c5d4e3f2a1b"

	resp, body := s.post("/sync/hevy", userQuery(userID), "")
	require.Equal(t, http.StatusBadGateway, resp.StatusCode, string(body))

	var result syncer.Result
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, workout.SourceHevy, result.Source)
	assert.Equal(t, 0, result.Saved)
	assert.NotEmpty(t, result.Error)

	resp, body = s.get("/sync/status", url.Values{
		"user_id": []string{userID},
		"source":  []string{string(workout.SourceHevy)},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var status syncer.Result
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, result.Error, status.Error)
	assert.Equal(t, userID, status.UserID)
}

func (s *IntegrationTestSuite) TestSyncHevy_RateLimited() {
	t := s.T()
	userID := "7b6a5c4d-3e2f-4109-8877-665544332211"

	for i := 0; i < testRateMin; i++ {
		resp, _ := s.post("/sync/hevy", userQuery(userID), "")
		require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	}

	resp, _ := s.post("/sync/hevy", userQuery(userID), "")
	assert.Equal(t, http.StatusTooEarly, resp.StatusCode)

	// the limit is per user
	resp, _ = s.post("/sync/hevy", userQuery("0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"), "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// and per route
	resp, _ = s.post("/import/health", userQuery(userID), healthExport)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
