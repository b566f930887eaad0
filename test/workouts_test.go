//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/fitsync/internal/analytics"
	"github.com/2beens/fitsync/internal/api"
	"github.com/2beens/fitsync/internal/syncer"
	"github.com/2beens/fitsync/internal/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const healthExport = `{
  "data": {
    "metrics": [
      {"name": "step_count", "units": "count", "data": [
        {"date": "2025-06-01 00:00:00 -0400", "qty": 8123, "source": "iPhone"}
      ]},
      {"name": "weight_body_mass", "units": "lb", "data": [
        {"date": "2025-06-01 07:12:00 -0400", "qty": 181.4}
      ]}
    ],
    "workouts": [
      {
        "id": "AH-IT-1",
        "name": "Traditional Strength Training",
        "start": "2025-06-01 13:00:00 -0400",
        "end": "2025-06-01 14:01:00 -0400",
        "activeEnergyBurned": {"qty": 412.3, "units": "kcal"},
        "heartRateData": [
          {"date": "2025-06-01 13:01:00 -0400", "Min": 90, "Max": 120, "Avg": 110, "units": "count/min"}
        ]
      }
    ]
  }
}`

func (s *IntegrationTestSuite) get(path string, query url.Values) (*http.Response, []byte) {
	target := serverEndpoint + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, target, nil)
	s.Require().NoError(err)
	return s.do(req)
}

func (s *IntegrationTestSuite) post(path string, query url.Values, body string) (*http.Response, []byte) {
	target := serverEndpoint + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, target, strings.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *IntegrationTestSuite) do(req *http.Request) (*http.Response, []byte) {
	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, body
}

func userQuery(userID string) url.Values {
	return url.Values{"user_id": []string{userID}}
}

func (s *IntegrationTestSuite) TestRootAndVersion() {
	t := s.T()

	resp, body := s.get("/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fitsync", string(body))

	resp, body = s.get("/version", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "test-version-info", string(body))

	resp, _ = s.get("/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestImportHealthAndListWorkouts() {
	t := s.T()
	userID := "3c0d5b7a-1e2f-4a6b-9c8d-7e6f5a4b3c21"

	for i := 0; i < 2; i++ {
		resp, body := s.post("/import/health", userQuery(userID), healthExport)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

		var result syncer.HealthImportResult
		require.NoError(t, json.Unmarshal(body, &result))
		assert.Equal(t, 1, result.DailyMetrics)
		require.NotNil(t, result.Workouts)
		assert.Equal(t, 1, result.Workouts.Saved)
		assert.Equal(t, workout.SourceAppleHealth, result.Workouts.Source)
	}

	// re-importing the same export does not duplicate the workout
	var rows int
	err := s.DB.QueryRow(
		context.Background(),
		`SELECT count(*) FROM workout_cache WHERE user_id = $1`,
		userID,
	).Scan(&rows)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	query := userQuery(userID)
	query.Set("from", "2025-06-01")
	query.Set("to", "2025-06-01")
	resp, body := s.get("/workouts", query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var listed api.ListWorkoutsResponse
	require.NoError(t, json.Unmarshal(body, &listed))
	require.Equal(t, 1, listed.Total)
	w := listed.Workouts[0]
	assert.Equal(t, "AH-IT-1", w.ExternalID)
	assert.Equal(t, workout.SourceAppleHealth, w.Source)
	assert.Equal(t, "Traditional Strength Training", w.Title)
	assert.Equal(t, 61, w.DurationMinutes)

	query.Set("from", "2025-06-02")
	query.Del("to")
	resp, body = s.get("/workouts", query)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Equal(t, 0, listed.Total)
	assert.NotNil(t, listed.Workouts)

	resp, body = s.get("/sync/status", url.Values{
		"user_id": []string{userID},
		"source":  []string{string(workout.SourceAppleHealth)},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var status syncer.Result
	require.NoError(t, json.Unmarshal(body, &status))
	assert.Equal(t, 1, status.Saved)
	assert.Empty(t, status.Error)

	query = userQuery(userID)
	query.Set("days", "3650")
	resp, body = s.get("/analytics/frequency", query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var freq analytics.FrequencyReport
	require.NoError(t, json.Unmarshal(body, &freq))
	assert.Equal(t, 3650, freq.PeriodDays)
	assert.Equal(t, 1, freq.TotalWorkouts)

	resp, body = s.get("/analytics/overview", query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var overview analytics.Overview
	require.NoError(t, json.Unmarshal(body, &overview))
	require.NotNil(t, overview.Frequency)
	require.NotNil(t, overview.Balance)

	query.Set("metrics", "steps,weight_lbs")
	resp, body = s.get("/health/metrics", query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var health analytics.HealthMetricsReport
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, 1, health.DaysAnalyzed)
	assert.Equal(t, []string{"steps", "weight_lbs"}, health.Metrics)
	assert.InDelta(t, 8123, health.Averages["steps"], 0.001)
	assert.InDelta(t, 181.4, health.Averages["weight_lbs"], 0.001)
	require.Len(t, health.RecentTrend, 1)
	assert.Equal(t, "2025-06-01", health.RecentTrend[0].Date)
}

func (s *IntegrationTestSuite) TestImportHealth_InvalidExport() {
	t := s.T()
	userID := "9e8d7c6b-5a49-4382-9170-6f5e4d3c2b1a"

	resp, body := s.post("/import/health", userQuery(userID), `{"foo": 1}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "'data' key not found")

	resp, _ = s.post("/import/health", userQuery("not-a-uuid"), healthExport)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestAnalytics_Validation() {
	t := s.T()

	resp, body := s.get("/analytics/progression", userQuery(testUserID))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "exercise not set")

	resp, _ = s.get("/analytics/frequency", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	query := userQuery(testUserID)
	query.Set("days", "-3")
	resp, _ = s.get("/analytics/frequency", query)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	query = userQuery(testUserID)
	query.Set("exercise", "Bench Press (Barbell)")
	resp, body = s.get("/analytics/plateau", query)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var plateau analytics.PlateauReport
	require.NoError(t, json.Unmarshal(body, &plateau))
}

func (s *IntegrationTestSuite) TestCors() {
	t := s.T()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, serverEndpoint+"/version", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, _ := s.do(req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequestWithContext(context.Background(), http.MethodGet, serverEndpoint+"/version", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example")
	resp, _ = s.do(req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
