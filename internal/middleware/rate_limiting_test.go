package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/fitsync/internal/middleware"
	"github.com/2beens/fitsync/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const testUserID = "5b0c2a4e-8f5a-4d7e-9a57-0f3c2b1d9e11"

func TestRateLimitKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/sync/hevy?user_id="+testUserID, nil)
	assert.Equal(t, "sync-hevy::"+testUserID, middleware.RateLimitKey("sync-hevy", req))

	req = httptest.NewRequest(http.MethodPost, "/sync/hevy", nil)
	assert.Equal(t, "sync-hevy", middleware.RateLimitKey("sync-hevy", req))
}

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name             string
		result           *redis_rate.Result
		err              error
		expectedStatus   int
		expectNextCalled bool
		expectLimited    float64
	}{
		{
			name:             "allowed",
			result:           &redis_rate.Result{Allowed: 1, Remaining: 5},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		{
			name:           "limited",
			result:         &redis_rate.Result{Allowed: 0, RetryAfter: 7 * time.Second},
			expectedStatus: http.StatusTooEarly,
			expectLimited:  1,
		},
		{
			name:           "limiter error",
			err:            errors.New("redis down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			limiter := NewMockRequestRateLimiter(ctrl)
			metricsManager := metrics.NewTestManager()

			limiter.EXPECT().
				Allow(gomock.Any(), "sync-hevy::"+testUserID, redis_rate.PerMinute(6)).
				Return(tc.result, tc.err)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/sync/hevy?user_id="+testUserID, nil)
			middleware.RateLimit(limiter, "sync-hevy", 6, metricsManager)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
			assert.Equal(t, tc.expectLimited, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
		})
	}
}

func TestRateLimit_OptionsBypassesLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := NewMockRequestRateLimiter(ctrl)

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/sync/hevy", nil)
	middleware.RateLimit(limiter, "sync-hevy", 6, nil)(next).ServeHTTP(rr, req)

	assert.True(t, nextCalled)
}
