package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/formcheck/internal/middleware"
	"github.com/2beens/formcheck/internal/telemetry/metrics"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name           string
		result         *redis_rate.Result
		err            error
		expectedStatus int
		expectedLimits float64
	}{
		{
			name:           "Allowed",
			result:         &redis_rate.Result{Allowed: 1, Remaining: 9},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Limited",
			result:         &redis_rate.Result{Allowed: 0, RetryAfter: 2 * time.Second},
			expectedStatus: http.StatusTooManyRequests,
			expectedLimits: 1,
		},
		{
			name:           "LimiterError",
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
				Allow(gomock.Any(), "analyze:83.12.53.65", redis_rate.PerMinute(10)).
				Return(tc.result, tc.err)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			handler := middleware.RateLimit(limiter, metricsManager, "analyze", 10)(next)

			req := httptest.NewRequest(http.MethodPost, "/assessment/analyze", nil)
			req.RemoteAddr = "83.12.53.65:41000"
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedLimits, testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
		})
	}
}
