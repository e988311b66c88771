package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		userAgent      string
		path           string
		expectCors     bool
		expectedOrigin string
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "https://formcheck.app",
			path:           "/assessment/exercises",
			expectCors:     true,
			expectedOrigin: "https://formcheck.app",
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/assessment/exercises",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "AllowedUserAgent",
			userAgent:      "FormCheck/1.0",
			path:           "/assessment/analyze",
			expectCors:     true,
			expectedOrigin: "*",
		},
		{
			name:           "NotAllowedUserAgent",
			userAgent:      "UnknownAgent/1.0",
			path:           "/assessment/analyze",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "HealthFromAnywhere",
			userAgent:      "kube-probe/1.29",
			path:           "/health",
			expectCors:     true,
			expectedOrigin: "*",
		},
		{
			name:           "MCPWithoutOrigin",
			path:           "/mcp",
			expectCors:     true,
			expectedOrigin: "*",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest("GET", tc.path, nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("User-Agent", tc.userAgent)

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			handler := Cors()(nextHandler)

			handler.ServeHTTP(rr, req)

			if tc.expectCors {
				assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, http.StatusOK, rr.Code)
			} else {
				assert.Equal(t, tc.expectedStatus, rr.Code, "Unexpected status code")
			}
		})
	}
}
