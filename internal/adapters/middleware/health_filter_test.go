package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheckFilter_Middleware(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                string
		path                string
		logHealthChecks     bool
		expectSkipAccessLog bool
	}{
		{
			name:                "skips health endpoint when logging disabled",
			path:                "/health",
			logHealthChecks:     false,
			expectSkipAccessLog: true,
		},
		{
			name:                "skips readiness endpoint when logging disabled",
			path:                "/health/ready",
			logHealthChecks:     false,
			expectSkipAccessLog: true,
		},
		{
			name:                "skips healthz endpoint when logging disabled",
			path:                "/healthz",
			logHealthChecks:     false,
			expectSkipAccessLog: true,
		},
		{
			name:                "skips readyz endpoint when logging disabled",
			path:                "/readyz",
			logHealthChecks:     false,
			expectSkipAccessLog: true,
		},
		{
			name:                "skips livez endpoint when logging disabled",
			path:                "/livez",
			logHealthChecks:     false,
			expectSkipAccessLog: true,
		},
		{
			name:                "does not skip health endpoint when logging enabled",
			path:                "/health",
			logHealthChecks:     true,
			expectSkipAccessLog: false,
		},
		{
			name:                "does not skip non-health endpoint",
			path:                "/metrics",
			logHealthChecks:     false,
			expectSkipAccessLog: false,
		},
		{
			name:                "does not skip endpoint with health in middle",
			path:                "/health/status",
			logHealthChecks:     false,
			expectSkipAccessLog: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			filter := NewHealthCheckFilter(tc.logHealthChecks)

			contextChecked := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				contextChecked = true

				skipValue := r.Context().Value(skipAccessLogKey)

				if tc.expectSkipAccessLog {
					assert.NotNil(t, skipValue, "context should have skip value")

					if skipValue != nil {
						assert.True(t, skipValue.(bool), "skip value should be true")
					}
				} else {
					if skipValue != nil {
						assert.False(t, skipValue.(bool), "skip value should be false or nil")
					}
				}

				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", tc.path, nil)
			rec := httptest.NewRecorder()

			middleware := filter.Middleware(handler)
			middleware.ServeHTTP(rec, req)

			assert.True(t, contextChecked, "handler should have been called")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestHealthCheckFilter_WithMultipleEndpoints(t *testing.T) {
	t.Parallel()

	filter := NewHealthCheckFilter(false)

	healthEndpoints := []string{
		"/health",
		"/health/ready",
		"/ready",
		"/live",
		"/healthz",
		"/readyz",
		"/livez",
	}

	for _, endpoint := range healthEndpoints {
		t.Run(endpoint, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				skipValue := r.Context().Value(skipAccessLogKey)
				assert.NotNil(t, skipValue, "endpoint %s should be filtered", endpoint)

				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", endpoint, nil)
			rec := httptest.NewRecorder()

			middleware := filter.Middleware(handler)
			middleware.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
