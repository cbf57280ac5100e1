package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorsMiddleware(t *testing.T) {
	allowedOrigins := []string{"https://newsroom.rw", "http://localhost:5173/"}

	testCases := []struct {
		name           string
		origin         string
		method         string
		expectCors     bool
		expectNext     bool
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "https://newsroom.rw",
			method:         "GET",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "AllowedOriginConfiguredWithTrailingSlash",
			origin:         "http://localhost:5173",
			method:         "POST",
			expectCors:     true,
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			method:         "GET",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "NoOrigin",
			method:         "GET",
			expectNext:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Preflight",
			origin:         "https://newsroom.rw",
			method:         "OPTIONS",
			expectCors:     true,
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest(tc.method, "/news", nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}

			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			Cors(allowedOrigins)(nextHandler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectNext, nextCalled)
			if tc.expectCors {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
				assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), "X-Session-Id")
			} else {
				assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
