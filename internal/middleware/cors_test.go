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
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "https://investcast.online",
			path:           "/admin/auth",
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/admin/auth",
			expectCors:     false,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "CurlAllowed",
			userAgent:      "curl/8.0",
			path:           "/admin/auth",
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "PublicCatalogFromAnywhere",
			origin:         "https://www.notallowed.com",
			path:           "/podcasts",
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "AudioFilesFromAnywhere",
			origin:         "https://www.notallowed.com",
			path:           "/audio/episode-42.mp3",
			expectCors:     true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "UnknownAgentUnknownPath",
			userAgent:      "unknown-agent",
			path:           "/unknown/path",
			expectCors:     false,
			expectedStatus: http.StatusForbidden,
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
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Equal(t, tc.expectedStatus, rr.Code, "Unexpected status code")
			}
		})
	}
}
