package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tenmin/investcast/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("test-signing-secret")
	require.NoError(t, err)
	return tokens
}

func TestSessionCheck(t *testing.T) {
	tokens := newTestTokens(t)
	validToken, err := tokens.Mint(auth.AdminUserID, auth.RoleAdmin)
	require.NoError(t, err)

	sessionHandler := NewSessionHandler(tokens)

	testCases := []struct {
		name               string
		authHeader         string
		cookieValue        string
		expectedStatusCode int
		expectPrincipal    bool
	}{
		{
			name:               "missing token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "valid bearer token",
			authHeader:         "Bearer " + validToken,
			expectedStatusCode: http.StatusOK,
			expectPrincipal:    true,
		},
		{
			name:               "valid cookie token",
			cookieValue:        validToken,
			expectedStatusCode: http.StatusOK,
			expectPrincipal:    true,
		},
		{
			name:               "garbage bearer token",
			authHeader:         "Bearer not.a.token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "non bearer auth header and no cookie",
			authHeader:         validToken,
			expectedStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/podcasts", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			if tc.cookieValue != "" {
				req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: tc.cookieValue})
			}

			var gotPrincipal *auth.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if p, ok := auth.PrincipalFromContext(r.Context()); ok {
					gotPrincipal = &p
				}
			})

			rr := httptest.NewRecorder()
			sessionHandler.SessionCheck()(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectPrincipal {
				require.NotNil(t, gotPrincipal)
				assert.Equal(t, "admin", gotPrincipal.UserID)
				assert.Equal(t, "admin", gotPrincipal.Role)
			} else {
				assert.Nil(t, gotPrincipal)
			}
		})
	}
}

func TestSessionCheck_ExpiredToken(t *testing.T) {
	now := time.Now()
	tokens := newTestTokens(t)
	tokens.NowFunc = func() time.Time { return now }

	token, err := tokens.Mint(auth.AdminUserID, auth.RoleAdmin)
	require.NoError(t, err)

	// simulate the clock moving past the 24h expiry
	now = now.Add(auth.TokenTTL + time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/podcasts", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	NewSessionHandler(tokens).SessionCheck()(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// no principal in context
	req := httptest.NewRequest(http.MethodGet, "/podcasts", nil)
	rr := httptest.NewRecorder()
	RequireRole("admin")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// wrong role
	req = httptest.NewRequest(http.MethodGet, "/podcasts", nil)
	req = req.WithContext(auth.NewContextWithPrincipal(req.Context(), auth.Principal{
		UserID: "admin",
		Role:   "viewer",
	}))
	rr = httptest.NewRecorder()
	RequireRole("admin")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// matching role
	req = httptest.NewRequest(http.MethodGet, "/podcasts", nil)
	req = req.WithContext(auth.NewContextWithPrincipal(req.Context(), auth.Principal{
		UserID: "admin",
		Role:   "admin",
	}))
	rr = httptest.NewRecorder()
	RequireRole("admin")(next).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
