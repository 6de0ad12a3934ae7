package middleware

import (
	"net/http"
	"strings"

	"github.com/tenmin/investcast/internal/auth"
	"github.com/tenmin/investcast/internal/telemetry/tracing"
	"github.com/tenmin/investcast/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// SessionHandler guards admin-only routes: it validates the session token
// from the Authorization header (or the session cookie) and attaches the
// decoded principal to the request context.
type SessionHandler struct {
	tokens tokenVerifier
}

func NewSessionHandler(tokens tokenVerifier) *SessionHandler {
	return &SessionHandler{tokens: tokens}
}

type sessionErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *SessionHandler) SessionCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.session")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			token := extractToken(r)
			if token == "" {
				log.Tracef("[missing token] [session middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "missing-token")
				pkg.SendJSON(w, http.StatusUnauthorized, sessionErrorResponse{
					Message: "authentication token required",
				})
				return
			}

			claims, err := h.tokens.Verify(token)
			if err != nil {
				log.Tracef("[invalid token] [session middleware] unauthorized => %s", r.URL.Path)
				span.SetStatus(codes.Error, "invalid-token")
				pkg.SendJSON(w, http.StatusUnauthorized, sessionErrorResponse{
					Message: "invalid or expired token",
				})
				return
			}

			ctx = auth.NewContextWithPrincipal(ctx, auth.Principal{
				UserID: claims.UserID,
				Role:   claims.Role,
			})

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose principal does not carry
// the required role. Must run after SessionCheck.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := auth.PrincipalFromContext(r.Context())
			if !ok {
				pkg.SendJSON(w, http.StatusUnauthorized, sessionErrorResponse{
					Message: "authentication required",
				})
				return
			}
			if principal.Role != role {
				log.Warnf("[role mismatch] principal %s with role %s => %s", principal.UserID, principal.Role, r.URL.Path)
				pkg.SendJSON(w, http.StatusForbidden, sessionErrorResponse{
					Message: "access denied",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
