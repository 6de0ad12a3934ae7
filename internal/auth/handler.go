package auth

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/tenmin/investcast/internal/telemetry/metrics"
	"github.com/tenmin/investcast/internal/telemetry/tracing"
	"github.com/tenmin/investcast/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_token"

// devPasswordHash is the bcrypt hash of "admin", used only when no admin
// password hash is configured in a non-production deployment.
const devPasswordHash = "$2b$12$WcLEY7ePIEw9wjUxviUvren7nkrTqNDFby5FJsiQyya5LNafBjOWC"

type HandlerParams struct {
	RateLimiter       *RateLimiter
	Tokens            *TokenService
	AdminPasswordHash string
	Production        bool
	MaxAttempts       int
	AttemptWindow     time.Duration
	Metrics           *metrics.Manager
}

type Handler struct {
	rateLimiter       *RateLimiter
	tokens            *TokenService
	adminPasswordHash string
	production        bool
	maxAttempts       int
	attemptWindow     time.Duration
	metrics           *metrics.Manager
}

func NewHandler(params HandlerParams) *Handler {
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	window := params.AttemptWindow
	if window <= 0 {
		window = DefaultWindow
	}
	return &Handler{
		rateLimiter:       params.RateLimiter,
		tokens:            params.Tokens,
		adminPasswordHash: params.AdminPasswordHash,
		production:        params.Production,
		maxAttempts:       maxAttempts,
		attemptWindow:     window,
		metrics:           params.Metrics,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router, sessionCheck mux.MiddlewareFunc) {
	adminRouter := mainRouter.PathPrefix("/admin").Subrouter()
	adminRouter.
		HandleFunc("/auth", handler.handleAuth).
		Methods("POST", "OPTIONS").Name("admin-auth")
	adminRouter.
		Handle("/logout", sessionCheck(http.HandlerFunc(handler.handleLogout))).
		Methods("POST", "OPTIONS").Name("admin-logout")
}

type authResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	ExpiresIn         string   `json:"expiresIn,omitempty"`
	RemainingAttempts *int     `json:"remainingAttempts,omitempty"`
	ResetTime         string   `json:"resetTime,omitempty"`
	Errors            []string `json:"errors,omitempty"`
}

func (handler *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.auth")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	clientIP := pkg.ReadClientIP(r)
	userAgent := pkg.ReadUserAgent(r)

	limit := handler.rateLimiter.CheckAndConsume(clientIP, handler.maxAttempts, handler.attemptWindow)
	attemptCount := handler.maxAttempts - limit.Remaining

	if !limit.Allowed {
		handler.logAttempt(clientIP, userAgent, false, "rate limit exceeded", attemptCount)
		handler.metrics.CounterAuthAttempts.WithLabelValues("rate_limited").Inc()
		handler.metrics.CounterRateLimitedRequests.Inc()
		span.SetStatus(codes.Error, "rate-limited")

		handler.setRateLimitHeaders(w, 0, limit.ResetAt)
		pkg.SendJSON(w, http.StatusTooManyRequests, authResponse{
			Success:           false,
			Message:           "too many authentication attempts, try again later",
			RemainingAttempts: intPtr(0),
			ResetTime:         limit.ResetAt.UTC().Format(time.RFC3339),
		})
		return
	}

	var authReq authRequest
	if err := json.NewDecoder(r.Body).Decode(&authReq); err != nil {
		handler.logAttempt(clientIP, userAgent, false, "malformed request body", attemptCount)
		handler.metrics.CounterAuthAttempts.WithLabelValues("bad_body").Inc()
		span.SetStatus(codes.Error, "bad-body")

		pkg.SendJSON(w, http.StatusBadRequest, authResponse{
			Success: false,
			Message: "malformed request body",
		})
		return
	}

	if violations := validateAuthRequest(authReq); len(violations) > 0 {
		handler.logAttempt(clientIP, userAgent, false, "invalid input", attemptCount)
		handler.metrics.CounterAuthAttempts.WithLabelValues("invalid_input").Inc()
		span.SetStatus(codes.Error, "invalid-input")

		pkg.SendJSON(w, http.StatusBadRequest, authResponse{
			Success: false,
			Message: "invalid input",
			Errors:  violations,
		})
		return
	}

	passwordHash := handler.adminPasswordHash
	if passwordHash == "" {
		if handler.production {
			handler.logAttempt(clientIP, userAgent, false, "admin password hash not configured", attemptCount)
			handler.metrics.CounterAuthAttempts.WithLabelValues("misconfigured").Inc()
			span.SetStatus(codes.Error, "misconfigured")

			pkg.SendJSON(w, http.StatusInternalServerError, authResponse{
				Success: false,
				Message: "server configuration error",
			})
			return
		}
		log.Warnln("!!! admin password hash not configured, using the development fallback")
		log.Warnln("!!! set INVESTCAST_ADMIN_PASSWORD_HASH before deploying to production")
		passwordHash = devPasswordHash
	}

	if !pkg.CheckPasswordHash(authReq.Password, passwordHash) {
		handler.logAttempt(clientIP, userAgent, false, "invalid password", attemptCount)
		handler.metrics.CounterAuthAttempts.WithLabelValues("wrong_password").Inc()
		span.SetStatus(codes.Error, "wrong-password")

		handler.setRateLimitHeaders(w, limit.Remaining, limit.ResetAt)
		pkg.SendJSON(w, http.StatusUnauthorized, authResponse{
			Success:           false,
			Message:           "wrong password",
			RemainingAttempts: intPtr(limit.Remaining),
			ResetTime:         limit.ResetAt.UTC().Format(time.RFC3339),
		})
		return
	}

	token, err := handler.tokens.Mint(AdminUserID, RoleAdmin)
	if err != nil {
		log.Errorf("auth success but token mint failed: %s", err)
		handler.logAttempt(clientIP, userAgent, false, "token mint failed", attemptCount)
		handler.metrics.CounterAuthAttempts.WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, "mint-failed")

		pkg.SendJSON(w, http.StatusInternalServerError, authResponse{
			Success: false,
			Message: "internal server error",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(TokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	handler.logAttempt(clientIP, userAgent, true, "", attemptCount)
	handler.metrics.CounterAuthAttempts.WithLabelValues("success").Inc()
	span.SetStatus(codes.Ok, "ok")

	pkg.SendJSON(w, http.StatusOK, authResponse{
		Success:   true,
		Message:   "authentication successful",
		ExpiresIn: "24h",
	})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// stateless tokens: logout only clears the client cookie, a captured
	// token stays verifiable until its natural expiry
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	principal, _ := PrincipalFromContext(r.Context())
	log.Printf("logout for [%s] success", principal.UserID)
	span.SetStatus(codes.Ok, "ok")

	pkg.SendJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "logged out",
	})
}

func (handler *Handler) setRateLimitHeaders(w http.ResponseWriter, remaining int, resetAt time.Time) {
	w.Header().Set("X-RateLimit-Limit", intToString(handler.maxAttempts))
	w.Header().Set("X-RateLimit-Remaining", intToString(remaining))
	w.Header().Set("X-RateLimit-Reset", resetAt.UTC().Format(time.RFC3339))
}

// logAttempt emits the single structured audit record for an auth attempt.
// Never logs the password, the hash or the signing secret.
func (handler *Handler) logAttempt(ip, userAgent string, success bool, reason string, attemptCount int) {
	fields := log.Fields{
		"ip":         ip,
		"user_agent": userAgent,
		"success":    success,
		"attempt":    attemptCount,
	}
	if reason != "" {
		fields["reason"] = reason
	}

	entry := log.WithFields(fields)
	if success {
		entry.Info("admin auth attempt")
	} else {
		entry.Warn("admin auth attempt")
	}
}

func intPtr(i int) *int { return &i }

func intToString(i int) string {
	return strconv.Itoa(i)
}
