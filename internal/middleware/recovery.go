package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/tenmin/investcast/internal/telemetry/metrics"
	"github.com/tenmin/investcast/pkg"

	log "github.com/sirupsen/logrus"
)

type panicResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PanicRecovery keeps a handler panic from killing the process: it logs the
// stack, bumps the panic counter and answers 500 so the admin frontend gets
// a JSON error instead of a dropped connection.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					// best effort, the handler may have written headers already
					pkg.SendJSON(respWriter, http.StatusInternalServerError, panicResponse{
						Message: "internal server error",
					})
				}
			}()

			// handler call
			next.ServeHTTP(respWriter, req)
		})
	}
}
