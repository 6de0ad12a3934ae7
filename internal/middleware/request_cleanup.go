package middleware

import (
	"io"
	"net/http"
)

// maxDrainBytes caps how much of an unread body gets drained before close.
// Keeps connections reusable for small bodies (auth and catalog JSON) without
// reading an aborted multi-megabyte audio upload to the end.
const maxDrainBytes = 64 << 10

// DrainAndCloseRequest drains up to maxDrainBytes of the remaining request
// body and closes it after the handler is done.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.CopyN(io.Discard, r.Body, maxDrainBytes)
				_ = r.Body.Close()
			}
		})
	}
}
