package middleware

import (
	"net/http"
	"time"
)

// HTTPRecorder records served requests.
type HTTPRecorder interface {
	RecordHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// Instrument records every request under a fixed route label, keeping the
// label set bounded regardless of the request path. A nil recorder disables it.
func Instrument(recorder HTTPRecorder, route string) Middleware {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			recorder.RecordHTTPRequest(r.Method, route, rec.status, time.Since(started))
		})
	}
}
