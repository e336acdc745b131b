package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"verbum/internal/httputil"
)

// RequestID attaches a request id to each request's context and logs the
// request outcome.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set("X-Request-ID", requestID)
			r = httputil.WithRequestID(r, requestID)

			start := time.Now()
			next.ServeHTTP(w, r)

			logger.Debug("request handled",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
