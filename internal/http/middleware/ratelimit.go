package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"whispermap/internal/logging"
)

// RateLimit allows limit requests per client IP in each window. Over the
// limit the client gets a 429 with message as the JSON error.
func RateLimit(limit int, window time.Duration, message string) func(http.Handler) http.Handler {
	body := []byte(`{"error":` + quote(message) + `}`)

	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Warn().Str("ip", r.RemoteAddr).Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write(body)
		}),
	)
}
