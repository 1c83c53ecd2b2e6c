package ratelimiter

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

// KeyFunc extracts the rate-limit key from a request.
type KeyFunc func(r *http.Request) string

// ClientIPKey keys the limit on the request's remote address.
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects over-budget requests with 429. Limiter errors (e.g.
// redis unavailable) fail open: a scan endpoint that stops verifying pickups
// because the limiter store is down hurts more than a briefly unthrottled one.
func Middleware(limiter *Limiter, keyFn KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = ClientIPKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				log.WarnContext(r.Context(), "rate limiter unavailable, failing open",
					slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if !res.Allowed {
				retryAfter := max(int(time.Until(res.ResetAt).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "too many attempts, slow down", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
