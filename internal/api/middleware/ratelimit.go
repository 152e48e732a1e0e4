package middleware

import (
	"net"
	"net/http"

	"counsel_hub/internal/common"
	"counsel_hub/internal/platform/ratelimit"

	"go.uber.org/zap"
)

// RateLimit throttles per client address. Limiter errors let the request
// through so a Redis outage does not take the API down.
func RateLimit(limiter ratelimit.Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			ok, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("client", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				common.RespondWithError(w, log, common.NewError(common.ErrTooManyRequests, "Too many requests, please try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
