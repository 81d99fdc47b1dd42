package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prasetyowira/qrlink/constant"
	appLogger "github.com/prasetyowira/qrlink/infrastructure/logger"
	"github.com/prasetyowira/qrlink/infrastructure/ratelimit"
)

// RateLimit rejects requests whose client IP used up the limiter's
// window allowance. Run it after chi's RealIP middleware so the key is
// the real client address, not a proxy's.
func RateLimit(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			if !limiter.Allow(key) {
				seconds := int(limiter.RetryAfter(key)/time.Second) + 1

				appLogger.CtxWarn(r.Context(), constant.MsgRateLimitExceeded, appLogger.LoggerInfo{
					ContextFunction: constant.CtxRateLimit,
					Error: &appLogger.CustomError{
						Code:    constant.ErrCodeAPIRateLimited,
						Message: constant.MsgRateLimitExceeded,
						Type:    constant.ErrTypeAPI,
					},
					Data: map[string]interface{}{
						constant.DataIP:   key,
						constant.DataPath: r.URL.Path,
					},
				})

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(constant.HeaderRetryAfter, strconv.Itoa(seconds))
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many requests","code":429}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port RemoteAddr usually carries
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
