package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"prepsim/internal/common"
)

// RateLimit enforces a sliding-window request cap per client IP using a
// Redis sorted set of request timestamps. When Redis is unreachable the
// middleware fails open: availability beats throttling here.
func RateLimit(rdb *redis.Client, scope string, maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			now := time.Now()
			key := fmt.Sprintf("ratelimit:%s:%s", scope, clientIP(r))
			cutoff := now.Add(-window).UnixMilli()

			pipe := rdb.TxPipeline()
			pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff))
			countCmd := pipe.ZCard(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if countCmd.Val() >= int64(maxRequests) {
				retryAfter := int(window.Seconds())
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				common.RespondWithError(w, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}

			record := rdb.TxPipeline()
			record.ZAdd(ctx, key, redis.Z{
				Score:  float64(now.UnixMilli()),
				Member: fmt.Sprintf("%d-%s", now.UnixNano(), uuid.NewString()[:8]),
			})
			record.Expire(ctx, key, window)
			record.Exec(ctx) // best effort

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP trusts RealIP middleware when present, falling back to the
// socket address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
