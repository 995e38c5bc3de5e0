package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/infrastructure/redis"
	"github.com/baechuer/contacts-service/internal/logger"
	"github.com/baechuer/contacts-service/internal/metrics"
)

type RateLimiter interface {
	WindowKey(route, identity string) string
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines one rate-limited route group.
type FixedWindowConfig struct {
	RouteKey string
	Limit    int
	Window   time.Duration
	// TrustForwardedFor keys anonymous clients by the first X-Forwarded-For
	// entry. Leave off unless every request arrives through our own proxy.
	TrustForwardedFor bool
}

func (c FixedWindowConfig) withDefaults() FixedWindowConfig {
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.RouteKey == "" {
		c.RouteKey = "unknown"
	}
	return c
}

// RateLimit uses the shared Redis limiter when one is configured and falls
// back to an in-process httprate limiter keyed by client IP otherwise.
func RateLimit(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if limiter == nil {
		return RateLimitInProcess(cfg, writeErr)
	}
	return RateLimitFixedWindow(limiter, cfg, writeErr)
}

func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.WindowKey(cfg.RouteKey, userOrIP(r, cfg.TrustForwardedFor))

			dec, err := limiter.Allow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				// fail open
				logger.WithCtx(r.Context()).Warn().Err(err).Str("route", cfg.RouteKey).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if dec.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))
			}
			if !dec.Allowed {
				if dec.RetryAfter > 0 {
					w.Header().Set("Retry-After", retryAfterSeconds(dec.RetryAfter))
				}
				metrics.RecordRateLimited(cfg.RouteKey)
				writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitInProcess(cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	cfg = cfg.withDefaults()
	if cfg.Limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return cfg.RouteKey + ":" + userOrIP(r, cfg.TrustForwardedFor), nil
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordRateLimited(cfg.RouteKey)
			writeErr(w, r, domain.ErrRateLimited(cfg.RouteKey))
		}),
	)
}

// retryAfterSeconds rounds up so a sub-second wait never reads as "0".
func retryAfterSeconds(d time.Duration) string {
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}

// userOrIP prefers the authenticated user id; otherwise the client IP.
func userOrIP(r *http.Request, trustXFF bool) string {
	if u, ok := UserFromContext(r.Context()); ok {
		return "u:" + strconv.FormatInt(u.ID, 10)
	}
	return "ip:" + clientIP(r, trustXFF)
}

// clientIP is the peer address, or the first X-Forwarded-For entry when
// trustXFF is set.
func clientIP(r *http.Request, trustXFF bool) string {
	if trustXFF {
		xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
		if xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
