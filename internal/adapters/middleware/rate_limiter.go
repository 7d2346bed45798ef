package middleware

import (
	"net/http"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/architeacher/svc-health-gate/internal/infrastructure"
	"github.com/throttled/throttled/v2"
	"github.com/throttled/throttled/v2/store/memstore"
)

type ThrottledRateLimitingMiddleware struct {
	cfg         config.ThrottledRateLimitingConfig
	logger      infrastructure.Logger
	httpLimiter *throttled.HTTPRateLimiter
}

func NewThrottledRateLimitingMiddleware(
	cfg config.ThrottledRateLimitingConfig,
	logger infrastructure.Logger,
) *ThrottledRateLimitingMiddleware {
	store, err := memstore.New(cfg.MaxKeys)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create rate limiting store")
	}

	quota := throttled.RateQuota{
		MaxRate:  throttled.PerSec(cfg.RequestsPerSecond),
		MaxBurst: cfg.BurstSize,
	}

	rateLimiter, err := throttled.NewGCRARateLimiter(store, quota)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create rate limiter")
	}

	return &ThrottledRateLimitingMiddleware{
		cfg:    cfg,
		logger: logger,
		httpLimiter: &throttled.HTTPRateLimiter{
			RateLimiter: rateLimiter,
			VaryBy:      &throttled.VaryBy{RemoteAddr: true},
			DeniedHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.Warn().
					Str("remote_addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			}),
		},
	}
}

func (t *ThrottledRateLimitingMiddleware) Middleware(next http.Handler) http.Handler {
	limited := t.httpLimiter.RateLimit(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, path := range t.cfg.SkipPaths {
			if r.URL.Path == path {
				next.ServeHTTP(w, r)

				return
			}
		}

		limited.ServeHTTP(w, r)
	})
}
