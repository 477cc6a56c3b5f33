package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/zebraboard/zebra-board-api/internal/config"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// RateLimitConfig holds rate limiting configuration for one endpoint
// group.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Logger   *slog.Logger
}

// RateLimit creates an IP-based fixed-window rate limiter. Exceeding
// the budget returns a uniform 429 without executing the flow.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return httprate.Limit(
		cfg.Requests,
		cfg.Window,
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Logger != nil {
				cfg.Logger.Warn("rate limit exceeded",
					"ip", r.RemoteAddr,
					"path", r.URL.Path,
					"method", r.Method,
				)
			}
			httputil.Error(w, http.StatusTooManyRequests, string(domain.KindRateLimited), "too many requests, please try again later")
		}),
	)
}

// NoRateLimit returns a no-op middleware when rate limiting is disabled.
func NoRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return next
	}
}

// CreateRateLimiters builds the per-group limiter middleware from
// configuration. Groups: "auth" (register/login), "verify"
// (verification attempts), "poll" (verification status).
func CreateRateLimiters(cfg config.RateLimitConfig, logger *slog.Logger) map[string]func(http.Handler) http.Handler {
	if !cfg.Enabled {
		noOp := NoRateLimit()
		return map[string]func(http.Handler) http.Handler{
			"auth":   noOp,
			"verify": noOp,
			"poll":   noOp,
		}
	}

	return map[string]func(http.Handler) http.Handler{
		"auth": RateLimit(RateLimitConfig{
			Requests: cfg.AuthRequests,
			Window:   cfg.AuthWindow,
			Logger:   logger,
		}),
		"verify": RateLimit(RateLimitConfig{
			Requests: cfg.VerifyRequests,
			Window:   cfg.VerifyWindow,
			Logger:   logger,
		}),
		"poll": RateLimit(RateLimitConfig{
			Requests: cfg.PollRequests,
			Window:   cfg.PollWindow,
			Logger:   logger,
		}),
	}
}
