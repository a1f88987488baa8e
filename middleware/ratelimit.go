package middleware

import (
	"context"

	"github.com/Piyush-gour/legal-sathi/apperror"
	"github.com/Piyush-gour/legal-sathi/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Allower is implemented by redis.Limiter.
type Allower interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles requests per client IP within scope. Limiter errors
// let the request through.
func RateLimit(limiter Allower, scope string, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		ok, err := limiter.Allow(c.UserContext(), scope+":"+c.IP())
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("rate limiter unavailable, allowing request")
			return c.Next()
		}
		if !ok {
			metrics.RateLimited.WithLabelValues(scope).Inc()
			return apperror.New(apperror.KindRateLimited, "too many requests, try again later")
		}
		return c.Next()
	}
}
