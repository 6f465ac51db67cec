package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/ticketflow/internal/infrastructure/ratelimit"
	"github.com/orris-inc/ticketflow/internal/shared/constants"
	"github.com/orris-inc/ticketflow/internal/shared/errors"
	"github.com/orris-inc/ticketflow/internal/shared/logger"
	"github.com/orris-inc/ticketflow/internal/shared/utils"
)

// RateLimitMiddleware limits write requests per authenticated actor, falling
// back to the client IP. Limiter errors fail open.
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	limit   ratelimit.Limit
	logger  logger.Interface
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, limit ratelimit.Limit, logger logger.Interface) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
		logger:  logger,
	}
}

// PerActor returns a handler counting requests under scope. A nil middleware
// passes everything through, so routes can be wired unconditionally.
func (m *RateLimitMiddleware) PerActor(scope string) gin.HandlerFunc {
	if m == nil || m.limiter == nil || !m.limit.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		subject := c.GetString(constants.ContextKeyUserID)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := scope + ":" + subject

		allowed, err := m.limiter.Allow(c.Request.Context(), key, m.limit)
		if err != nil {
			m.logger.Warnw("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !allowed {
			m.logger.Infow("request rate limited", "scope", scope, "subject", subject)
			utils.ErrorResponseWithError(c, errors.NewRateLimitedError("too many requests", scope))
			c.Abort()
			return
		}

		c.Next()
	}
}
