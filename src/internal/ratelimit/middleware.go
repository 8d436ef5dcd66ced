package ratelimit

import (
	"strconv"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// KeyFunc picks the counter a request is charged to.
type KeyFunc func(c *gin.Context) string

// Middleware enforces the limiter and reports the budget in the draft
// RateLimit-* headers. Counter store failures are raised to the error
// handler unless the limiter is configured to fail open. m may be nil.
func Middleware(l *Limiter, key KeyFunc, m *metrics.HTTP) gin.HandlerFunc {
	policy := strconv.FormatInt(l.cfg.Max, 10) + ";w=" + strconv.FormatInt(int64(l.cfg.Window.Seconds()), 10)

	return func(c *gin.Context) {
		k := key(c)

		res, err := l.Allow(c.Request.Context(), k)
		if err != nil {
			if l.cfg.FailOpen {
				logrus.WithError(err).WithField("key", k).Error("Rate limit store unavailable, allowing request")
				c.Next()
				return
			}
			_ = c.Error(err)
			c.Abort()
			return
		}

		reset := strconv.FormatInt(l.resetSeconds(res), 10)
		h := c.Writer.Header()
		h.Set("RateLimit-Policy", policy)
		h.Set("RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		h.Set("RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		h.Set("RateLimit-Reset", reset)

		if !res.Allowed {
			logrus.WithField("key", k).Debug("Rate limit exceeded")
			m.RateLimited()
			h.Set("Retry-After", reset)
			apperr.Respond(c, apperr.TooManyRequests(l.cfg.Message))
			return
		}

		c.Next()
	}
}
