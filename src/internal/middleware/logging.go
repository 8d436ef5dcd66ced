package middleware

import (
	"time"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every request once it has been handled and feeds the
// HTTP collectors. m may be nil.
func RequestLogger(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		// Errors are rendered further out, after this stage returns.
		if last := c.Errors.Last(); last != nil && !c.Writer.Written() {
			status = apperr.From(last.Err).Status
		}

		m.Observe(c.Request.Method, c.FullPath(), status, elapsed)

		entry := logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     status,
			"latency":    elapsed.String(),
			"client_ip":  ClientIP(c),
			"user_agent": c.Request.UserAgent(),
		})
		if name := c.GetString(RouteNameKey); name != "" {
			entry = entry.WithField("route_name", name)
		}

		switch {
		case status >= 500:
			entry.Error("Request completed")
		case status >= 400:
			entry.Warn("Request completed")
		default:
			entry.Info("Request completed")
		}
	}
}

// RouteName tags the request for the request log.
func RouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(RouteNameKey, name)
		c.Next()
	}
}
