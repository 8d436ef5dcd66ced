package middleware

import (
	"fmt"

	"employee-review-svc/src/internal/apperr"
	"employee-review-svc/src/internal/models"

	"github.com/gin-gonic/gin"
)

// NotFound is installed as the engine's NoRoute handler.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		msg := fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path)
		_ = c.Error(apperr.NotFound(msg, models.ErrRouteNotFound))
		c.Abort()
	}
}
