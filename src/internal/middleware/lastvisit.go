package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LastVisit exposes the previous visit time from cookieName under
// LastVisitKey and stamps the cookie with the current time for the next
// request.
func LastVisit(cookieName string, maxAge time.Duration, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		if prev, err := c.Cookie(cookieName); err == nil && prev != "" {
			c.Set(LastVisitKey, prev)
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     cookieName,
			Value:    now().UTC().Format(time.RFC3339Nano),
			Path:     "/",
			MaxAge:   int(maxAge / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		c.Next()
	}
}
