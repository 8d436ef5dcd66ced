package middleware

import "github.com/gin-gonic/gin"

// CookieParser exposes the request cookies as a name to value map under
// CookiesKey. The first cookie wins when a name repeats.
func CookieParser() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookies := make(map[string]string)
		for _, ck := range c.Request.Cookies() {
			if _, seen := cookies[ck.Name]; !seen {
				cookies[ck.Name] = ck.Value
			}
		}
		c.Set(CookiesKey, cookies)
		c.Next()
	}
}

func Cookies(c *gin.Context) map[string]string {
	v, ok := c.Get(CookiesKey)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]string)
	return m
}
