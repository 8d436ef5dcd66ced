package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

const contentSecurityPolicy = "default-src 'self';base-uri 'self';font-src 'self' https: data:;" +
	"form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';" +
	"script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';" +
	"upgrade-insecure-requests"

// SecurityHeaders returns the header stage. CORS is added only when
// allowed origins are configured. X-Forwarded-Proto counts towards HSTS
// only when trustProxy is set.
func SecurityHeaders(allowedOrigins []string, trustProxy bool) []gin.HandlerFunc {
	var sslProxyHeaders map[string]string
	if trustProxy {
		sslProxyHeaders = map[string]string{"X-Forwarded-Proto": "https"}
	}

	handlers := []gin.HandlerFunc{
		secure.New(secure.Config{
			STSSeconds:            15552000,
			STSIncludeSubdomains:  true,
			FrameDeny:             true,
			ContentTypeNosniff:    true,
			BrowserXssFilter:      true,
			ContentSecurityPolicy: contentSecurityPolicy,
			ReferrerPolicy:        "no-referrer",
			IENoOpen:              true,
			SSLProxyHeaders:       sslProxyHeaders,
		}),
		extraSecurityHeaders,
	}

	if len(allowedOrigins) > 0 {
		handlers = append(handlers, cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	return handlers
}

func extraSecurityHeaders(c *gin.Context) {
	h := c.Writer.Header()
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Resource-Policy", "same-origin")
	h.Set("Origin-Agent-Cluster", "?1")
	h.Set("X-DNS-Prefetch-Control", "off")
	h.Set("X-Permitted-Cross-Domain-Policies", "none")
	h.Del("X-Powered-By")
	c.Next()
}
