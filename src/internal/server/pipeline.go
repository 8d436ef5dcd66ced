package server

import (
	"os"

	"employee-review-svc/src/internal/dependency"
	"employee-review-svc/src/internal/middleware"
	"employee-review-svc/src/internal/ratelimit"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Stage is one named step of the request pipeline.
type Stage struct {
	Name     string
	Handlers []gin.HandlerFunc
}

func stage(name string, handlers ...gin.HandlerFunc) Stage {
	return Stage{Name: name, Handlers: handlers}
}

// Pipeline lists the global stages in the order they run. The error
// handler is terminal in behaviour but registered first so that it wraps
// every later stage and the route handlers.
func Pipeline(deps *dependency.Manager) []Stage {
	cfg := deps.Config

	stages := []Stage{
		stage("error-handler", middleware.ErrorHandler()),
		stage("session", deps.Sessions.Middleware()),
		stage("static", static.Serve("/", publicFiles(cfg.Server.PublicDir))),
		stage("body-parser", middleware.BodyParser(cfg.Server.BodyLimit)),
		stage("cookie-parser", middleware.CookieParser()),
		stage("security-headers", middleware.SecurityHeaders(cfg.Security.AllowedOrigins, cfg.Server.TrustedHops > 0)...),
		stage("compression", gzip.Gzip(gzip.DefaultCompression)),
		stage("proxy-trust", middleware.ProxyTrust(cfg.Server.TrustedHops)),
	}

	if cfg.RateLimit.Enabled && deps.RateLimiter != nil {
		stages = append(stages, stage("rate-limit", ratelimit.Middleware(deps.RateLimiter, clientKey, deps.Metrics)))
	}

	return append(stages,
		stage("templates", middleware.ViewData(cfg.App.Name, cfg.App.Version)),
		stage("last-visit", middleware.LastVisit(cfg.LastVisit.CookieName, cfg.LastVisit.MaxAge, nil)),
		stage("request-logger", middleware.RequestLogger(deps.Metrics)),
	)
}

func clientKey(c *gin.Context) string {
	return "ip:" + middleware.ClientIP(c)
}

// publicFiles serves dir from disk when it exists, the embedded assets
// otherwise.
func publicFiles(dir string) static.ServeFileSystem {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return static.LocalFile(dir, false)
		}
		log.WithField("dir", dir).Warn("Public directory not found, serving embedded assets")
	}
	return embeddedFiles()
}
