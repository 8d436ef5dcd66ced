package server

import (
	"net/http"
	"time"

	"employee-review-svc/src/internal/dependency"
	"employee-review-svc/src/internal/employee"
	"employee-review-svc/src/internal/middleware"
	"employee-review-svc/src/web"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.SetHTMLTemplate(web.Templates())

	for _, s := range Pipeline(deps) {
		router.Use(s.Handlers...)
	}

	setupHealthEndpoint(deps)
	setupPublicRoutes(router)
	setupAuthRoutes(router, deps)
	setupEmployeeRoutes(router, deps)
	setupReviewRoutes(router, deps)

	router.NoRoute(middleware.NotFound())
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	cfg := deps.Config

	router.GET("/health", middleware.RouteName("health"), func(c *gin.Context) {
		ctx := c.Request.Context()

		mongoStatus := "disabled"
		if deps.Mongodb != nil {
			mongoStatus = "ok"
			if err := deps.Mongodb.Client.Ping(ctx, nil); err != nil {
				mongoStatus = "error: " + err.Error()
			}
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "ok"
			if err := deps.Redis.Client.Ping(ctx).Err(); err != nil {
				redisStatus = "error: " + err.Error()
			}
		}

		status, code := "ok", http.StatusOK
		if mongoStatus != "ok" && mongoStatus != "disabled" {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", middleware.RouteName("metrics"), gin.WrapH(deps.Metrics.Handler()))
	}
}

func setupPublicRoutes(router *gin.Engine) {
	router.GET("/", middleware.RouteName("landing"), func(c *gin.Context) {
		c.HTML(http.StatusOK, "landing.html", middleware.View(c, gin.H{"Title": "Welcome"}))
	})
}

func setupAuthRoutes(router *gin.Engine, deps *dependency.Manager) {
	h := deps.AuthHandler

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", middleware.RouteName("register"), h.Register)
		auth.POST("/login", middleware.RouteName("login"), h.Login)
		auth.POST("/logout", middleware.RouteName("logout"), h.Logout)
		auth.GET("/me",
			middleware.RouteName("me"),
			middleware.RequireSession(),
			h.Me)
	}
}

func setupEmployeeRoutes(router *gin.Engine, deps *dependency.Manager) {
	h := deps.EmployeeHandler

	employees := router.Group("/api/v1/employee", middleware.RequireSession())
	{
		employees.GET("", middleware.RouteName("listEmployees"), h.List)
		employees.GET("/:id", middleware.RouteName("getEmployee"), h.Get)
		employees.POST("",
			middleware.RouteName("createEmployee"),
			middleware.RequireRole(employee.RoleAdmin),
			h.Create)
		employees.DELETE("/:id",
			middleware.RouteName("deleteEmployee"),
			middleware.RequireRole(employee.RoleAdmin),
			h.Delete)
	}
}

func setupReviewRoutes(router *gin.Engine, deps *dependency.Manager) {
	h := deps.ReviewHandler

	reviews := router.Group("/api/v1/review", middleware.RequireSession())
	{
		reviews.POST("", middleware.RouteName("createReview"), h.Create)
		reviews.GET("", middleware.RouteName("listReviews"), h.List)
		reviews.GET("/:id", middleware.RouteName("getReview"), h.Get)
	}
}
