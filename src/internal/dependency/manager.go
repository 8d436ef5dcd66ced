package dependency

import (
	"context"
	"fmt"

	"employee-review-svc/src/clients"
	"employee-review-svc/src/internal/auth"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/employee"
	"employee-review-svc/src/internal/metrics"
	"employee-review-svc/src/internal/ratelimit"
	"employee-review-svc/src/internal/review"
	"employee-review-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Manager struct {
	Router          *gin.Engine
	Config          *config.Configuration
	Mongodb         *clients.MongoDB
	Redis           *clients.RedisClient
	RabbitMQ        *clients.RabbitMQ
	Sessions        *session.Manager
	RateLimiter     *ratelimit.Limiter
	Metrics         *metrics.HTTP
	EmployeeService employee.Service
	EmployeeHandler employee.Handler
	ReviewHandler   review.Handler
	AuthHandler     auth.Handler
}

// NewDependencyManager builds stores, services and handlers on top of the
// connected clients. redisClient and rabbitMQ may be nil.
func NewDependencyManager(ctx context.Context,
	router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) (*Manager, error) {

	mongoStore := session.NewMongoStore(mongodb.Database, cfg.Database.Collections.Sessions)
	if err := mongoStore.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("session indexes: %w", err)
	}

	var sessionStore session.Store = mongoStore
	if redisClient != nil && cfg.Session.CacheEnabled {
		sessionStore = session.NewCachedStore(mongoStore, redisClient.Client)
		logrus.Info("Session cache enabled")
	}

	sessions := session.NewManager(sessionStore, session.NewCodec(cfg.Security.SessionSecret), session.Options{
		CookieName: cfg.Session.CookieName,
		MaxAge:     cfg.Session.Timeout,
		TTL:        cfg.Session.StoreTTL,
		TrustProxy: cfg.Server.TrustedHops > 0,
	})

	var counterStore ratelimit.Store
	if redisClient != nil {
		counterStore = ratelimit.NewRedisStore(redisClient.Client, cfg.RateLimit.Window)
	} else {
		counterStore = ratelimit.NewMemoryStore(cfg.RateLimit.MaxKeys, cfg.RateLimit.Window)
	}
	limiter := ratelimit.New(counterStore, ratelimit.Config{
		Window:   cfg.RateLimit.Window,
		Max:      cfg.RateLimit.Max,
		Message:  cfg.RateLimit.Message,
		FailOpen: cfg.RateLimit.FailOpen,
	})

	employeeRepo := employee.NewRepository(mongodb, cfg.Database.Collections.Employees)
	if err := employeeRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("employee indexes: %w", err)
	}
	employeeService := employee.NewService(employeeRepo, sessions, cfg)

	reviewRepo := review.NewRepository(mongodb, cfg.Database.Collections.Reviews)
	if err := reviewRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("review indexes: %w", err)
	}
	reviewService := review.NewService(reviewRepo, employeeService, cfg)

	// A nil *ActivityPublisher stored in the interface would not compare
	// equal to nil inside the handler.
	var publisher auth.ActivityPublisher
	if rabbitMQ != nil {
		publisher = clients.NewActivityPublisher(rabbitMQ.Channel, &cfg.Queue.RabbitMQ)
	}

	return &Manager{
		Router:          router,
		Config:          cfg,
		Mongodb:         mongodb,
		Redis:           redisClient,
		RabbitMQ:        rabbitMQ,
		Sessions:        sessions,
		RateLimiter:     limiter,
		Metrics:         metrics.NewHTTP(metricsNamespace(cfg.App.Name)),
		EmployeeService: employeeService,
		EmployeeHandler: employee.NewHandler(cfg, employeeService),
		ReviewHandler:   review.NewHandler(cfg, reviewService),
		AuthHandler:     auth.NewHandler(cfg, employeeService, sessions, publisher),
	}, nil
}

// metricsNamespace turns the app name into a valid prometheus namespace.
func metricsNamespace(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
