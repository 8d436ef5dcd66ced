package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"employee-review-svc/src/clients"
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

type Server struct {
	cfg    *config.Configuration
	router *gin.Engine
}

func New(cfg *config.Configuration) *Server {
	gin.SetMode(cfg.Server.Mode)
	return &Server{
		cfg:    cfg,
		router: newRouter(),
	}
}

// newRouter returns a bare engine. Client addresses are resolved by the
// proxy trust stage, so gin itself trusts no forwarding headers.
func newRouter() *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.WithError(err).Warn("Failed to reset trusted proxies")
	}
	router.HandleMethodNotAllowed = false
	return router
}

// Start connects every configured backend, serves HTTP until SIGINT or
// SIGTERM and then shuts down gracefully. No port is opened unless all
// connections succeed.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongodb, err := clients.NewMongoDB(ctx, &s.cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongodb.Close(closeCtx)
	}()

	var redisClient *clients.RedisClient
	if s.cfg.Redis.Url != "" {
		redisClient, err = clients.NewRedisClient(ctx, &s.cfg.Redis)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	} else {
		log.Info("Redis not configured, using in-process rate limit counters")
	}

	var rabbitMQ *clients.RabbitMQ
	if s.cfg.Queue.RabbitMQ.Url != "" {
		rabbitMQ, err = clients.NewRabbitMQ(&s.cfg.Queue.RabbitMQ)
		if err != nil {
			return err
		}
		defer rabbitMQ.Close()
	} else {
		log.Info("RabbitMQ not configured, activity events disabled")
	}

	deps, err := dependency.NewDependencyManager(ctx, s.router, mongodb, redisClient, rabbitMQ, s.cfg)
	if err != nil {
		return err
	}
	SetupRoutes(deps)

	httpServer := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Server %s listening on port %s", s.cfg.App.Name, s.cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.WithError(err).Error("HTTP server failed")
			return err
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.App.Timeout)*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
		return err
	}

	log.Info("Server stopped")
	return nil
}
