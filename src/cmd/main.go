package main

import (
	"employee-review-svc/src/internal/config"
	"employee-review-svc/src/internal/logger"
	"employee-review-svc/src/internal/server"

	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logger.Init(cfg)

	log.Infof("Application %s is starting....", cfg.App.Name)

	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		log.WithError(err).Fatalf("Error starting server: %v", err)
	}
}
