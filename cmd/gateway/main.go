// cmd/gateway/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/linseaa/storefront-gateway/internal/domain/catalog"
	"github.com/linseaa/storefront-gateway/internal/domain/checkout"
	"github.com/linseaa/storefront-gateway/internal/domain/session"
	"github.com/linseaa/storefront-gateway/internal/infrastructure/database/redis"
	"github.com/linseaa/storefront-gateway/internal/interfaces/http"
	"github.com/linseaa/storefront-gateway/internal/upstream"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	logger.WithFields(logrus.Fields{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Infof("Starting %s", cfg.App.Name)

	// Connect to Redis
	redisClient, err := redis.NewConnection(cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	if err := redisClient.Health(); err != nil {
		logger.WithError(err).Fatal("Redis health check failed")
	}

	// Wire the domain
	api := upstream.NewClient(cfg, logger)
	products := catalog.NewStore()
	registry := session.NewRegistry(api, products, redisClient.GetClient(), cfg, logger)
	checkoutService := checkout.NewService(api, logger.WithField("component", "checkout"))

	// Warm the catalog; the store stays empty and heals on traffic if
	// the backend is down at boot
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := registry.RefreshCatalog(ctx); err != nil {
			logger.WithError(err).Warn("Initial catalog fetch failed")
		}
	}()

	// Create and start HTTP server
	server := http.NewServer(cfg, registry, products, checkoutService, redisClient.GetClient(), logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	logger.Info("Server shutdown completed")
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
