package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"query-gateway/config"
	_ "query-gateway/docs" // Swagger docs
	"query-gateway/internal/app"
	"query-gateway/internal/httpserver"
	"query-gateway/pkg/log"
)

// @title       Query Gateway API
// @description Answers natural-language questions from a relational database, streaming progress as JSON lines.
// @version     1
// @host        localhost:8000
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
		FilePath:     cfg.Logger.FilePath,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Query Gateway...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Collaborators
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to initialize gateway: ", err)
		return
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warnf(context.Background(), "Close: %v", err)
		}
	}()

	// 4. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		RateLimitPerMin: cfg.HTTPServer.RateLimitPerMin,
		Gateway:         a.Gateway,
		Sessions:        a.Sessions,
		Cache:           a.Cache,
		Database:        a.DB,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 5. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
