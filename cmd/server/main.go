package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nameready/nameready/internal"
	"github.com/nameready/nameready/internal/check"
	"github.com/nameready/nameready/internal/check/demo"
	"github.com/nameready/nameready/internal/handler"
	"github.com/nameready/nameready/internal/metrics"
	"github.com/nameready/nameready/internal/middleware"
	"github.com/nameready/nameready/internal/trademark"
	"github.com/nameready/nameready/internal/trademark/ipaustralia"
	"github.com/nameready/nameready/internal/trademark/mock"
)

func run() error {
	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the trademark checker
	var checker trademark.Checker
	switch cfg.CheckProvider {
	case "mock":
		checker = mock.New(logger)
		logger.Warn("Using mock trademark checker; no registry calls will be made")
	default:
		checker = ipaustralia.New(ipaustralia.Config{
			BaseURL:        cfg.IPAuBaseURL,
			RequestTimeout: cfg.HTTPClientTimeout,
			Token: ipaustralia.TokenConfig{
				TokenURL:     cfg.IPAuTokenURL,
				ClientID:     cfg.IPAuClientID,
				ClientSecret: cfg.IPAuClientSecret,
			},
		}, logger)
	}

	// Initialize the aggregation service
	service := check.NewService(checker, demo.New(), logger)

	// Initialize handlers
	api := handler.NewAPIHandler(service, logger)

	// Initialize middleware
	isSecure := cfg.Env != "development"
	loggingMw := middleware.NewRequestLoggingMiddleware(logger)
	securityMw := middleware.NewSecurityHeadersMiddleware(isSecure)
	corsMw := middleware.NewCORSMiddleware(cfg.CORSAllowedOrigins)
	recoveryMw := middleware.NewRecoveryMiddleware(logger)
	metricsAuthMw := middleware.NewMetricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword)

	// ==========================================================================
	// Create router and register routes
	// ==========================================================================

	mux := http.NewServeMux()
	api.RegisterRoutes(mux)

	// Prometheus metrics (optionally behind basic auth)
	mux.Handle("GET /metrics", metricsAuthMw.Handler(promhttp.Handler()))

	chain := []func(http.Handler) http.Handler{
		loggingMw.Handler,
		metrics.Middleware,
		recoveryMw.Handler,
		securityMw.Handler,
		corsMw.Handler,
	}

	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, logger)
		rateLimitMw := middleware.NewRateLimitMiddleware(limiter, logger)
		chain = append(chain, rateLimitMw.Limit)
	}

	root := middleware.Stack(chain...)(mux)

	// ==========================================================================
	// Start server
	// ==========================================================================

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: root,
	}

	// Channel to listen for interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		logger.Info("Server started", "address", server.Addr, "env", cfg.Env, "provider", cfg.CheckProvider)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	<-sigChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Graceful shutdown complete")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
