package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kioskops/price-resolver/internal/config"
	"github.com/kioskops/price-resolver/internal/handlers"
	"github.com/kioskops/price-resolver/internal/middleware"
	"github.com/kioskops/price-resolver/internal/observability"
	"github.com/kioskops/price-resolver/internal/resolver"
	"github.com/kioskops/price-resolver/internal/vtex"
	"github.com/kioskops/price-resolver/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting price resolver server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store_domain", cfg.Store.Domain,
		"sales_channel", cfg.Store.SalesChannel,
		"strategy", cfg.Store.Strategy,
		"log_level", cfg.LogLevel,
	)

	// Register metrics collectors
	observability.Register()

	// Initialize the commerce platform client
	client := vtex.New(cfg.Upstream)

	// Initialize services
	resolverService := resolver.NewService(client, cfg.Store, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.Store.Domain, cfg.Store.SalesChannel, log)
	resolveHandler := handlers.NewResolveHandler(resolverService, cfg.Store.Strategy, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration for the kiosk front end
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Api-Key", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", observability.Handler())

	// Resolve endpoint, behind API key auth when keys are configured
	r.Group(func(r chi.Router) {
		if len(cfg.Auth.APIKeys) > 0 {
			r.Use(middleware.APIKeyAuth(cfg.Auth))
		}
		r.Post("/resolve", resolveHandler.Resolve)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
