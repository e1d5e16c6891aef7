// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the catalog API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankcat/internal/cache"
	"bankcat/internal/catalog"
	"bankcat/internal/config"
	"bankcat/internal/database"
	"bankcat/internal/events"
	"bankcat/internal/handlers"
	"bankcat/internal/middleware"
	"bankcat/internal/router"
	"bankcat/internal/session"
	"bankcat/internal/storage"
	"bankcat/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, schema cache, event fan-out).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Bearer token store backed by Valkey.
	sessionStore := session.NewStore(valkeyClient)

	// Interaction event publisher. Disabled publishers drop events
	// silently, so pass nil when fan-out is switched off.
	var publisher *events.Publisher
	if cfg.EventsEnabled {
		publisher = events.NewPublisher(valkeyClient)
	} else {
		publisher = events.NewPublisher(nil)
		slog.Info("event fan-out disabled")
	}

	// Connect to S3-compatible object storage (optional, the app works
	// without it; logo uploads then return 503).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, logo uploads disabled")
	}

	// Catalog service over all stores.
	svc := catalog.New(db, publisher)

	// Inferred type schemas cached in Valkey. Dev seeding may have
	// changed products under cached schemas, so start from a clean slate.
	schemaCache := cache.NewSchemaCache(valkeyClient, cache.DefaultSchemaTTL)
	if cfg.IsDev() {
		schemaCache.InvalidateAll(context.Background())
	}

	// Drop expired shared links hourly.
	janitorDone := make(chan struct{})
	defer close(janitorDone)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := svc.PurgeExpiredSharedLinks(); err != nil {
					slog.Error("purge expired shared links failed", "error", err)
				} else if n > 0 {
					slog.Info("purged expired shared links", "count", n)
				}
			case <-janitorDone:
				return
			}
		}
	}()

	// Create handler groups with their dependencies.
	userStore := store.NewUserStore(db)
	authHandlers := handlers.NewAuth(userStore, sessionStore)
	userHandlers := handlers.NewUsers(userStore)
	catalogHandlers := handlers.NewCatalog(svc, schemaCache)
	institutionHandlers := handlers.NewInstitutions(svc, storageClient)
	collectionHandlers := handlers.NewCollections(svc)
	reviewHandlers := handlers.NewReviews(svc)

	// Throttle login attempts per client IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, loginLimiter, authHandlers, userHandlers, catalogHandlers, institutionHandlers, collectionHandlers, reviewHandlers)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
