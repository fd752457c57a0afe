package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cvmhw/rogercore/config"
	"github.com/cvmhw/rogercore/internal/api"
	"github.com/cvmhw/rogercore/internal/audit"
	"github.com/cvmhw/rogercore/internal/auth"
	"github.com/cvmhw/rogercore/internal/classifier"
	"github.com/cvmhw/rogercore/internal/database"
	"github.com/cvmhw/rogercore/internal/engine"
	"github.com/cvmhw/rogercore/internal/geocoder"
	"github.com/cvmhw/rogercore/internal/logger"
	"github.com/cvmhw/rogercore/internal/metrics"
	middlewares "github.com/cvmhw/rogercore/internal/middleware"
	"github.com/cvmhw/rogercore/internal/notifier"
	"github.com/cvmhw/rogercore/internal/resources"
	"github.com/cvmhw/rogercore/internal/responder"
	"github.com/cvmhw/rogercore/internal/session"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Info("Starting rogercore",
		"version", Version,
		"build_time", BuildTime,
		"git_commit", GitCommit,
	)

	// Initialize metrics
	if cfg.Metrics.Enabled {
		metrics.Init()
		logger.Info("Metrics enabled", "port", cfg.Metrics.Port)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	// Stores
	eventStore := audit.New(db)
	sessionStore, err := session.New(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to initialize session store", "error", err)
	}

	// Clinician notification dispatcher
	dispatcher := notifier.New(eventStore, cfg.Notifier)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// Crisis evaluation engine
	eng := engine.New(
		classifier.New(cfg.Detection.FoodTalkSuppressionThreshold),
		geocoder.New(cfg.Geocoder),
		responder.New(resources.Catalog{}),
		sessionStore,
		dispatcher,
	)

	// Setup HTTP server
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.Logging)
	r.Use(middlewares.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.ReadTimeout))
	r.Use(middlewares.Security)
	r.Use(middlewares.CORS(cfg.Server.CORSAllowedOrigins))

	// Admin access: configured secret, or an ephemeral key logged at startup
	// so the event review surface is reachable in dev without configuration.
	// The ephemeral path retains only the key ID and bcrypt hash.
	var adminAuth func(string) bool
	if cfg.Admin.AdminSecret != "" {
		adminAuth = auth.SecretAuthorizer(cfg.Admin.AdminSecret)
	} else {
		keyID, rawKey, secretHash, err := auth.GenerateAPIKey("dev")
		if err != nil {
			logger.Fatal("Failed to generate ephemeral admin key", "error", err)
		}
		adminAuth = auth.KeyAuthorizer(keyID, secretHash)
		logger.Warn("ADMIN_SECRET not set; generated ephemeral admin key", "key", rawKey)
	}

	// Initialize API handlers
	apiHandler := api.NewHandler(eng, eventStore, sessionStore, db, adminAuth, cfg.Admin.RateLimitPerMinute, Version, BuildTime, GitCommit)
	apiHandler.RegisterRoutes(r)

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting HTTP server", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func startMetricsServer(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting metrics server", "address", addr, "path", path)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Metrics server failed", "error", err)
	}
}
