package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"contact-dedup/internal/api"
	"contact-dedup/internal/api/handlers"
	"contact-dedup/internal/auth"
	"contact-dedup/internal/config"
	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"
	"contact-dedup/internal/health"
	"contact-dedup/internal/logger"
	"contact-dedup/internal/matching"
	"contact-dedup/internal/repository"
	"contact-dedup/internal/scheduler"
	"contact-dedup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// A local .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Load and validate configuration first (before logger)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.Logger)
	logger.Info().
		Str("environment", cfg.Logger.Environment).
		Str("log_level", cfg.Logger.Level).
		Msg("configuration loaded successfully")

	comparisonFields, err := dedup.ParseFields(cfg.Dedup.ComparisonFields)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid comparison fields")
	}

	logger.Info().Msg("running database migrations")
	if err := db.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()
	database, err := db.NewDatabase(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	logger.Info().Msg("database connected successfully")

	// Repositories
	contactRepo := repository.NewContactRepository(database.Queries)
	pairRepo := repository.NewDuplicatePairRepository(database.Queries)
	mergeExecutor := repository.NewMergeExecutor(database)

	// Services
	detectionService := service.NewDetectionService(contactRepo, pairRepo, service.DetectionOptions{
		Workers:           cfg.Dedup.Workers,
		Threshold:         cfg.Dedup.Threshold,
		AllowReevaluation: cfg.Dedup.AllowReevaluation,
		Classifier:        matching.DefaultClassifier(),
	})
	reviewService := service.NewReviewService(pairRepo, contactRepo, mergeExecutor, comparisonFields)

	// Handlers
	duplicateHandler := handlers.NewDuplicateHandler(detectionService, reviewService)
	systemHandler := handlers.NewSystemHandler(pairRepo, cfg)
	healthHandler := health.NewHandler(database, cfg.Database.HealthTimeout)

	if cfg.Features.EnableScheduler {
		cronScheduler := scheduler.NewScheduler(detectionService, cfg.Dedup.CronSpec)
		if err := cronScheduler.Start(); err != nil {
			logger.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer cronScheduler.Stop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.LoggingMiddleware())
	router.Use(api.CORSMiddleware(cfg.CORS))
	router.Use(api.RecoveryMiddleware())

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	v1.Use(auth.APIKeyMiddleware(cfg))
	{
		duplicateHandler.RegisterRoutes(v1)

		system := v1.Group("/system")
		{
			system.GET("/settings", systemHandler.GetSettings)
			system.GET("/stats", systemHandler.GetStats)
		}
	}

	addr := cfg.GetBindAddress()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal().Err(err).Str("addr", addr).Msg("failed to bind listener")
	}

	srv := &http.Server{
		Addr:    ln.Addr().String(),
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("starting server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
