package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"app/internal/api/v1/router"
	"app/internal/config"
	"app/internal/logger"
	"app/migrations"

	"github.com/joho/godotenv"
)

// @title Madrasti API
// @version 1.0
// @description Backend for the Madrasti learning platform: grade-leveled PDF lessons, exercises and summaries with moderated submissions and manual payment review.
// @host localhost:8080
// @BasePath /v1
// @Schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("development")
		boot.Fatal().Err(err).Msg("Error loading config")
	}
	log := logger.New(cfg.Environment)
	if envErr != nil {
		log.Warn().Msg("Warning: no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.ApplySecretOverlay(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply secret overlay")
	}

	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, cfg.DBConnectionString); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		log.Info().Msg("Migrations applied")
	}

	r, db, err := router.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}
	defer db.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Listen failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received, exiting...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server shut down gracefully")
}
