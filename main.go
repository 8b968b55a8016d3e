package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/api"
	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/config"
	"github.com/rskdev/pettycash-be/internal/database"
	"github.com/rskdev/pettycash-be/internal/logger"
	"github.com/rskdev/pettycash-be/internal/mailer"
	"github.com/rskdev/pettycash-be/internal/monitoring"
	"github.com/rskdev/pettycash-be/internal/services"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal().Msg("auth.jwt_secret must be configured")
	}

	// Set up database
	db, err := database.New(cfg.Server.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up collaborators and services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTP)

	userService := services.NewUserService(db, smtpMailer, cfg.Auth.TokenTTL)
	expenseService := services.NewExpenseService(db)
	avatarService := services.NewAvatarService(db)

	// Set up and run the background token sweeper
	sweeper := monitoring.NewTokenSweeper(userService)
	sweeper.Run()

	// Set up router
	secureCookies := os.Getenv("APP_ENV") == "production"
	router := api.NewRouter(tokens, userService, expenseService, avatarService,
		cfg.Server.CORSOrigin, secureCookies)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
