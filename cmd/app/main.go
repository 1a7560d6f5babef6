package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/Xxsnakesz/GymSyncPro-NEW-sub000/docs"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/checkin"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/config"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/email"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/jobs"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/payment"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/server"
)

// @title GymSyncPro API
// @version 1.0
// @description API for gym membership, check-in and booking management.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting GymSyncPro application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	emailService := email.New(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer emailService.Close()
	logger.Info("Email service initialized")

	gateway, err := payment.NewOmiseGateway(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		logger.Fatalf("Failed to init payment gateway: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go emailService.Start(ctx)

	runner := jobs.NewRunner(checkin.NewRepository(database), emailService)
	runner.Start(ctx)
	logger.Info("Background jobs started")

	srv, err := server.New(database, cfg, emailService, rdb, gateway)
	if err != nil {
		logger.Fatalf("Failed to build server: %v", err)
	}

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	runner.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
