package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/server"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	// Setup structured logging
	logger := cfg.NewLogger(os.Stdout)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to the database
	db, err := database.Connect(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	rdb, err := database.ConnectRedis(cfg.RedisURL, logger)
	if err != nil {
		logger.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	dispatcher := mail.NewDispatcher(mail.NewSender(cfg, logger), cfg.MailWorkers, cfg.MailRate, logger)
	defer dispatcher.Close()

	srv, err := server.New(cfg, db, rdb, dispatcher, logger)
	if err != nil {
		logger.Error("server setup failed", "error", err)
		os.Exit(1)
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}
