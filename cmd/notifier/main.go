// Command notifier consumes booking lifecycle events from Kafka.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"playarena/internal/auth"
	"playarena/internal/notifications"
	"playarena/internal/shared/config"
	"playarena/internal/shared/database"
	"playarena/pkg/logger"
)

func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		appLogger.Info("No .env file found, using system environment variables")
	}
	cfg := config.Load()

	if !cfg.Kafka.Enabled {
		appLogger.Error("KAFKA_ENABLED is false, nothing to consume")
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	contacts := auth.NewContacts(auth.NewRepository(db.GetPostgreSQL()))
	handler := notifications.RecipientHandler(contacts, notifications.LogHandler())

	consumer, err := notifications.NewConsumer(cfg.Kafka, handler)
	if err != nil {
		appLogger.Error("Failed to start consumer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Notifier consuming",
		slog.String("topic", cfg.Kafka.Topic),
		slog.String("group", cfg.Kafka.GroupID),
		slog.Any("brokers", cfg.Kafka.Brokers),
	)
	consumer.Run(ctx)

	if err := consumer.Close(); err != nil {
		appLogger.Error("Error closing consumer", slog.Any("error", err))
	}
	appLogger.Info("Notifier stopped")
}
