package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/femmepacker/server/internal/config"
	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/worker"
	"github.com/femmepacker/server/pkg/database"
	"github.com/femmepacker/server/pkg/kafka"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		slog.Error("Kafka is disabled; the notification worker has nothing to consume")
		os.Exit(1)
	}

	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("✅ Connected to Redis")

	// Initialize Kafka consumer
	consumer, err := kafka.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Group)
	if err != nil {
		slog.Error("Failed to create Kafka consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()
	slog.Info("✅ Connected to Kafka")

	if cfg.Notifications.WebhookURL == "" {
		slog.Warn("NOTIFY_WEBHOOK_URL is not set; events will be marked skipped")
	}

	w := worker.NewWorker(cfg, rdb, consumer, events.NewHTTPWebhookClient(cfg.Notifications.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := w.Start(ctx); err != nil {
		slog.Error("Worker error", "error", err)
		os.Exit(1)
	}
}
