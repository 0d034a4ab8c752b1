package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/femmepacker/server/internal/api"
	"github.com/femmepacker/server/internal/config"
	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/ledger"
	"github.com/femmepacker/server/internal/quota"
	"github.com/femmepacker/server/internal/storage"
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

	logger := slog.Default()
	if cfg.IsProduction() {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
		slog.SetDefault(logger)
	}

	// Initialize database clients
	db, err := database.NewClients(cfg.Database.URL, cfg.Redis)
	if err != nil {
		slog.Error("Failed to initialize database clients", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("✅ Connected to databases")

	if err := db.CreateTables(); err != nil {
		slog.Error("Failed to create tables", "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka.Broker, cfg.Kafka.RetryMax, cfg.Kafka.RetryBackoff)
		if err != nil {
			slog.Error("Failed to create Kafka producer", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		slog.Info("✅ Connected to Kafka")
	} else {
		slog.Info("Kafka disabled; domain events are dropped")
	}

	profiles := storage.NewProfileRepository(db.DB)
	subscriptions := storage.NewSubscriptionRepository(db.DB)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := api.NewServer(cfg, api.Deps{
		Profiles:      profiles,
		Subscriptions: subscriptions,
		Messages:      storage.NewMessageRepository(db.DB),
		Maps:          storage.NewMapRepository(db.DB),
		Quota:         quota.NewTracker(quota.NewRedisStore(db.Redis), subscriptions),
		Ledger: ledger.New(
			profiles,
			storage.NewHostingRequestRepository(db.DB),
			storage.NewReviewRepository(db.DB),
			publisher,
			logger,
		),
		Publisher: publisher,
		Logger:    logger,
		Registry:  registry,
	})
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
