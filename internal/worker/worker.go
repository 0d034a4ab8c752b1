package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"

	"github.com/femmepacker/server/internal/config"
	"github.com/femmepacker/server/internal/events"
	"github.com/femmepacker/server/internal/models"
)

// statusTTL bounds how long delivery statuses stay queryable in Redis.
const statusTTL = 24 * time.Hour

// Worker consumes domain events and forwards them to the notification
// webhook.
type Worker struct {
	cfg      *config.Config
	redis    *redis.Client
	consumer sarama.ConsumerGroup
	webhook  events.WebhookClient
	ready    chan bool
}

func NewWorker(cfg *config.Config, rdb *redis.Client, consumer sarama.ConsumerGroup, webhook events.WebhookClient) *Worker {
	slog.Info("Initializing new Worker")
	return &Worker{
		cfg:      cfg,
		redis:    rdb,
		consumer: consumer,
		webhook:  webhook,
		ready:    make(chan bool),
	}
}

func StatusKey(eventID string) string {
	return fmt.Sprintf("event:%s:status", eventID)
}

// Start blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	topics := []string{w.cfg.Kafka.Topic}
	slog.Info("Starting worker", "topics", topics)

	go func() {
		for err := range w.consumer.Errors() {
			slog.Error("Kafka consumer error received", "error", err)
		}
	}()

	ready := w.ready
	go func() {
		for {
			if err := w.consumer.Consume(ctx, topics, w); err != nil {
				slog.Error("Error from consumer.Consume", "error", err)
			}
			if ctx.Err() != nil {
				slog.Info("Context error detected, exiting consumer loop", "error", ctx.Err())
				return
			}
			// A rebalance ended the session; pause briefly before rejoining.
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.cfg.Kafka.RetryBackoff):
			}
		}
	}()

	select {
	case <-ready:
		slog.Info("Worker setup complete; consumer ready")
	case <-ctx.Done():
	}

	<-ctx.Done()
	slog.Info("Worker shutting down gracefully")
	return nil
}

// Setup is run at the beginning of a new session, before ConsumeClaim.
func (w *Worker) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-w.ready:
	default:
		close(w.ready)
	}
	slog.Info("Consumer group session setup complete")
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (w *Worker) Cleanup(sarama.ConsumerGroupSession) error {
	slog.Info("Consumer group session cleanup complete")
	return nil
}

// ConsumeClaim must start a consumer loop of ConsumerGroupClaim's Messages().
// It returns as soon as the session ends so a rebalance is not held up by
// a delivery in backoff.
func (w *Worker) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	ctx := session.Context()
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			err := w.processMessage(ctx, message)
			if ctx.Err() != nil {
				// Unmarked, so the next owner of the partition redelivers it.
				slog.Info("Session ended mid-delivery", "offset", message.Offset, "partition", message.Partition)
				return nil
			}
			if err != nil {
				slog.Error("Failed to process event", "offset", message.Offset, "partition", message.Partition, "error", err)
			}
			session.MarkMessage(message, "")
		case <-ctx.Done():
			return nil
		}
	}
}

// processMessage delivers one event. Undeliverable events are recorded as
// failed and not retried after RetryMax attempts.
func (w *Worker) processMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var evt models.Event
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		slog.Error("JSON unmarshalling failed", "error", err, "raw", string(msg.Value))
		return fmt.Errorf("failed to parse event: %w", err)
	}
	if evt.ID == "" {
		return fmt.Errorf("event without id at offset %d", msg.Offset)
	}
	log := slog.With("eventID", evt.ID, "type", evt.Type)

	url := w.cfg.Notifications.WebhookURL
	if url == "" {
		log.Debug("No webhook configured, skipping delivery")
		w.setStatus(ctx, evt.ID, models.DeliverySkipped)
		return nil
	}

	w.setStatus(ctx, evt.ID, models.DeliveryPending)

	attempts := w.cfg.Kafka.RetryMax
	if attempts < 1 {
		attempts = 1
	}
	var err error
retry:
	for attempt := 1; ; attempt++ {
		err = w.webhook.Send(ctx, url, evt)
		if err == nil {
			break
		}
		log.Warn("Webhook delivery failed", "attempt", attempt, "error", err)
		if attempt >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break retry
		case <-time.After(w.cfg.Kafka.RetryBackoff):
		}
	}

	if err != nil && ctx.Err() != nil {
		log.Warn("Delivery interrupted; event stays pending", "error", err)
		return err
	}
	if err != nil {
		log.Error("Event delivery ultimately failed", "error", err)
		w.setStatus(ctx, evt.ID, models.DeliveryFailed)
		return err
	}

	log.Info("Event delivered")
	w.setStatus(ctx, evt.ID, models.DeliveryCompleted)
	return nil
}

func (w *Worker) setStatus(ctx context.Context, eventID, status string) {
	if err := w.redis.Set(context.WithoutCancel(ctx), StatusKey(eventID), status, statusTTL).Err(); err != nil {
		slog.Error("Failed to update Redis delivery status", "eventID", eventID, "status", status, "error", err)
	}
}
