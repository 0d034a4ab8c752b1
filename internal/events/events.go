package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/femmepacker/server/internal/models"
)

// Publisher emits domain events for asynchronous consumers.
type Publisher interface {
	Publish(ctx context.Context, evt models.Event) error
}

// New builds an event with a fresh id and payload marshalled to JSON.
func New(typ models.EventType, actorID, recipientID string, payload interface{}) (models.Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return models.Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return models.Event{
		ID:          uuid.NewString(),
		Type:        typ,
		ActorID:     actorID,
		RecipientID: recipientID,
		Payload:     raw,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// KafkaPublisher writes events to a single topic keyed by recipient so that
// one user's events stay ordered within a partition.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt models.Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("KafkaPublisher.Publish: marshal: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.RecipientID),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(evt.Type)},
		},
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("KafkaPublisher.Publish: %w", err)
	}
	return nil
}

// NopPublisher drops every event. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Event) error { return nil }
