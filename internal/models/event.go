package models

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventHostingRequestCreated EventType = "hosting_request.created"
	EventHostingRequestStatus  EventType = "hosting_request.status_changed"
	EventReviewCreated         EventType = "review.created"
	EventMessageSent           EventType = "message.sent"
)

// Event is a domain notification. RecipientID is the user the event concerns
// and doubles as the partition key.
type Event struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	ActorID     string          `json:"actorId"`
	RecipientID string          `json:"recipientId"`
	Payload     json.RawMessage `json:"payload"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Delivery statuses recorded by the notification worker.
const (
	DeliveryPending   = "pending"
	DeliveryCompleted = "completed"
	DeliveryFailed    = "failed"
	DeliverySkipped   = "skipped"
)
