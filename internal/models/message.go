package models

import "time"

// AssistantRecipient is the recipient id recorded for assistant messages.
const AssistantRecipient = "assistant"

type Message struct {
	ID          string       `json:"id" db:"id"`
	SenderID    string       `json:"senderId" db:"sender_id"`
	RecipientID string       `json:"recipientId" db:"recipient_id"`
	Class       MessageClass `json:"class" db:"class"`
	Content     string       `json:"content" db:"content"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

type SendToHostRequest struct {
	HostID  string `json:"hostId"`
	Content string `json:"content"`
}

type SendToAIRequest struct {
	Content string `json:"content"`
}
