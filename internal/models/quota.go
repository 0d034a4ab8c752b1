package models

import (
	"fmt"
	"time"
)

type MessageClass string

const (
	ClassAI   MessageClass = "ai"
	ClassHost MessageClass = "host"
)

// MessageQuota counts one user's sends in one calendar month.
type MessageQuota struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Month        string    `json:"month"`
	AIMessages   int       `json:"aiMessages"`
	HostMessages int       `json:"hostMessages"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Count returns the counter for class.
func (q MessageQuota) Count(class MessageClass) int {
	if class == ClassAI {
		return q.AIMessages
	}
	return q.HostMessages
}

// QuotaSummary is the quota view rendered by clients. Limits of -1 mean unlimited.
type QuotaSummary struct {
	Tier          Tier `json:"tier"`
	AIMessages    int  `json:"aiMessages"`
	AILimit       int  `json:"aiLimit"`
	HostMessages  int  `json:"hostMessages"`
	HostLimit     int  `json:"hostLimit"`
	CanSendToAI   bool `json:"canSendToAI"`
	CanSendToHost bool `json:"canSendToHost"`
}

// YearMonth formats t as YYYY-MM in UTC.
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// QuotaKey is the identity of a quota row: "{userId}-{YYYY-MM}".
func QuotaKey(userID, month string) string {
	return fmt.Sprintf("%s-%s", userID, month)
}
