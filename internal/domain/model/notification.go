package model

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationCoinReward   NotificationType = "coin_reward"
	NotificationNewChallenge NotificationType = "new_challenge"
	NotificationInfo         NotificationType = "info"
)

type Notification struct {
	ID        string           `json:"id"`
	Recipient string           `json:"recipient"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Metadata  json.RawMessage  `json:"metadata,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

const (
	EventCoinReward   = "coin_reward"
	EventNewChallenge = "new_challenge"
)

// NotificationEvent is what the reward and challenge flows append to the
// outbox queue. The worker expands it into stored notification rows; a
// coin_reward event targets one recipient, a new_challenge event fans out
// to every student.
type NotificationEvent struct {
	Type      string          `json:"type"`
	Recipient string          `json:"recipient,omitempty"` // coin_reward only
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}
