package models

import "time"

// MessageStatus is the two-state delivery marker on a message.
type MessageStatus string

const (
	// StatusSent means the message is stored and delivered but not yet read.
	StatusSent MessageStatus = "sent"
	// StatusSeen means the receiver has opened the thread.
	StatusSeen MessageStatus = "seen"
)

// User represents a user in the system
type User struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	DisplayName string    `json:"display_name"`
	Token       string    `json:"token,omitempty"`
	PushToken   *string   `json:"push_token,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Friendship links two users. UserAID is always the lexicographically
// smaller of the two IDs so each pair has exactly one row.
type Friendship struct {
	ID        string    `json:"id"`
	UserAID   string    `json:"user_a_id"`
	UserBID   string    `json:"user_b_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message represents a direct message between two users. Rows are
// immutable except for the Status/SeenAt transition sent -> seen,
// which only the receiver's read reconciliation performs.
type Message struct {
	ID             string        `json:"id"`
	ConversationID string        `json:"conversation_id"`
	SenderID       string        `json:"sender_id"`
	SenderName     string        `json:"sender_name"`
	ReceiverID     string        `json:"receiver_id"`
	Body           string        `json:"body"`
	CreatedAt      time.Time     `json:"created_at"`
	Status         MessageStatus `json:"status"`
	SeenAt         *time.Time    `json:"seen_at,omitempty"`
}
