package entity

import (
	"time"
)

type Participant struct {
	UserID   string `json:"user_id" bson:"user_id"`
	Username string `json:"username" bson:"username"`
}

// Message is an embedded message with a sender snapshot.
type Message struct {
	SenderID       string     `json:"sender_id" bson:"sender_id"`
	SenderUsername string     `json:"sender_username" bson:"sender_username"`
	Body           string     `json:"body" bson:"body"`
	IsRead         bool       `json:"is_read" bson:"is_read"`
	CreatedAt      *time.Time `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Conversation embeds its full ordered message history. MessageCount and
// LastMessageAt are derived from the messages list at write time.
type Conversation struct {
	ID            string        `json:"id" bson:"_id,omitempty"`
	LegacyID      *int64        `json:"-" bson:"legacy_mysql_id,omitempty"`
	Participants  []Participant `json:"participants" bson:"participants"`
	ProductID     *string       `json:"product_id,omitempty" bson:"product_id,omitempty"`
	Messages      []Message     `json:"messages" bson:"messages"`
	MessageCount  int           `json:"message_count" bson:"message_count"`
	LastMessageAt *time.Time    `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
}
