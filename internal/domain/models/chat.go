package models

import (
	"time"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a chat transcript. Insertion order is significant.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is a durable snapshot of a session transcript, keyed by the
// document it was about. Flushing a transcript is an explicit side
// operation, not automatic.
type ChatSession struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"prd_id"`
	Messages   []Message `json:"messages" db:"messages"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
