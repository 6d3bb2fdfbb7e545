package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Messages are append-only,
// ordered by CreatedAt ascending, and never edited or deleted.
type Message struct {
	ID        uuid.UUID
	From      string
	Text      string
	CreatedAt time.Time
}

// NewMessage stamps a fresh message from the given sender.
func NewMessage(from, text string, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		From:      from,
		Text:      text,
		CreatedAt: at,
	}
}
