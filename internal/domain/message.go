package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageText   MessageType = "text"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// Message belongs to exactly one match. Seq is assigned by the store and
// defines the total order of the conversation; wall-clock timestamps are
// informational only.
type Message struct {
	ID        uuid.UUID   `json:"id" db:"message_id"`
	MatchID   uuid.UUID   `json:"match_id" db:"match_id"`
	SenderID  uuid.UUID   `json:"sender_id" db:"sender_id"`
	Type      MessageType `json:"type" db:"type"`
	Body      string      `json:"body" db:"body"`
	FileName  *string     `json:"file_name,omitempty" db:"file_name"`
	FileURL   *string     `json:"file_url,omitempty" db:"file_url"`
	Seq       int64       `json:"seq" db:"seq"`
	ReadAt    *time.Time  `json:"read_at,omitempty" db:"read_at"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

type SendMessageInput struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}
