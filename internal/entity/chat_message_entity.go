package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one persisted conversation turn. Type is the topic
// classification produced alongside the answer.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Question      string
	Answer        string
	Type          string
	CreatedAt     time.Time
}
