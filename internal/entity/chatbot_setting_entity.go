package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatbotSetting holds per-user tone examples the synthesizer mimics.
type ChatbotSetting struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	ToneExamples []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
