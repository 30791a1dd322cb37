package entity

import (
	"time"

	"github.com/google/uuid"
)

// QnA is a generated question/answer pair belonging to exactly one portfolio
// item. QuestionEmbedding is set when the pair is confirmed.
type QnA struct {
	Id                uuid.UUID
	PortfolioItemId   uuid.UUID
	Question          string
	Answer            string
	Status            string
	QuestionEmbedding []float32
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}
