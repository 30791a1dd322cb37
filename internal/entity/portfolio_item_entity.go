package entity

import (
	"time"

	"github.com/google/uuid"
)

// PortfolioItem is one structured unit of a portfolio (an experience entry, a
// project, a skills block). Embedding is only populated once the item is
// confirmed; unconfirmed items are invisible to retrieval.
type PortfolioItem struct {
	Id          uuid.UUID
	PortfolioId uuid.UUID
	Type        string
	Topic       string
	StartDate   *time.Time
	EndDate     *time.Time
	Content     string
	TechStack   []string
	Status      string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
