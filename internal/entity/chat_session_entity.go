package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession anchors a visitor conversation to a portfolio. SessionKey is the
// opaque key handed to the caller ("{portfolio_id}:{uuid}") and is also the
// conversation context key in the session store.
type ChatSession struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	PortfolioId uuid.UUID
	SessionKey  string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
