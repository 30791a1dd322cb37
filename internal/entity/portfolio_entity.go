package entity

import (
	"time"

	"github.com/google/uuid"
)

type Portfolio struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	Status    string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
