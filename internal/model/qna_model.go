package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QnA struct {
	Id                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PortfolioItemId   uuid.UUID        `gorm:"type:uuid;not null;index"`
	Question          string           `gorm:"type:text;not null"`
	Answer            string           `gorm:"type:text;not null"`
	Status            string           `gorm:"type:varchar(32);not null;index"`
	QuestionEmbedding *pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt         time.Time        `gorm:"autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt   `gorm:"index"`
}

func (QnA) TableName() string {
	return "qnas"
}
