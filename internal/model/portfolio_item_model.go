package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PortfolioItem struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PortfolioId uuid.UUID        `gorm:"type:uuid;not null;index"`
	Type        string           `gorm:"type:varchar(32);not null"`
	Topic       string           `gorm:"type:varchar(255);not null"`
	StartDate   *time.Time       `gorm:"type:date"`
	EndDate     *time.Time       `gorm:"type:date"`
	Content     string           `gorm:"type:text"`
	TechStack   datatypes.JSON   `gorm:"type:jsonb"`
	Status      string           `gorm:"type:varchar(32);not null;index"`
	Embedding   *pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt   `gorm:"index"`
}

func (PortfolioItem) TableName() string {
	return "portfolio_items"
}
