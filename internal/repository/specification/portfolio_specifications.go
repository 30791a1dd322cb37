package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByPortfolioID struct {
	PortfolioID uuid.UUID
}

func (s ByPortfolioID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("portfolio_id = ?", s.PortfolioID)
}

type PortfolioOwnedByUser struct {
	UserID uuid.UUID
}

func (s PortfolioOwnedByUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("portfolios.user_id = ?", s.UserID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByPortfolioItemID struct {
	PortfolioItemID uuid.UUID
}

func (s ByPortfolioItemID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("portfolio_item_id = ?", s.PortfolioItemID)
}
