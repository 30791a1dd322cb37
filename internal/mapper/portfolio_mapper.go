package mapper

import (
	"time"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/model"
)

type PortfolioMapper struct{}

func NewPortfolioMapper() *PortfolioMapper {
	return &PortfolioMapper{}
}

func (m *PortfolioMapper) ToEntity(p *model.Portfolio) *entity.Portfolio {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Portfolio{
		Id:        p.Id,
		UserId:    p.UserId,
		Title:     p.Title,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PortfolioMapper) ToModel(p *entity.Portfolio) *model.Portfolio {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Portfolio{
		Id:        p.Id,
		UserId:    p.UserId,
		Title:     p.Title,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *PortfolioMapper) ToEntities(portfolios []*model.Portfolio) []*entity.Portfolio {
	entities := make([]*entity.Portfolio, len(portfolios))
	for i, p := range portfolios {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
