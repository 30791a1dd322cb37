package mapper

import (
	"encoding/json"
	"time"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PortfolioItemMapper struct{}

func NewPortfolioItemMapper() *PortfolioItemMapper {
	return &PortfolioItemMapper{}
}

func (m *PortfolioItemMapper) ToEntity(i *model.PortfolioItem) *entity.PortfolioItem {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	var techStack []string
	if len(i.TechStack) > 0 {
		// malformed tech_stack is treated as empty rather than failing the read
		_ = json.Unmarshal(i.TechStack, &techStack)
	}

	var embedding []float32
	if i.Embedding != nil {
		embedding = i.Embedding.Slice()
	}

	return &entity.PortfolioItem{
		Id:          i.Id,
		PortfolioId: i.PortfolioId,
		Type:        i.Type,
		Topic:       i.Topic,
		StartDate:   i.StartDate,
		EndDate:     i.EndDate,
		Content:     i.Content,
		TechStack:   techStack,
		Status:      i.Status,
		Embedding:   embedding,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *PortfolioItemMapper) ToModel(i *entity.PortfolioItem) *model.PortfolioItem {
	if i == nil {
		return nil
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	var techStack datatypes.JSON
	if len(i.TechStack) > 0 {
		raw, err := json.Marshal(i.TechStack)
		if err == nil {
			techStack = raw
		}
	}

	var embedding *pgvector.Vector
	if len(i.Embedding) > 0 {
		v := pgvector.NewVector(i.Embedding)
		embedding = &v
	}

	return &model.PortfolioItem{
		Id:          i.Id,
		PortfolioId: i.PortfolioId,
		Type:        i.Type,
		Topic:       i.Topic,
		StartDate:   i.StartDate,
		EndDate:     i.EndDate,
		Content:     i.Content,
		TechStack:   techStack,
		Status:      i.Status,
		Embedding:   embedding,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *PortfolioItemMapper) ToEntities(items []*model.PortfolioItem) []*entity.PortfolioItem {
	entities := make([]*entity.PortfolioItem, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}
