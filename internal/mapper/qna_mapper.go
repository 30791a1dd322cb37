package mapper

import (
	"time"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type QnaMapper struct{}

func NewQnaMapper() *QnaMapper {
	return &QnaMapper{}
}

func (m *QnaMapper) ToEntity(q *model.QnA) *entity.QnA {
	if q == nil {
		return nil
	}

	var updatedAt *time.Time
	if !q.UpdatedAt.IsZero() {
		t := q.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if q.QuestionEmbedding != nil {
		embedding = q.QuestionEmbedding.Slice()
	}

	return &entity.QnA{
		Id:                q.Id,
		PortfolioItemId:   q.PortfolioItemId,
		Question:          q.Question,
		Answer:            q.Answer,
		Status:            q.Status,
		QuestionEmbedding: embedding,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *QnaMapper) ToModel(q *entity.QnA) *model.QnA {
	if q == nil {
		return nil
	}

	var updatedAt time.Time
	if q.UpdatedAt != nil {
		updatedAt = *q.UpdatedAt
	}

	var embedding *pgvector.Vector
	if len(q.QuestionEmbedding) > 0 {
		v := pgvector.NewVector(q.QuestionEmbedding)
		embedding = &v
	}

	return &model.QnA{
		Id:                q.Id,
		PortfolioItemId:   q.PortfolioItemId,
		Question:          q.Question,
		Answer:            q.Answer,
		Status:            q.Status,
		QuestionEmbedding: embedding,
		CreatedAt:         q.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *QnaMapper) ToEntities(qnas []*model.QnA) []*entity.QnA {
	entities := make([]*entity.QnA, len(qnas))
	for i, q := range qnas {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

func (m *QnaMapper) ToModels(qnas []*entity.QnA) []*model.QnA {
	models := make([]*model.QnA, len(qnas))
	for i, q := range qnas {
		models[i] = m.ToModel(q)
	}
	return models
}
