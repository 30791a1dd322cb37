package contract

import (
	"context"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type QnaRepository interface {
	CreateBulk(ctx context.Context, qnas []*entity.QnA) error
	Update(ctx context.Context, qna *entity.QnA) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QnA, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QnA, error)
	DeleteByPortfolioItemId(ctx context.Context, portfolioItemId uuid.UUID) error
	// SearchByEmbeddings runs one nearest-neighbour search per query embedding
	// (cosine distance over question embeddings) across the confirmed Q&A pairs
	// of the given items and returns the union, deduplicated by pair id.
	SearchByEmbeddings(ctx context.Context, portfolioItemIds []uuid.UUID, embeddings [][]float32, limitPerQuery int) ([]*entity.QnA, error)
}
