package contract

import (
	"context"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PortfolioItemRepository interface {
	Create(ctx context.Context, item *entity.PortfolioItem) error
	Update(ctx context.Context, item *entity.PortfolioItem) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PortfolioItem, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PortfolioItem, error)
	// SearchByEmbeddings runs one nearest-neighbour search per query embedding
	// (L2 distance) over the confirmed items of a portfolio and returns the
	// union, deduplicated by item id.
	SearchByEmbeddings(ctx context.Context, portfolioId uuid.UUID, embeddings [][]float32, limitPerQuery int) ([]*entity.PortfolioItem, error)
}
