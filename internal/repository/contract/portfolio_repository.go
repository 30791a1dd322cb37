package contract

import (
	"context"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *entity.Portfolio) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Portfolio, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Portfolio, error)
}
