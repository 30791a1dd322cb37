package contract

import (
	"context"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
