package contract

import (
	"context"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/specification"
)

type ChatbotSettingRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatbotSetting, error)
	Upsert(ctx context.Context, setting *entity.ChatbotSetting) error
}
