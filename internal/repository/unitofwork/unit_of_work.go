package unitofwork

import (
	"context"

	"lio-chatbot-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	PortfolioRepository() contract.PortfolioRepository
	PortfolioItemRepository() contract.PortfolioItemRepository
	QnaRepository() contract.QnaRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatbotSettingRepository() contract.ChatbotSettingRepository
}
