package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/sessionstore"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/store"
)

type ISessionService interface {
	StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error)
	DeleteSession(ctx context.Context, sessionKey string) error
}

type sessionService struct {
	uowFactory   unitofwork.RepositoryFactory
	contextStore sessionstore.ContextStore
	logger       logger.ILogger
	ttlSeconds   int
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	contextStore sessionstore.ContextStore,
	log logger.ILogger,
	ttlSeconds int,
) ISessionService {
	return &sessionService{
		uowFactory:   uowFactory,
		contextStore: contextStore,
		logger:       log,
		ttlSeconds:   ttlSeconds,
	}
}

func (s *sessionService) StartSession(ctx context.Context, req *dto.StartSessionRequest) (*dto.StartSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	portfolio, err := uow.PortfolioRepository().FindOne(ctx, specification.ByID{ID: req.PortfolioId})
	if err != nil {
		return nil, err
	}
	if portfolio == nil || portfolio.Status == constant.PortfolioStatusDeleted {
		return nil, apperrors.NotFound("portfolio not found")
	}

	session := entity.ChatSession{
		Id:          uuid.New(),
		UserId:      portfolio.UserId,
		PortfolioId: portfolio.Id,
		SessionKey:  fmt.Sprintf("%s:%s", portfolio.Id, uuid.New()),
		CreatedAt:   time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	// Seed an empty context so the first turn starts from a known state.
	if err := s.contextStore.Set(ctx, session.SessionKey, store.ConversationContext{}, s.ttlSeconds); err != nil {
		return nil, err
	}

	s.logger.Info("session", "session started", map[string]interface{}{
		"portfolio_id": portfolio.Id.String(),
		"session_key":  session.SessionKey,
	})
	return &dto.StartSessionResponse{SessionKey: session.SessionKey}, nil
}

// DeleteSession drops the live conversation context. The chat_sessions row
// and its messages are kept for history.
func (s *sessionService) DeleteSession(ctx context.Context, sessionKey string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return err
	}
	if session == nil {
		return apperrors.NotFound("chat session not found")
	}

	if err := s.contextStore.Delete(ctx, sessionKey); err != nil {
		return err
	}

	s.logger.Info("session", "session deleted", map[string]interface{}{
		"session_key": sessionKey,
	})
	return nil
}
