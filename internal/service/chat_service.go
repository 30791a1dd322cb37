package service

import (
	"context"

	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/chat/pipeline"
)

type IChatService interface {
	SubmitTurn(ctx context.Context, sessionKey string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, sessionKey string) ([]*dto.GetChatHistoryResponse, error)
}

type chatService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *pipeline.Orchestrator
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, orchestrator *pipeline.Orchestrator) IChatService {
	return &chatService{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
	}
}

func (c *chatService) SubmitTurn(ctx context.Context, sessionKey string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	result, err := c.orchestrator.Run(ctx, pipeline.Request{
		SessionKey: sessionKey,
		Question:   req.Message,
	})
	if err != nil {
		return nil, err
	}

	return &dto.SendChatResponse{
		Answer: result.Answer,
		Type:   result.Type,
	}, nil
}

func (c *chatService) GetChatHistory(ctx context.Context, sessionKey string) ([]*dto.GetChatHistoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.NotFound("chat session not found")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.GetChatHistoryResponse, len(messages))
	for i, msg := range messages {
		history[i] = &dto.GetChatHistoryResponse{
			Id:        msg.Id,
			Question:  msg.Question,
			Answer:    msg.Answer,
			Type:      msg.Type,
			CreatedAt: msg.CreatedAt,
		}
	}
	return history, nil
}
