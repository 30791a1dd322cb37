package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
)

type IPortfolioService interface {
	ConfirmItem(ctx context.Context, itemId uuid.UUID) error
	ConfirmQna(ctx context.Context, qnaId uuid.UUID) error
	UpdateToneExamples(ctx context.Context, req *dto.UpdateToneExamplesRequest) error
}

// portfolioService owns the confirmation transitions. Confirming flips the
// status and publishes an embed job; retrieval only ever sees confirmed rows
// whose vectors the consumer has written.
type portfolioService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewPortfolioService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IPortfolioService {
	return &portfolioService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

func (s *portfolioService) ConfirmItem(ctx context.Context, itemId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.PortfolioItemRepository().FindOne(ctx, specification.ByID{ID: itemId})
	if err != nil {
		return err
	}
	if item == nil || item.Status == constant.ItemStatusDeleted {
		return apperrors.NotFound("portfolio item not found")
	}

	item.Status = constant.ItemStatusConfirmed
	if err := uow.PortfolioItemRepository().Update(ctx, item); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.PublishEmbedMessage{PortfolioItemId: &item.Id})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return err
	}

	s.logger.Info("portfolio", "item confirmed, embed job queued", map[string]interface{}{
		"item_id": item.Id.String(),
	})
	return nil
}

func (s *portfolioService) ConfirmQna(ctx context.Context, qnaId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	qna, err := uow.QnaRepository().FindOne(ctx, specification.ByID{ID: qnaId})
	if err != nil {
		return err
	}
	if qna == nil || qna.Status == constant.ItemStatusDeleted {
		return apperrors.NotFound("qna not found")
	}

	qna.Status = constant.ItemStatusConfirmed
	if err := uow.QnaRepository().Update(ctx, qna); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.PublishEmbedMessage{QnaId: &qna.Id})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return err
	}

	s.logger.Info("portfolio", "qna confirmed, embed job queued", map[string]interface{}{
		"qna_id": qna.Id.String(),
	})
	return nil
}

func (s *portfolioService) UpdateToneExamples(ctx context.Context, req *dto.UpdateToneExamplesRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: req.UserId})
	if err != nil {
		return err
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}

	setting := &entity.ChatbotSetting{
		Id:           uuid.New(),
		UserId:       req.UserId,
		ToneExamples: req.ToneExamples,
		CreatedAt:    time.Now(),
	}
	if err := uow.ChatbotSettingRepository().Upsert(ctx, setting); err != nil {
		return err
	}

	s.logger.Info("portfolio", "tone examples updated", map[string]interface{}{
		"user_id":  req.UserId.String(),
		"examples": len(req.ToneExamples),
	})
	return nil
}
