package service

import (
	"context"
	"encoding/json"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
)

type IQnaGenerationService interface {
	StartBulkGeneration(ctx context.Context, req *dto.StartGenerationRequest) (*dto.StartGenerationResponse, error)
}

type qnaGenerationService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewQnaGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IQnaGenerationService {
	return &qnaGenerationService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		logger:           log,
	}
}

// StartBulkGeneration accepts the job and hands it to the background consumer.
// The portfolio is flipped to generating before the job is published, so a
// second request while the first is still running is rejected.
func (s *qnaGenerationService) StartBulkGeneration(ctx context.Context, req *dto.StartGenerationRequest) (*dto.StartGenerationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	portfolio, err := uow.PortfolioRepository().FindOne(ctx, specification.ByID{ID: req.PortfolioId})
	if err != nil {
		return nil, err
	}
	if portfolio == nil || portfolio.Status == constant.PortfolioStatusDeleted {
		return nil, apperrors.NotFound("portfolio not found")
	}
	if portfolio.Status != constant.PortfolioStatusConfirmed {
		return nil, apperrors.Conflict("portfolio must be confirmed before generation")
	}

	if err := uow.PortfolioRepository().UpdateStatus(ctx, portfolio.Id, constant.PortfolioStatusGenerating); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(dto.PublishGenerateQnaMessage{PortfolioId: portfolio.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		return nil, err
	}

	s.logger.Info("qna_generation", "bulk generation accepted", map[string]interface{}{
		"portfolio_id": portfolio.Id.String(),
	})
	return &dto.StartGenerationResponse{
		PortfolioId: portfolio.Id,
		Status:      constant.PortfolioStatusGenerating,
	}, nil
}
