package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/embedding"
	"lio-chatbot-be/pkg/events"
	pktNats "lio-chatbot-be/pkg/nats"
	"lio-chatbot-be/pkg/qnagen"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// embedConsumerService writes the vectors that confirmation promised: item
// documents on the embed-item path, pair questions on the qna path.
type embedConsumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewEmbedConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &embedConsumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
	}
}

func (cs *embedConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *embedConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("embed_consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // invalid payloads never become valid, do not retry
		return
	}

	var err error
	switch {
	case payload.PortfolioItemId != nil:
		err = cs.embedItem(ctx, payload)
	case payload.QnaId != nil:
		err = cs.embedQna(ctx, payload)
	default:
		cs.logger.Error("embed_consumer", "message carries no target id", nil)
		msg.Ack()
		return
	}

	if err != nil {
		cs.logger.Error("embed_consumer", "embed job failed", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}

func (cs *embedConsumerService) embedItem(ctx context.Context, payload dto.PublishEmbedMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	item, err := uow.PortfolioItemRepository().FindOne(ctx, specification.ByID{ID: *payload.PortfolioItemId})
	if err != nil {
		return err
	}
	if item == nil {
		cs.logger.Warn("embed_consumer", "item disappeared before embedding", map[string]interface{}{
			"item_id": payload.PortfolioItemId.String(),
		})
		return nil
	}

	document := buildItemDocument(item)
	vectors, err := cs.embeddingProvider.Embed(ctx, []string{document}, constant.EmbeddingTaskDocument)
	if err != nil {
		return fmt.Errorf("failed to embed item document: %w", err)
	}

	item.Embedding = vectors[0]
	if err := uow.PortfolioItemRepository().Update(ctx, item); err != nil {
		return err
	}

	cs.logger.Info("embed_consumer", "item embedded", map[string]interface{}{
		"item_id": item.Id.String(),
	})
	return nil
}

func (cs *embedConsumerService) embedQna(ctx context.Context, payload dto.PublishEmbedMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	qna, err := uow.QnaRepository().FindOne(ctx, specification.ByID{ID: *payload.QnaId})
	if err != nil {
		return err
	}
	if qna == nil {
		cs.logger.Warn("embed_consumer", "qna disappeared before embedding", map[string]interface{}{
			"qna_id": payload.QnaId.String(),
		})
		return nil
	}

	vectors, err := cs.embeddingProvider.Embed(ctx, []string{qna.Question}, constant.EmbeddingTaskDocument)
	if err != nil {
		return fmt.Errorf("failed to embed qna question: %w", err)
	}

	qna.QuestionEmbedding = vectors[0]
	if err := uow.QnaRepository().Update(ctx, qna); err != nil {
		return err
	}

	cs.logger.Info("embed_consumer", "qna question embedded", map[string]interface{}{
		"qna_id": qna.Id.String(),
	})
	return nil
}

// buildItemDocument flattens an item into the text that gets embedded. The
// same shape feeds the synthesizer context, so query and document space stay
// aligned.
func buildItemDocument(item *entity.PortfolioItem) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Type: %s\nTopic: %s\n", item.Type, item.Topic))
	if item.StartDate != nil {
		b.WriteString(fmt.Sprintf("Start: %s\n", item.StartDate.Format("2006-01")))
	}
	if item.EndDate != nil {
		b.WriteString(fmt.Sprintf("End: %s\n", item.EndDate.Format("2006-01")))
	}
	if len(item.TechStack) > 0 {
		b.WriteString(fmt.Sprintf("Tech stack: %s\n", strings.Join(item.TechStack, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(item.Content)
	return b.String()
}

// qnaGenConsumerService runs accepted bulk generation jobs.
type qnaGenConsumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	generator      *qnagen.Generator
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewQnaGenConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	generator *qnagen.Generator,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &qnaGenConsumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		generator:      generator,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *qnaGenConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *qnaGenConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishGenerateQnaMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("qnagen_consumer", "failed to unmarshal message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := cs.generator.Run(ctx, payload.PortfolioId); err != nil {
		cs.logger.Error("qnagen_consumer", "generation run failed", map[string]interface{}{
			"portfolio_id": payload.PortfolioId.String(),
			"error":        err.Error(),
		})
		msg.Nack()
		return
	}

	// Notification is auxiliary: a publish failure never fails the job.
	if cs.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "QNA_GENERATION_FINISHED",
			Data: map[string]interface{}{
				"portfolio_id": payload.PortfolioId,
			},
			OccurredAt: time.Now(),
		}
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			cs.logger.Warn("qnagen_consumer", "failed to publish completion event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
