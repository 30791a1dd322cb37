package retrieval

import (
	"context"

	"github.com/google/uuid"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/embedding"
)

// Engine retrieves the portfolio context for one conversation turn: it embeds
// the planned queries in a single batch, then runs the two vector searches.
// Items are matched on content embeddings with L2 distance; Q&A pairs are
// matched on question embeddings with cosine distance, scoped to the items
// the first search returned.
type Engine struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
	topK              int
}

func NewEngine(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.EmbeddingProvider, log logger.ILogger, topK int) *Engine {
	if topK <= 0 {
		topK = 4
	}
	return &Engine{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
		topK:              topK,
	}
}

// EmbedQueries embeds all queries in one call using the query task type.
func (e *Engine) EmbedQueries(ctx context.Context, queries []string) ([][]float32, error) {
	if len(queries) == 0 {
		return nil, nil
	}
	vectors, err := e.embeddingProvider.Embed(ctx, queries, constant.EmbeddingTaskQuery)
	if err != nil {
		return nil, apperrors.Upstream("failed to embed queries", err)
	}
	return vectors, nil
}

func (e *Engine) RetrieveItems(ctx context.Context, portfolioId uuid.UUID, vectors [][]float32) ([]*entity.PortfolioItem, error) {
	if len(vectors) == 0 {
		return nil, nil
	}
	uow := e.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.PortfolioItemRepository().SearchByEmbeddings(ctx, portfolioId, vectors, e.topK)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("retrieval", "item search done", map[string]interface{}{
		"portfolio_id": portfolioId.String(),
		"queries":      len(vectors),
		"items":        len(items),
	})
	return dedupItems(items), nil
}

func (e *Engine) RetrieveQnA(ctx context.Context, items []*entity.PortfolioItem, vectors [][]float32) ([]*entity.QnA, error) {
	if len(items) == 0 || len(vectors) == 0 {
		return nil, nil
	}

	itemIds := make([]uuid.UUID, len(items))
	for i, item := range items {
		itemIds[i] = item.Id
	}

	uow := e.uowFactory.NewUnitOfWork(ctx)
	qnas, err := uow.QnaRepository().SearchByEmbeddings(ctx, itemIds, vectors, e.topK)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("retrieval", "qna search done", map[string]interface{}{
		"items": len(itemIds),
		"qnas":  len(qnas),
	})
	return dedupQnas(qnas), nil
}

// dedupItems keeps the first occurrence of each item id.
func dedupItems(items []*entity.PortfolioItem) []*entity.PortfolioItem {
	seen := make(map[uuid.UUID]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item.Id]; ok {
			continue
		}
		seen[item.Id] = struct{}{}
		out = append(out, item)
	}
	return out
}

func dedupQnas(qnas []*entity.QnA) []*entity.QnA {
	seen := make(map[uuid.UUID]struct{}, len(qnas))
	out := qnas[:0]
	for _, q := range qnas {
		if _, ok := seen[q.Id]; ok {
			continue
		}
		seen[q.Id] = struct{}{}
		out = append(out, q)
	}
	return out
}
