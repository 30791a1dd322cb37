package qnagen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/llm/structured"
)

const defaultPairsPerItem = 5

// pairSet is the structured output for one portfolio item.
type pairSet struct {
	Pairs []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"pairs"`
}

type itemResult struct {
	itemId uuid.UUID
	pairs  []*entity.QnA
	err    error
}

// Generator produces anticipated visitor Q&A pairs for every confirmed item
// of a portfolio. Items are processed by a bounded worker pool and generation
// failures are isolated per item: one bad generation never discards the rest.
// Surviving pairs are persisted in a single bulk insert; the portfolio ends up
// failed only when no item produced anything or that insert failed.
type Generator struct {
	uowFactory   unitofwork.RepositoryFactory
	caller       *structured.Caller
	logger       logger.ILogger
	workers      int
	pairsPerItem int
}

func NewGenerator(uowFactory unitofwork.RepositoryFactory, provider llm.LLMProvider, log logger.ILogger, workers int) *Generator {
	if workers <= 0 {
		workers = 4
	}
	return &Generator{
		uowFactory:   uowFactory,
		caller:       structured.NewCaller(provider),
		logger:       log,
		workers:      workers,
		pairsPerItem: defaultPairsPerItem,
	}
}

func (g *Generator) Run(ctx context.Context, portfolioId uuid.UUID) error {
	uow := g.uowFactory.NewUnitOfWork(ctx)

	portfolio, err := uow.PortfolioRepository().FindOne(ctx, specification.ByID{ID: portfolioId})
	if err != nil {
		return err
	}
	if portfolio == nil {
		return apperrors.NotFound("portfolio not found")
	}

	items, err := uow.PortfolioItemRepository().FindAll(ctx,
		specification.ByPortfolioID{PortfolioID: portfolioId},
		specification.ByStatus{Status: constant.ItemStatusConfirmed},
	)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		g.logger.Warn("qnagen", "no confirmed items to generate from", map[string]interface{}{
			"portfolio_id": portfolioId.String(),
		})
		return uow.PortfolioRepository().UpdateStatus(ctx, portfolioId, constant.PortfolioStatusFailed)
	}

	results := make(chan itemResult, len(items))
	p := pool.New().WithMaxGoroutines(g.workers)
	for _, item := range items {
		item := item
		p.Go(func() {
			pairs, err := g.generateForItem(ctx, item)
			results <- itemResult{itemId: item.Id, pairs: pairs, err: err}
		})
	}
	p.Wait()
	close(results)

	succeeded := 0
	failed := 0
	pairs := make([]*entity.QnA, 0, len(items)*g.pairsPerItem)
	for res := range results {
		if res.err != nil {
			failed++
			g.logger.Warn("qnagen", "item generation failed", map[string]interface{}{
				"portfolio_id": portfolioId.String(),
				"item_id":      res.itemId.String(),
				"error":        res.err.Error(),
			})
			continue
		}
		pairs = append(pairs, res.pairs...)
		succeeded++
	}

	// One bulk insert for the whole job: either every surviving pair lands
	// or none do.
	status := constant.PortfolioStatusReadyForReview
	if succeeded == 0 {
		status = constant.PortfolioStatusFailed
	} else if err := uow.QnaRepository().CreateBulk(ctx, pairs); err != nil {
		g.logger.Error("qnagen", "failed to persist generated pairs", map[string]interface{}{
			"portfolio_id": portfolioId.String(),
			"pairs":        len(pairs),
			"error":        err.Error(),
		})
		status = constant.PortfolioStatusFailed
	}
	if err := uow.PortfolioRepository().UpdateStatus(ctx, portfolioId, status); err != nil {
		return err
	}

	g.logger.Info("qnagen", "bulk generation finished", map[string]interface{}{
		"portfolio_id": portfolioId.String(),
		"items":        len(items),
		"succeeded":    succeeded,
		"failed":       failed,
		"status":       status,
	})
	return nil
}

func (g *Generator) generateForItem(ctx context.Context, item *entity.PortfolioItem) ([]*entity.QnA, error) {
	var set pairSet
	if err := g.caller.Call(ctx, g.buildPrompt(item), &set); err != nil {
		return nil, err
	}
	if len(set.Pairs) == 0 {
		return nil, fmt.Errorf("model returned no pairs for item %s", item.Id)
	}

	now := time.Now()
	qnas := make([]*entity.QnA, 0, len(set.Pairs))
	for _, pair := range set.Pairs {
		question := strings.TrimSpace(pair.Question)
		answer := strings.TrimSpace(pair.Answer)
		if question == "" || answer == "" {
			continue
		}
		qnas = append(qnas, &entity.QnA{
			Id:              uuid.New(),
			PortfolioItemId: item.Id,
			Question:        question,
			Answer:          answer,
			Status:          constant.ItemStatusPending,
			CreatedAt:       now,
		})
	}
	if len(qnas) == 0 {
		return nil, fmt.Errorf("model returned only empty pairs for item %s", item.Id)
	}
	return qnas, nil
}

func (g *Generator) buildPrompt(item *entity.PortfolioItem) string {
	var b strings.Builder

	b.WriteString("<task>\n")
	b.WriteString(fmt.Sprintf("Write %d questions a visitor might ask about the portfolio entry below, each with a first-person answer from the portfolio owner.\n", g.pairsPerItem))
	b.WriteString("Answers must only use facts present in the entry.\n")
	b.WriteString("</task>\n\n")

	b.WriteString("<portfolio_entry>\n")
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
	b.WriteString(fmt.Sprintf("Content: %s\n", item.Content))
	b.WriteString("</portfolio_entry>\n\n")

	b.WriteString("Respond with ONLY a JSON object in this exact shape:\n")
	b.WriteString(`{"pairs": [{"question": "...", "answer": "..."}]}`)
	b.WriteString("\n")

	return b.String()
}
