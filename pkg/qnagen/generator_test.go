package qnagen

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/llm"
)

// topicLLM answers per item topic so concurrent workers stay deterministic.
type topicLLM struct {
	mu          sync.Mutex
	failTopics  []string
	validOutput string
}

func (f *topicLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", nil
}

func (f *topicLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, topic := range f.failTopics {
		if strings.Contains(prompt, topic) {
			return "cannot help with that", nil
		}
	}
	return f.validOutput, nil
}

type fakePortfolioRepo struct {
	contract.PortfolioRepository
	portfolio *entity.Portfolio
	statuses  []string
}

func (f *fakePortfolioRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Portfolio, error) {
	return f.portfolio, nil
}

func (f *fakePortfolioRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	f.statuses = append(f.statuses, status)
	return nil
}

type fakeItemRepo struct {
	contract.PortfolioItemRepository
	items []*entity.PortfolioItem
}

func (f *fakeItemRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.PortfolioItem, error) {
	return f.items, nil
}

type fakeQnaRepo struct {
	contract.QnaRepository
	created   []*entity.QnA
	bulkCalls int
	createErr error
}

func (f *fakeQnaRepo) CreateBulk(_ context.Context, qnas []*entity.QnA) error {
	f.bulkCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, qnas...)
	return nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	portfolios *fakePortfolioRepo
	items      *fakeItemRepo
	qnas       *fakeQnaRepo
}

func (f *fakeUow) PortfolioRepository() contract.PortfolioRepository         { return f.portfolios }
func (f *fakeUow) PortfolioItemRepository() contract.PortfolioItemRepository { return f.items }
func (f *fakeUow) QnaRepository() contract.QnaRepository                     { return f.qnas }

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

const validPairs = `{"pairs": [{"question": "What was your role?", "answer": "I led the backend work."}, {"question": "How long did it run?", "answer": "About a year."}]}`

func makeItems(n int) []*entity.PortfolioItem {
	items := make([]*entity.PortfolioItem, n)
	for i := range items {
		items[i] = &entity.PortfolioItem{
			Id:      uuid.New(),
			Type:    "project",
			Topic:   "topic-" + string(rune('a'+i)),
			Content: "built a thing",
			Status:  constant.ItemStatusConfirmed,
		}
	}
	return items
}

func newTestGenerator(uow *fakeUow, provider llm.LLMProvider) *Generator {
	return NewGenerator(&fakeFactory{uow: uow}, provider, nopLogger{}, 2)
}

func TestRun_OneItemFailingKeepsTheRest(t *testing.T) {
	items := makeItems(5)
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: &entity.Portfolio{Id: uuid.New()}},
		items:      &fakeItemRepo{items: items},
		qnas:       &fakeQnaRepo{},
	}
	provider := &topicLLM{failTopics: []string{items[2].Topic}, validOutput: validPairs}

	require.NoError(t, newTestGenerator(uow, provider).Run(context.Background(), uuid.New()))

	// 4 items x 2 pairs each, the failing item contributes nothing,
	// all persisted in one insert
	assert.Len(t, uow.qnas.created, 8)
	assert.Equal(t, 1, uow.qnas.bulkCalls)
	for _, pair := range uow.qnas.created {
		assert.NotEqual(t, items[2].Id, pair.PortfolioItemId)
		assert.Equal(t, constant.ItemStatusPending, pair.Status)
	}
	require.Len(t, uow.portfolios.statuses, 1)
	assert.Equal(t, constant.PortfolioStatusReadyForReview, uow.portfolios.statuses[0])
}

func TestRun_AllItemsFailingMarksFailed(t *testing.T) {
	items := makeItems(3)
	failTopics := make([]string, len(items))
	for i, item := range items {
		failTopics[i] = item.Topic
	}
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: &entity.Portfolio{Id: uuid.New()}},
		items:      &fakeItemRepo{items: items},
		qnas:       &fakeQnaRepo{},
	}
	provider := &topicLLM{failTopics: failTopics, validOutput: validPairs}

	require.NoError(t, newTestGenerator(uow, provider).Run(context.Background(), uuid.New()))

	assert.Empty(t, uow.qnas.created)
	assert.Equal(t, 0, uow.qnas.bulkCalls)
	require.Len(t, uow.portfolios.statuses, 1)
	assert.Equal(t, constant.PortfolioStatusFailed, uow.portfolios.statuses[0])
}

func TestRun_BulkInsertFailureMarksFailed(t *testing.T) {
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: &entity.Portfolio{Id: uuid.New()}},
		items:      &fakeItemRepo{items: makeItems(2)},
		qnas:       &fakeQnaRepo{createErr: errors.New("connection reset")},
	}
	provider := &topicLLM{validOutput: validPairs}

	require.NoError(t, newTestGenerator(uow, provider).Run(context.Background(), uuid.New()))

	assert.Empty(t, uow.qnas.created)
	require.Len(t, uow.portfolios.statuses, 1)
	assert.Equal(t, constant.PortfolioStatusFailed, uow.portfolios.statuses[0])
}

func TestRun_NoConfirmedItemsMarksFailed(t *testing.T) {
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: &entity.Portfolio{Id: uuid.New()}},
		items:      &fakeItemRepo{},
		qnas:       &fakeQnaRepo{},
	}
	provider := &topicLLM{validOutput: validPairs}

	require.NoError(t, newTestGenerator(uow, provider).Run(context.Background(), uuid.New()))

	require.Len(t, uow.portfolios.statuses, 1)
	assert.Equal(t, constant.PortfolioStatusFailed, uow.portfolios.statuses[0])
}

func TestRun_PortfolioNotFound(t *testing.T) {
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{},
		items:      &fakeItemRepo{},
		qnas:       &fakeQnaRepo{},
	}
	provider := &topicLLM{validOutput: validPairs}

	err := newTestGenerator(uow, provider).Run(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Empty(t, uow.portfolios.statuses)
}
