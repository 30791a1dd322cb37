package retrieval

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/unitofwork"
)

type fakeEmbedder struct {
	calls [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	f.calls = append(f.calls, texts)
	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{float32(i), 1}
	}
	return vectors, nil
}

type fakeItemRepo struct {
	contract.PortfolioItemRepository
	results []*entity.PortfolioItem
	queries int
}

func (f *fakeItemRepo) SearchByEmbeddings(_ context.Context, _ uuid.UUID, embeddings [][]float32, _ int) ([]*entity.PortfolioItem, error) {
	f.queries = len(embeddings)
	return f.results, nil
}

type fakeQnaRepo struct {
	contract.QnaRepository
	results []*entity.QnA
	itemIds []uuid.UUID
}

func (f *fakeQnaRepo) SearchByEmbeddings(_ context.Context, portfolioItemIds []uuid.UUID, _ [][]float32, _ int) ([]*entity.QnA, error) {
	f.itemIds = portfolioItemIds
	return f.results, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	items *fakeItemRepo
	qnas  *fakeQnaRepo
}

func (f *fakeUow) PortfolioItemRepository() contract.PortfolioItemRepository { return f.items }
func (f *fakeUow) QnaRepository() contract.QnaRepository                    { return f.qnas }

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

func newTestEngine(uow *fakeUow, embedder *fakeEmbedder) *Engine {
	return NewEngine(&fakeFactory{uow: uow}, embedder, nopLogger{}, 4)
}

func TestEmbedQueries_EmptyShortCircuits(t *testing.T) {
	embedder := &fakeEmbedder{}
	e := newTestEngine(&fakeUow{}, embedder)

	vectors, err := e.EmbedQueries(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
	assert.Empty(t, embedder.calls)
}

func TestRetrieveItems_DeduplicatesOverlap(t *testing.T) {
	shared := &entity.PortfolioItem{Id: uuid.New(), Topic: "go services"}
	other := &entity.PortfolioItem{Id: uuid.New(), Topic: "frontend"}
	uow := &fakeUow{items: &fakeItemRepo{results: []*entity.PortfolioItem{shared, other, shared}}}
	e := newTestEngine(uow, &fakeEmbedder{})

	items, err := e.RetrieveItems(context.Background(), uuid.New(), [][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, shared.Id, items[0].Id)
	assert.Equal(t, other.Id, items[1].Id)
	assert.Equal(t, 2, uow.items.queries)
}

func TestRetrieveItems_NoVectorsShortCircuits(t *testing.T) {
	uow := &fakeUow{items: &fakeItemRepo{results: []*entity.PortfolioItem{{Id: uuid.New()}}}}
	e := newTestEngine(uow, &fakeEmbedder{})

	items, err := e.RetrieveItems(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Equal(t, 0, uow.items.queries)
}

func TestRetrieveQnA_ScopedToRetrievedItems(t *testing.T) {
	itemA := &entity.PortfolioItem{Id: uuid.New()}
	itemB := &entity.PortfolioItem{Id: uuid.New()}
	pair := &entity.QnA{Id: uuid.New(), PortfolioItemId: itemA.Id}
	uow := &fakeUow{qnas: &fakeQnaRepo{results: []*entity.QnA{pair, pair}}}
	e := newTestEngine(uow, &fakeEmbedder{})

	qnas, err := e.RetrieveQnA(context.Background(), []*entity.PortfolioItem{itemA, itemB}, [][]float32{{1, 2}})
	require.NoError(t, err)
	require.Len(t, qnas, 1)
	assert.Equal(t, []uuid.UUID{itemA.Id, itemB.Id}, uow.qnas.itemIds)
}

func TestRetrieveQnA_NoItemsShortCircuits(t *testing.T) {
	uow := &fakeUow{qnas: &fakeQnaRepo{results: []*entity.QnA{{Id: uuid.New()}}}}
	e := newTestEngine(uow, &fakeEmbedder{})

	qnas, err := e.RetrieveQnA(context.Background(), nil, [][]float32{{1, 2}})
	require.NoError(t, err)
	assert.Nil(t, qnas)
	assert.Nil(t, uow.qnas.itemIds)
}
