package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/sessionstore"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/chat/synthesis"
	"lio-chatbot-be/pkg/store"
)

type fakeSessionRepo struct {
	contract.ChatSessionRepository
	session *entity.ChatSession
}

func (f *fakeSessionRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChatSession, error) {
	return f.session, nil
}

type fakeMessageRepo struct {
	contract.ChatMessageRepository
	created []*entity.ChatMessage
}

func (f *fakeMessageRepo) Create(_ context.Context, message *entity.ChatMessage) error {
	f.created = append(f.created, message)
	return nil
}

type fakeSettingRepo struct {
	contract.ChatbotSettingRepository
	setting *entity.ChatbotSetting
}

func (f *fakeSettingRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ChatbotSetting, error) {
	return f.setting, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	settings *fakeSettingRepo
}

func (f *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return f.sessions }
func (f *fakeUow) ChatMessageRepository() contract.ChatMessageRepository { return f.messages }
func (f *fakeUow) ChatbotSettingRepository() contract.ChatbotSettingRepository {
	return f.settings
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork { return f.uow }

type fakePlanner struct {
	queries []string
	err     error
}

func (f *fakePlanner) Plan(_ context.Context, _, _ string) ([]string, error) {
	return f.queries, f.err
}

type fakeRetriever struct {
	items      []*entity.PortfolioItem
	qnas       []*entity.QnA
	embedCalls int
}

func (f *fakeRetriever) EmbedQueries(_ context.Context, queries []string) ([][]float32, error) {
	f.embedCalls++
	vectors := make([][]float32, len(queries))
	for i := range vectors {
		vectors[i] = []float32{1, 2}
	}
	return vectors, nil
}

func (f *fakeRetriever) RetrieveItems(_ context.Context, _ uuid.UUID, _ [][]float32) ([]*entity.PortfolioItem, error) {
	return f.items, nil
}

func (f *fakeRetriever) RetrieveQnA(_ context.Context, _ []*entity.PortfolioItem, _ [][]float32) ([]*entity.QnA, error) {
	return f.qnas, nil
}

type fakeSynthesizer struct {
	result *synthesis.Result
	err    error
	items  []*entity.PortfolioItem
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _, _ string, items []*entity.PortfolioItem, _ []*entity.QnA, _ []string) (*synthesis.Result, error) {
	f.items = items
	return f.result, f.err
}

type appendCompactor struct{}

func (appendCompactor) Append(_ context.Context, convo store.ConversationContext, turn store.ConversationTurn) store.ConversationContext {
	convo.Turns = append(convo.Turns, turn)
	return convo
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fixture struct {
	orchestrator *Orchestrator
	uow          *fakeUow
	contextStore sessionstore.ContextStore
	retriever    *fakeRetriever
	session      *entity.ChatSession
}

func newFixture(planner *fakePlanner, retriever *fakeRetriever, synthesizer *fakeSynthesizer) *fixture {
	session := &entity.ChatSession{
		Id:          uuid.New(),
		UserId:      uuid.New(),
		PortfolioId: uuid.New(),
		SessionKey:  uuid.New().String(),
	}
	uow := &fakeUow{
		sessions: &fakeSessionRepo{session: session},
		messages: &fakeMessageRepo{},
		settings: &fakeSettingRepo{},
	}
	contextStore := sessionstore.NewMemoryStore()
	orchestrator := NewOrchestrator(
		&fakeFactory{uow: uow}, contextStore,
		planner, retriever, synthesizer, appendCompactor{},
		nopLogger{}, 3600,
	)
	return &fixture{
		orchestrator: orchestrator,
		uow:          uow,
		contextStore: contextStore,
		retriever:    retriever,
		session:      session,
	}
}

func TestRun_FullTurn(t *testing.T) {
	item := &entity.PortfolioItem{Id: uuid.New(), Topic: "payments platform"}
	fx := newFixture(
		&fakePlanner{queries: []string{"payments experience"}},
		&fakeRetriever{items: []*entity.PortfolioItem{item}},
		&fakeSynthesizer{result: &synthesis.Result{Answer: "They built the payments platform.", Type: "experience"}},
	)

	resp, err := fx.orchestrator.Run(context.Background(), Request{SessionKey: fx.session.SessionKey, Question: "what did they build?"})
	require.NoError(t, err)
	assert.Equal(t, "They built the payments platform.", resp.Answer)
	assert.Equal(t, "experience", resp.Type)

	require.Len(t, fx.uow.messages.created, 1)
	assert.Equal(t, fx.session.Id, fx.uow.messages.created[0].ChatSessionId)
	assert.Equal(t, "what did they build?", fx.uow.messages.created[0].Question)

	convo, found, err := fx.contextStore.Get(context.Background(), fx.session.SessionKey)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, convo.Turns, 1)
	assert.Equal(t, "what did they build?", convo.Turns[0].Input)
}

func TestRun_EmptyPlanSkipsRetrieval(t *testing.T) {
	synthesizer := &fakeSynthesizer{result: &synthesis.Result{Answer: "Hello!", Type: "other"}}
	fx := newFixture(&fakePlanner{queries: nil}, &fakeRetriever{}, synthesizer)

	resp, err := fx.orchestrator.Run(context.Background(), Request{SessionKey: fx.session.SessionKey, Question: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", resp.Answer)

	assert.Equal(t, 0, fx.retriever.embedCalls)
	assert.Nil(t, synthesizer.items)
	assert.Len(t, fx.uow.messages.created, 1)
}

func TestRun_SynthesisFailureLeavesNoPartialTurn(t *testing.T) {
	fx := newFixture(
		&fakePlanner{queries: nil},
		&fakeRetriever{},
		&fakeSynthesizer{err: apperrors.Upstream("model unavailable", errors.New("timeout"))},
	)

	seeded := store.ConversationContext{Turns: []store.ConversationTurn{{Input: "earlier", Answer: "turn"}}}
	require.NoError(t, fx.contextStore.Set(context.Background(), fx.session.SessionKey, seeded, 3600))

	_, err := fx.orchestrator.Run(context.Background(), Request{SessionKey: fx.session.SessionKey, Question: "what happened?"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindUpstream))

	assert.Empty(t, fx.uow.messages.created)
	convo, found, getErr := fx.contextStore.Get(context.Background(), fx.session.SessionKey)
	require.NoError(t, getErr)
	require.True(t, found)
	assert.Equal(t, seeded.Turns, convo.Turns)
}

func TestRun_SessionNotFound(t *testing.T) {
	fx := newFixture(&fakePlanner{}, &fakeRetriever{}, &fakeSynthesizer{})
	fx.uow.sessions.session = nil

	_, err := fx.orchestrator.Run(context.Background(), Request{SessionKey: "missing", Question: "hi"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
