package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/internal/repository/sessionstore"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
	"lio-chatbot-be/pkg/chat/synthesis"
	"lio-chatbot-be/pkg/store"
)

// Stage identifies one step of the conversation turn state machine.
type Stage string

const (
	StageLoadContext    Stage = "load_context"
	StagePlanQueries    Stage = "plan_queries"
	StageEmbedQueries   Stage = "embed_queries"
	StageRetrieveItems  Stage = "retrieve_items"
	StageRetrieveQnA    Stage = "retrieve_qna"
	StageSynthesize     Stage = "synthesize"
	StagePersist        Stage = "persist"
	StageCompactAndSave Stage = "compact_and_save"
	StageDone           Stage = "done"
)

// QueryPlanner plans retrieval queries for a question.
type QueryPlanner interface {
	Plan(ctx context.Context, question, historyTranscript string) ([]string, error)
}

// Retriever embeds queries and runs the vector searches.
type Retriever interface {
	EmbedQueries(ctx context.Context, queries []string) ([][]float32, error)
	RetrieveItems(ctx context.Context, portfolioId uuid.UUID, vectors [][]float32) ([]*entity.PortfolioItem, error)
	RetrieveQnA(ctx context.Context, items []*entity.PortfolioItem, vectors [][]float32) ([]*entity.QnA, error)
}

// AnswerSynthesizer produces the final answer and topic classification.
type AnswerSynthesizer interface {
	Synthesize(ctx context.Context, question, historyTranscript string, items []*entity.PortfolioItem, qnas []*entity.QnA, toneExamples []string) (*synthesis.Result, error)
}

// ContextCompactor appends the finished turn and bounds the context.
type ContextCompactor interface {
	Append(ctx context.Context, convo store.ConversationContext, turn store.ConversationTurn) store.ConversationContext
}

type Request struct {
	SessionKey string
	Question   string
}

type Response struct {
	Answer string
	Type   string
}

// Orchestrator drives one conversation turn through the stage machine:
// LoadContext, PlanQueries, EmbedQueries, RetrieveItems, RetrieveQnA,
// Synthesize, Persist, CompactAndSave. A plan with zero queries jumps
// straight from planning to synthesis. Any stage error aborts the turn
// before the context is mutated: the turn is only appended during
// CompactAndSave, which runs after the message is persisted.
type Orchestrator struct {
	uowFactory   unitofwork.RepositoryFactory
	contextStore sessionstore.ContextStore
	planner      QueryPlanner
	retriever    Retriever
	synthesizer  AnswerSynthesizer
	compactor    ContextCompactor
	logger       logger.ILogger
	ttlSeconds   int
}

func NewOrchestrator(
	uowFactory unitofwork.RepositoryFactory,
	contextStore sessionstore.ContextStore,
	queryPlanner QueryPlanner,
	retriever Retriever,
	answerSynthesizer AnswerSynthesizer,
	contextCompactor ContextCompactor,
	log logger.ILogger,
	ttlSeconds int,
) *Orchestrator {
	return &Orchestrator{
		uowFactory:   uowFactory,
		contextStore: contextStore,
		planner:      queryPlanner,
		retriever:    retriever,
		synthesizer:  answerSynthesizer,
		compactor:    contextCompactor,
		logger:       log,
		ttlSeconds:   ttlSeconds,
	}
}

// turnState carries the intermediate products of one turn between stages.
type turnState struct {
	req        Request
	session    *entity.ChatSession
	convo      store.ConversationContext
	transcript string
	queries    []string
	vectors    [][]float32
	items      []*entity.PortfolioItem
	qnas       []*entity.QnA
	result     *synthesis.Result
}

func (o *Orchestrator) Run(ctx context.Context, req Request) (*Response, error) {
	st := &turnState{req: req}

	stage := StageLoadContext
	for stage != StageDone {
		next, err := o.step(ctx, stage, st)
		if err != nil {
			o.logger.Error("pipeline", "turn aborted", map[string]interface{}{
				"stage":       string(stage),
				"session_key": req.SessionKey,
				"error":       err.Error(),
			})
			return nil, err
		}
		stage = next
	}

	return &Response{Answer: st.result.Answer, Type: st.result.Type}, nil
}

func (o *Orchestrator) step(ctx context.Context, stage Stage, st *turnState) (Stage, error) {
	switch stage {
	case StageLoadContext:
		return o.loadContext(ctx, st)
	case StagePlanQueries:
		return o.planQueries(ctx, st)
	case StageEmbedQueries:
		return o.embedQueries(ctx, st)
	case StageRetrieveItems:
		return o.retrieveItems(ctx, st)
	case StageRetrieveQnA:
		return o.retrieveQnA(ctx, st)
	case StageSynthesize:
		return o.synthesize(ctx, st)
	case StagePersist:
		return o.persist(ctx, st)
	case StageCompactAndSave:
		return o.compactAndSave(ctx, st)
	default:
		return StageDone, fmt.Errorf("unknown pipeline stage: %s", stage)
	}
}

func (o *Orchestrator) loadContext(ctx context.Context, st *turnState) (Stage, error) {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: st.req.SessionKey})
	if err != nil {
		return StageDone, err
	}
	if session == nil {
		return StageDone, apperrors.NotFound("chat session not found")
	}
	st.session = session

	convo, found, err := o.contextStore.Get(ctx, st.req.SessionKey)
	if err != nil {
		return StageDone, err
	}
	if found {
		st.convo = convo
	}
	st.transcript = store.SerializeHistory(st.convo.Turns)

	return StagePlanQueries, nil
}

func (o *Orchestrator) planQueries(ctx context.Context, st *turnState) (Stage, error) {
	queries, err := o.planner.Plan(ctx, st.req.Question, st.transcript)
	if err != nil {
		return StageDone, err
	}
	st.queries = queries

	if len(queries) == 0 {
		return StageSynthesize, nil
	}
	return StageEmbedQueries, nil
}

func (o *Orchestrator) embedQueries(ctx context.Context, st *turnState) (Stage, error) {
	vectors, err := o.retriever.EmbedQueries(ctx, st.queries)
	if err != nil {
		return StageDone, err
	}
	st.vectors = vectors
	return StageRetrieveItems, nil
}

func (o *Orchestrator) retrieveItems(ctx context.Context, st *turnState) (Stage, error) {
	items, err := o.retriever.RetrieveItems(ctx, st.session.PortfolioId, st.vectors)
	if err != nil {
		return StageDone, err
	}
	st.items = items
	return StageRetrieveQnA, nil
}

func (o *Orchestrator) retrieveQnA(ctx context.Context, st *turnState) (Stage, error) {
	qnas, err := o.retriever.RetrieveQnA(ctx, st.items, st.vectors)
	if err != nil {
		return StageDone, err
	}
	st.qnas = qnas
	return StageSynthesize, nil
}

func (o *Orchestrator) synthesize(ctx context.Context, st *turnState) (Stage, error) {
	toneExamples, err := o.loadToneExamples(ctx, st.session.UserId)
	if err != nil {
		return StageDone, err
	}

	result, err := o.synthesizer.Synthesize(ctx, st.req.Question, st.transcript, st.items, st.qnas, toneExamples)
	if err != nil {
		return StageDone, err
	}
	st.result = result
	return StagePersist, nil
}

func (o *Orchestrator) loadToneExamples(ctx context.Context, userId uuid.UUID) ([]string, error) {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.ChatbotSettingRepository().FindOne(ctx, specification.ByUserID{UserID: userId})
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, nil
	}
	return setting.ToneExamples, nil
}

func (o *Orchestrator) persist(ctx context.Context, st *turnState) (Stage, error) {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	message := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: st.session.Id,
		Question:      st.req.Question,
		Answer:        st.result.Answer,
		Type:          st.result.Type,
		CreatedAt:     time.Now(),
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		return StageDone, err
	}
	return StageCompactAndSave, nil
}

func (o *Orchestrator) compactAndSave(ctx context.Context, st *turnState) (Stage, error) {
	compacted := o.compactor.Append(ctx, st.convo, store.ConversationTurn{
		Input:  st.req.Question,
		Answer: st.result.Answer,
	})

	// The answer is already persisted at this point; a store failure costs
	// some context freshness, not the turn.
	if err := o.contextStore.Set(ctx, st.req.SessionKey, compacted, o.ttlSeconds); err != nil {
		o.logger.Warn("pipeline", "failed to save conversation context", map[string]interface{}{
			"session_key": st.req.SessionKey,
			"error":       err.Error(),
		})
	}
	return StageDone, nil
}
