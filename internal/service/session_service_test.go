package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/sessionstore"
	"lio-chatbot-be/internal/repository/specification"
	"lio-chatbot-be/internal/repository/unitofwork"
)

type fakePortfolioRepo struct {
	contract.PortfolioRepository
	portfolio *entity.Portfolio
}

func (f *fakePortfolioRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Portfolio, error) {
	return f.portfolio, nil
}

type fakeSessionRepo struct {
	contract.ChatSessionRepository
	created []*entity.ChatSession
}

func (f *fakeSessionRepo) Create(_ context.Context, session *entity.ChatSession) error {
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, session := range f.created {
		for _, spec := range specs {
			if bySessionKey, ok := spec.(specification.BySessionKey); ok && bySessionKey.SessionKey == session.SessionKey {
				return session, nil
			}
		}
	}
	return nil, nil
}

type fakeUow struct {
	unitofwork.UnitOfWork
	portfolios *fakePortfolioRepo
	sessions   *fakeSessionRepo
}

func (f *fakeUow) PortfolioRepository() contract.PortfolioRepository     { return f.portfolios }
func (f *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { return f.sessions }

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

func TestStartSession_SeedsEmptyContext(t *testing.T) {
	portfolio := &entity.Portfolio{Id: uuid.New(), UserId: uuid.New(), Status: constant.PortfolioStatusConfirmed}
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: portfolio},
		sessions:   &fakeSessionRepo{},
	}
	contextStore := sessionstore.NewMemoryStore()
	svc := NewSessionService(&fakeFactory{uow: uow}, contextStore, nopLogger{}, 3600)

	resp, err := svc.StartSession(context.Background(), &dto.StartSessionRequest{PortfolioId: portfolio.Id})
	require.NoError(t, err)
	assert.Contains(t, resp.SessionKey, portfolio.Id.String()+":")

	require.Len(t, uow.sessions.created, 1)
	assert.Equal(t, portfolio.UserId, uow.sessions.created[0].UserId)

	convo, found, err := contextStore.Get(context.Background(), resp.SessionKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, convo.Turns)
}

func TestStartSession_DeletedPortfolioIsNotFound(t *testing.T) {
	portfolio := &entity.Portfolio{Id: uuid.New(), Status: constant.PortfolioStatusDeleted}
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: portfolio},
		sessions:   &fakeSessionRepo{},
	}
	svc := NewSessionService(&fakeFactory{uow: uow}, sessionstore.NewMemoryStore(), nopLogger{}, 3600)

	_, err := svc.StartSession(context.Background(), &dto.StartSessionRequest{PortfolioId: portfolio.Id})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.Empty(t, uow.sessions.created)
}

func TestDeleteSession_DropsContextOnly(t *testing.T) {
	portfolio := &entity.Portfolio{Id: uuid.New(), Status: constant.PortfolioStatusConfirmed}
	uow := &fakeUow{
		portfolios: &fakePortfolioRepo{portfolio: portfolio},
		sessions:   &fakeSessionRepo{},
	}
	contextStore := sessionstore.NewMemoryStore()
	svc := NewSessionService(&fakeFactory{uow: uow}, contextStore, nopLogger{}, 3600)

	resp, err := svc.StartSession(context.Background(), &dto.StartSessionRequest{PortfolioId: portfolio.Id})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(context.Background(), resp.SessionKey))

	_, found, err := contextStore.Get(context.Background(), resp.SessionKey)
	require.NoError(t, err)
	assert.False(t, found)
	// chat_sessions row is retained
	assert.Len(t, uow.sessions.created, 1)
}

func TestDeleteSession_UnknownKeyIsNotFound(t *testing.T) {
	uow := &fakeUow{portfolios: &fakePortfolioRepo{}, sessions: &fakeSessionRepo{}}
	svc := NewSessionService(&fakeFactory{uow: uow}, sessionstore.NewMemoryStore(), nopLogger{}, 3600)

	err := svc.DeleteSession(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}
