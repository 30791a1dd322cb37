package sessionstore

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"lio-chatbot-be/pkg/store"
)

// memoryStore is the single-process fallback used in development and tests.
type memoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore() ContextStore {
	return &memoryStore{cache: gocache.New(gocache.NoExpiration, 5*time.Minute)}
}

func (s *memoryStore) Get(_ context.Context, sessionKey string) (store.ConversationContext, bool, error) {
	raw, found := s.cache.Get(keyPrefix + sessionKey)
	if !found {
		return store.ConversationContext{}, false, nil
	}
	value, ok := raw.(store.ConversationContext)
	if !ok {
		return store.ConversationContext{}, false, nil
	}
	return value, true, nil
}

func (s *memoryStore) Set(_ context.Context, sessionKey string, value store.ConversationContext, ttlSeconds int) error {
	s.cache.Set(keyPrefix+sessionKey, value, time.Duration(ttlSeconds)*time.Second)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, sessionKey string) error {
	s.cache.Delete(keyPrefix + sessionKey)
	return nil
}
