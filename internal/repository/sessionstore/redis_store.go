package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lio-chatbot-be/pkg/store"
)

const keyPrefix = "session:"

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) ContextStore {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, sessionKey string) (store.ConversationContext, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sessionKey).Result()
	if err == redis.Nil {
		return store.ConversationContext{}, false, nil
	}
	if err != nil {
		return store.ConversationContext{}, false, fmt.Errorf("failed to get session context: %w", err)
	}

	var value store.ConversationContext
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return store.ConversationContext{}, false, fmt.Errorf("failed to decode session context: %w", err)
	}
	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, sessionKey string, value store.ConversationContext, ttlSeconds int) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode session context: %w", err)
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	if err := s.client.Set(ctx, keyPrefix+sessionKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session context: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionKey string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session context: %w", err)
	}
	return nil
}
