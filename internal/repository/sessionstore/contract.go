package sessionstore

import (
	"context"

	"lio-chatbot-be/pkg/store"
)

// ContextStore keeps the rolling conversation context for an active chat
// session, keyed by session key. Writes are last-writer-wins: concurrent
// turns on the same session may overwrite each other's context, which is
// acceptable because a session belongs to a single visitor.
type ContextStore interface {
	// Get returns the stored context and true, or a zero context and false
	// when the key is absent or expired.
	Get(ctx context.Context, sessionKey string) (store.ConversationContext, bool, error)
	// Set stores the context and resets the TTL (sliding expiration).
	Set(ctx context.Context, sessionKey string, value store.ConversationContext, ttlSeconds int) error
	Delete(ctx context.Context, sessionKey string) error
}
