package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/pkg/store"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	value := store.ConversationContext{Turns: []store.ConversationTurn{
		{Input: "hello", Answer: "hi there"},
	}}
	require.NoError(t, s.Set(ctx, "abc", value, 60))

	got, found, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, value, got)

	require.NoError(t, s.Delete(ctx, "abc"))
	_, found, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "short", store.ConversationContext{}, 1))
	time.Sleep(1100 * time.Millisecond)

	_, found, err := s.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)
}
