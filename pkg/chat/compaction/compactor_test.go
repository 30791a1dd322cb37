package compaction

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/store"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return f.Generate(nil, "")
}

func (f *fakeLLM) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func makeTurns(n int) []store.ConversationTurn {
	turns := make([]store.ConversationTurn, n)
	for i := range turns {
		turns[i] = store.ConversationTurn{
			Input:  fmt.Sprintf("question %d", i),
			Answer: fmt.Sprintf("answer %d", i),
		}
	}
	return turns
}

func TestAppend_BelowThresholdNoSummarization(t *testing.T) {
	provider := &fakeLLM{response: "summary"}
	c := New(provider, nopLogger{})

	convo := store.ConversationContext{Turns: makeTurns(10)}
	got := c.Append(context.Background(), convo, store.ConversationTurn{Input: "new", Answer: "turn"})

	assert.Equal(t, 11, len(got.Turns))
	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, "new", got.Turns[10].Input)
}

func TestAppend_TriggerSummarizes(t *testing.T) {
	provider := &fakeLLM{response: "the visitor asked about projects"}
	c := New(provider, nopLogger{})

	convo := store.ConversationContext{Turns: makeTurns(11)}
	got := c.Append(context.Background(), convo, store.ConversationTurn{Input: "new", Answer: "turn"})

	// summary + last 3 + appended turn
	require.Equal(t, 5, len(got.Turns))
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "the visitor asked about projects", got.Turns[0].Answer)
	assert.Equal(t, "question 8", got.Turns[1].Input)
	assert.Equal(t, "question 10", got.Turns[3].Input)
	assert.Equal(t, "new", got.Turns[4].Input)
}

func TestAppend_SummarizerFailureKeepsContext(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model unavailable")}
	c := New(provider, nopLogger{})

	convo := store.ConversationContext{Turns: makeTurns(11)}
	got := c.Append(context.Background(), convo, store.ConversationTurn{Input: "new", Answer: "turn"})

	// no turn lost, appended uncompacted
	require.Equal(t, 12, len(got.Turns))
	assert.Equal(t, "question 0", got.Turns[0].Input)
	assert.Equal(t, "new", got.Turns[11].Input)
}

func TestAppend_HardCapTruncates(t *testing.T) {
	provider := &fakeLLM{err: errors.New("model unavailable")}
	c := New(provider, nopLogger{})

	convo := store.ConversationContext{Turns: makeTurns(25)}
	got := c.Append(context.Background(), convo, store.ConversationTurn{Input: "new", Answer: "turn"})

	require.Equal(t, HardCap, len(got.Turns))
	assert.Equal(t, "new", got.Turns[HardCap-1].Input)
	// oldest turns dropped first
	assert.Equal(t, "question 6", got.Turns[0].Input)
}

func TestAppend_EmptySummaryTreatedAsFailure(t *testing.T) {
	provider := &fakeLLM{response: "   "}
	c := New(provider, nopLogger{})

	convo := store.ConversationContext{Turns: makeTurns(11)}
	got := c.Append(context.Background(), convo, store.ConversationTurn{Input: "new", Answer: "turn"})

	assert.Equal(t, 12, len(got.Turns))
}
