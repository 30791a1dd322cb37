package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/pkg/llm"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestPlan_ProducesQueries(t *testing.T) {
	provider := &fakeLLM{response: `{"queries": ["work history at Acme", "projects using Go"]}`}
	p := New(provider, nopLogger{})

	queries, err := p.Plan(context.Background(), "what did they do at Acme?", "Human: hi\nAI: hello\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"work history at Acme", "projects using Go"}, queries)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "what did they do at Acme?")
	assert.Contains(t, provider.prompts[0], "Human: hi")
}

func TestPlan_ZeroQueriesIsValid(t *testing.T) {
	provider := &fakeLLM{response: `{"queries": []}`}
	p := New(provider, nopLogger{})

	queries, err := p.Plan(context.Background(), "thanks, bye!", "")
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestPlan_BlankQueriesDropped(t *testing.T) {
	provider := &fakeLLM{response: `{"queries": ["  ", "tech stack", ""]}`}
	p := New(provider, nopLogger{})

	queries, err := p.Plan(context.Background(), "what do they use?", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tech stack"}, queries)
}
