package structured

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/pkg/llm"
)

type scriptedLLM struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (s *scriptedLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	idx := len(s.prompts) - 1
	if idx >= len(s.responses) {
		idx = len(s.responses) - 1
	}
	return s.responses[idx], nil
}

type testShape struct {
	Queries []string `json:"queries"`
}

func TestCall_DecodesWrappedJSON(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		"Sure, here you go:\n```json\n{\"queries\": [\"a\", \"b\"]}\n```",
	}}
	caller := NewCaller(provider)

	var out testShape
	require.NoError(t, caller.Call(context.Background(), "plan", &out))
	assert.Equal(t, []string{"a", "b"}, out.Queries)
	assert.Len(t, provider.prompts, 1)
}

func TestCall_SelfCorrectionRetrySucceeds(t *testing.T) {
	provider := &scriptedLLM{responses: []string{
		"I think the queries are a and b",
		`{"queries": ["a"]}`,
	}}
	caller := NewCaller(provider)

	var out testShape
	require.NoError(t, caller.Call(context.Background(), "plan", &out))
	assert.Equal(t, []string{"a"}, out.Queries)

	require.Len(t, provider.prompts, 2)
	assert.Contains(t, provider.prompts[1], "<correction>")
	assert.Contains(t, provider.prompts[1], "I think the queries are a and b")
}

func TestCall_SecondFailureIsParseError(t *testing.T) {
	provider := &scriptedLLM{responses: []string{"no json here", "still no json"}}
	caller := NewCaller(provider)

	var out testShape
	err := caller.Call(context.Background(), "plan", &out)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindParse))
	assert.Len(t, provider.prompts, 2)
}

func TestCall_ProviderErrorIsUpstream(t *testing.T) {
	provider := &scriptedLLM{err: errors.New("timeout")}
	caller := NewCaller(provider)

	var out testShape
	err := caller.Call(context.Background(), "plan", &out)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindUpstream))
}
