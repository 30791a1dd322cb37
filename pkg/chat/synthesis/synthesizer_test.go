package synthesis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/pkg/llm"
)

type fakeLLM struct {
	response string
	prompts  []string
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestSynthesize_PromptCarriesContextAndTone(t *testing.T) {
	provider := &fakeLLM{response: `{"answer": "I built it in Go.", "type": "technical"}`}
	s := New(provider, nopLogger{})

	start := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	items := []*entity.PortfolioItem{{
		Type:      "project",
		Topic:     "billing service",
		Content:   "rewrote the billing service",
		TechStack: []string{"Go", "Postgres"},
		StartDate: &start,
	}}
	qnas := []*entity.QnA{{Question: "What language?", Answer: "Go, mostly."}}

	result, err := s.Synthesize(context.Background(), "what stack?", "Human: hi\nAI: hello\n", items, qnas, []string{"Hey! Happy to walk you through it."})
	require.NoError(t, err)
	assert.Equal(t, "I built it in Go.", result.Answer)
	assert.Equal(t, "technical", result.Type)

	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "billing service")
	assert.Contains(t, prompt, "2023-04 to present")
	assert.Contains(t, prompt, "What language?")
	assert.Contains(t, prompt, "Happy to walk you through it.")
	assert.Contains(t, prompt, "Human: hi")
	assert.Contains(t, prompt, "what stack?")
}

func TestSynthesize_UnknownTypeBecomesOther(t *testing.T) {
	provider := &fakeLLM{response: `{"answer": "Sure.", "type": "smalltalk"}`}
	s := New(provider, nopLogger{})

	result, err := s.Synthesize(context.Background(), "hi", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, constant.MessageTypeOther, result.Type)
}

func TestSynthesize_WorksWithoutRetrievedContext(t *testing.T) {
	provider := &fakeLLM{response: `{"answer": "Hello there!", "type": "other"}`}
	s := New(provider, nopLogger{})

	result, err := s.Synthesize(context.Background(), "hello", "", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", result.Answer)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], `{"items":[],"qnas":[]}`)
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "technical", normalizeType(" Technical "))
	assert.Equal(t, "contact", normalizeType("contact"))
	assert.Equal(t, constant.MessageTypeOther, normalizeType("chitchat"))
	assert.Equal(t, constant.MessageTypeOther, normalizeType(""))
}
