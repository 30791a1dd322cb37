package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/llm/structured"
)

// Result is the structured synthesizer output: the visitor-facing answer and
// a topic classification for analytics.
type Result struct {
	Answer string `json:"answer"`
	Type   string `json:"type"`
}

// Synthesizer produces the final answer for a turn. It works with or without
// retrieved context: an empty context still yields an answer grounded in the
// conversation alone.
type Synthesizer struct {
	caller *structured.Caller
	logger logger.ILogger
}

func New(provider llm.LLMProvider, log logger.ILogger) *Synthesizer {
	return &Synthesizer{
		caller: structured.NewCaller(provider),
		logger: log,
	}
}

func (s *Synthesizer) Synthesize(
	ctx context.Context,
	question string,
	historyTranscript string,
	items []*entity.PortfolioItem,
	qnas []*entity.QnA,
	toneExamples []string,
) (*Result, error) {
	prompt := s.buildPrompt(question, historyTranscript, items, qnas, toneExamples)

	var result Result
	if err := s.caller.Call(ctx, prompt, &result); err != nil {
		return nil, err
	}

	result.Type = normalizeType(result.Type)

	s.logger.Debug("synthesis", "answer produced", map[string]interface{}{
		"type":  result.Type,
		"items": len(items),
		"qnas":  len(qnas),
	})
	return &result, nil
}

// normalizeType collapses anything outside the closed topic set to "other".
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	for _, known := range constant.MessageTypes {
		if t == known {
			return t
		}
	}
	return constant.MessageTypeOther
}

type itemContext struct {
	Type      string   `json:"type"`
	Topic     string   `json:"topic"`
	Period    string   `json:"period,omitempty"`
	Content   string   `json:"content"`
	TechStack []string `json:"tech_stack,omitempty"`
}

type qnaContext struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (s *Synthesizer) buildPrompt(
	question string,
	historyTranscript string,
	items []*entity.PortfolioItem,
	qnas []*entity.QnA,
	toneExamples []string,
) string {
	var b strings.Builder

	b.WriteString("<task>\n")
	b.WriteString("You are the portfolio owner's assistant, answering a visitor's question on their behalf.\n")
	b.WriteString("Answer ONLY from the portfolio context and the conversation history. If the context does not cover the question, say so briefly instead of inventing facts.\n")
	b.WriteString("Classify the question topic as one of: technical, personal, education, suggestion, contact, other.\n")
	b.WriteString("</task>\n\n")

	if len(toneExamples) > 0 {
		b.WriteString("<tone_examples>\n")
		b.WriteString("Mimic the voice of these example answers:\n")
		for _, example := range toneExamples {
			b.WriteString(fmt.Sprintf("- %s\n", example))
		}
		b.WriteString("</tone_examples>\n\n")
	}

	if historyTranscript != "" {
		b.WriteString("<conversation_history>\n")
		b.WriteString(historyTranscript)
		b.WriteString("</conversation_history>\n\n")
	}

	b.WriteString("<portfolio_context>\n")
	b.WriteString(s.renderContext(items, qnas))
	b.WriteString("\n</portfolio_context>\n\n")

	b.WriteString(fmt.Sprintf("Question: %s\n\n", question))
	b.WriteString("Respond with ONLY a JSON object in this exact shape:\n")
	b.WriteString(`{"answer": "your answer to the visitor", "type": "technical|personal|education|suggestion|contact|other"}`)
	b.WriteString("\n")

	return b.String()
}

func (s *Synthesizer) renderContext(items []*entity.PortfolioItem, qnas []*entity.QnA) string {
	blob := struct {
		Items []itemContext `json:"items"`
		Qnas  []qnaContext  `json:"qnas"`
	}{
		Items: make([]itemContext, 0, len(items)),
		Qnas:  make([]qnaContext, 0, len(qnas)),
	}

	for _, item := range items {
		ic := itemContext{
			Type:      item.Type,
			Topic:     item.Topic,
			Content:   item.Content,
			TechStack: item.TechStack,
		}
		if item.StartDate != nil {
			period := item.StartDate.Format("2006-01")
			if item.EndDate != nil {
				period += " to " + item.EndDate.Format("2006-01")
			} else {
				period += " to present"
			}
			ic.Period = period
		}
		blob.Items = append(blob.Items, ic)
	}

	for _, q := range qnas {
		blob.Qnas = append(blob.Qnas, qnaContext{Question: q.Question, Answer: q.Answer})
	}

	raw, err := json.Marshal(blob)
	if err != nil {
		return `{"items":[],"qnas":[]}`
	}
	return string(raw)
}
