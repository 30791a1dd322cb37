package planner

import (
	"context"
	"fmt"
	"strings"

	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/llm/structured"
)

// Plan is the structured output the model must produce. An empty query list
// is a valid plan: it means the question can be answered from the
// conversation alone (greetings, follow-ups, small talk).
type Plan struct {
	Queries []string `json:"queries"`
}

// Planner turns a visitor question plus conversation history into a set of
// standalone search queries for retrieval.
type Planner struct {
	caller *structured.Caller
	logger logger.ILogger
}

func New(provider llm.LLMProvider, log logger.ILogger) *Planner {
	return &Planner{
		caller: structured.NewCaller(provider),
		logger: log,
	}
}

func (p *Planner) Plan(ctx context.Context, question, historyTranscript string) ([]string, error) {
	prompt := p.buildPrompt(question, historyTranscript)

	var plan Plan
	if err := p.caller.Call(ctx, prompt, &plan); err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(plan.Queries))
	for _, q := range plan.Queries {
		q = strings.TrimSpace(q)
		if q != "" {
			queries = append(queries, q)
		}
	}

	p.logger.Debug("planner", "query plan produced", map[string]interface{}{
		"question":    question,
		"query_count": len(queries),
	})
	return queries, nil
}

func (p *Planner) buildPrompt(question, historyTranscript string) string {
	var b strings.Builder

	b.WriteString("<task>\n")
	b.WriteString("You decompose a visitor's question about a professional portfolio into standalone search queries.\n")
	b.WriteString("Each query must be self-contained: resolve pronouns and references using the conversation history.\n")
	b.WriteString("If the question needs no portfolio information (greeting, thanks, a question about the conversation itself), return an empty list.\n")
	b.WriteString("</task>\n\n")

	if historyTranscript != "" {
		b.WriteString("<conversation_history>\n")
		b.WriteString(historyTranscript)
		b.WriteString("</conversation_history>\n\n")
	}

	b.WriteString(fmt.Sprintf("Question: %s\n\n", question))
	b.WriteString("Respond with ONLY a JSON object in this exact shape:\n")
	b.WriteString(`{"queries": ["first standalone query", "second standalone query"]}`)
	b.WriteString("\n")

	return b.String()
}
