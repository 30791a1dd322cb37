package compaction

import (
	"context"
	"fmt"
	"strings"

	"lio-chatbot-be/internal/pkg/logger"
	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/store"
)

const (
	// TriggerThreshold is the turn count above which compaction kicks in.
	TriggerThreshold = 10
	// KeepRecent is how many of the latest turns survive verbatim.
	KeepRecent = 3
	// HardCap bounds the context size no matter what the summarizer did.
	HardCap = 20
)

// Compactor keeps the rolling conversation context bounded. When the context
// grows past the trigger threshold, everything but the most recent turns is
// folded into a single summary turn. Compaction is best-effort: if the
// summarizer fails, the uncompacted context is kept so no turn is ever lost.
type Compactor struct {
	provider llm.LLMProvider
	logger   logger.ILogger
}

func New(provider llm.LLMProvider, log logger.ILogger) *Compactor {
	return &Compactor{
		provider: provider,
		logger:   log,
	}
}

// Append folds the finished turn into the context, compacting first when the
// context has outgrown the trigger threshold.
func (c *Compactor) Append(ctx context.Context, convo store.ConversationContext, turn store.ConversationTurn) store.ConversationContext {
	if len(convo.Turns) > TriggerThreshold {
		convo = c.summarize(ctx, convo)
	}

	convo.Turns = append(convo.Turns, turn)

	if len(convo.Turns) > HardCap {
		convo.Turns = convo.Turns[len(convo.Turns)-HardCap:]
	}
	return convo
}

func (c *Compactor) summarize(ctx context.Context, convo store.ConversationContext) store.ConversationContext {
	cutoff := len(convo.Turns) - KeepRecent
	older := convo.Turns[:cutoff]
	recent := convo.Turns[cutoff:]

	summary, err := c.summarizeTurns(ctx, older)
	if err != nil {
		c.logger.Warn("compaction", "summarization failed, keeping uncompacted context", map[string]interface{}{
			"turns": len(convo.Turns),
			"error": err.Error(),
		})
		return convo
	}

	turns := make([]store.ConversationTurn, 0, KeepRecent+1)
	turns = append(turns, store.ConversationTurn{
		Input:  "Summary of the earlier conversation",
		Answer: summary,
	})
	turns = append(turns, recent...)

	c.logger.Info("compaction", "context compacted", map[string]interface{}{
		"before": len(convo.Turns),
		"after":  len(turns),
	})
	return store.ConversationContext{Turns: turns}
}

func (c *Compactor) summarizeTurns(ctx context.Context, turns []store.ConversationTurn) (string, error) {
	var b strings.Builder
	b.WriteString("<task>\n")
	b.WriteString("Summarize the conversation below into a short paragraph.\n")
	b.WriteString("Preserve every fact, name, and commitment mentioned; drop pleasantries.\n")
	b.WriteString("</task>\n\n")
	b.WriteString(store.SerializeHistory(turns))

	summary, err := c.provider.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("failed to summarize conversation: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarizer returned empty output")
	}
	return summary, nil
}
