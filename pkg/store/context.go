package store

import (
	"fmt"
	"strings"
)

// ConversationTurn is one completed (visitor input, assistant answer) exchange.
type ConversationTurn struct {
	Input  string `json:"input"`
	Answer string `json:"answer"`
}

// ConversationContext is the bounded per-session state kept in the session
// store. Turn order is significant; older turns may be collapsed into a single
// synthetic summary turn by the compactor.
type ConversationContext struct {
	Turns []ConversationTurn `json:"context"`
}

// SerializeHistory renders turns into the plain-text transcript format the
// prompts expect.
func SerializeHistory(turns []ConversationTurn) string {
	if len(turns) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range turns {
		b.WriteString(fmt.Sprintf("Human: %s\nAI: %s\n", t.Input, t.Answer))
	}
	return b.String()
}
