// Package structured layers schema-directed output on top of an LLMProvider.
// Providers return free text; the caller extracts the first JSON object from
// the response and unmarshals it into the requested shape. A malformed
// response is retried exactly once with a self-correction prompt before it is
// reported as a parse failure.
package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lio-chatbot-be/internal/pkg/apperrors"
	"lio-chatbot-be/pkg/llm"
)

type Caller struct {
	provider llm.LLMProvider
}

func NewCaller(provider llm.LLMProvider) *Caller {
	return &Caller{provider: provider}
}

// Call sends prompt to the model and decodes the JSON object in the response
// into out. On a decode failure it re-prompts the same model once, quoting the
// invalid output and the decode error.
func (c *Caller) Call(ctx context.Context, prompt string, out interface{}, opts ...llm.Option) error {
	response, err := c.provider.Generate(ctx, prompt, opts...)
	if err != nil {
		return apperrors.Upstream("structured generation call failed", err)
	}

	decodeErr := decodeInto(response, out)
	if decodeErr == nil {
		return nil
	}

	// Single self-correction retry
	correction := buildCorrectionPrompt(prompt, response, decodeErr)
	retryResponse, err := c.provider.Generate(ctx, correction, opts...)
	if err != nil {
		return apperrors.Upstream("structured generation retry failed", err)
	}
	if err := decodeInto(retryResponse, out); err != nil {
		return apperrors.Parse("model output does not conform to schema after retry", err)
	}
	return nil
}

func decodeInto(response string, out interface{}) error {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return fmt.Errorf("no JSON found in response")
	}
	if err := json.Unmarshal([]byte(jsonContent), out); err != nil {
		return fmt.Errorf("JSON unmarshal failed: %w", err)
	}
	return nil
}

func buildCorrectionPrompt(original, invalidOutput string, decodeErr error) string {
	var b strings.Builder
	b.WriteString(original)
	b.WriteString("\n\n<correction>\n")
	b.WriteString("Your previous response could not be parsed:\n")
	b.WriteString(invalidOutput)
	b.WriteString(fmt.Sprintf("\n\nParse error: %v\n", decodeErr))
	b.WriteString("Respond again with ONLY a valid JSON object matching the requested format. No prose, no code fences.\n")
	b.WriteString("</correction>")
	return b.String()
}

// extractJSON pulls the outermost JSON object out of a model response that may
// wrap it in prose or code fences.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
