package factory

import (
	"fmt"

	"lio-chatbot-be/pkg/llm"
	"lio-chatbot-be/pkg/llm/gemini"
	"lio-chatbot-be/pkg/llm/ollama"
)

// NewLLMProvider selects the configured LLM backend.
func NewLLMProvider(providerName, modelName, ollamaBaseURL, geminiApiKey string) (llm.LLMProvider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "gemini":
		if geminiApiKey == "" {
			return nil, fmt.Errorf("gemini provider selected but GOOGLE_GEMINI_API_KEY is empty")
		}
		return gemini.NewGeminiProvider(geminiApiKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
