package embedding

import "context"

// Dimension of all stored vectors (Gemini text-embedding-004; Ollama models
// must be configured to match).
const Dimension = 768

// EmbeddingProvider defines the interface for generating text embeddings.
// Embed is batched: one call per group of texts, one vector per text, in order.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string, taskType string) ([][]float32, error)
}
