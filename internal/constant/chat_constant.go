package constant

// Topic classification for synthesized answers. The synthesizer must pick one
// of these; anything else is normalized to MessageTypeOther.
const (
	MessageTypeTechnical  = "technical"
	MessageTypePersonal   = "personal"
	MessageTypeEducation  = "education"
	MessageTypeSuggestion = "suggestion"
	MessageTypeContact    = "contact"
	MessageTypeOther      = "other"
)

// MessageTypes lists every valid topic classification.
var MessageTypes = []string{
	MessageTypeTechnical,
	MessageTypePersonal,
	MessageTypeEducation,
	MessageTypeSuggestion,
	MessageTypeContact,
	MessageTypeOther,
}

// Embedding task types (Gemini task type vocabulary, also passed to other providers)
const (
	EmbeddingTaskQuery    = "RETRIEVAL_QUERY"
	EmbeddingTaskDocument = "RETRIEVAL_DOCUMENT"
)
