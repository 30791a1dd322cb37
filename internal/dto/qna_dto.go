package dto

import (
	"github.com/google/uuid"
)

type StartGenerationRequest struct {
	PortfolioId uuid.UUID `json:"portfolio_id" validate:"required"`
}

type StartGenerationResponse struct {
	PortfolioId uuid.UUID `json:"portfolio_id"`
	Status      string    `json:"status"`
}

// PublishEmbedMessage asks the embed consumer to (re)compute a vector.
// Exactly one of the ids is set: an item id embeds the item document, a
// qna id embeds the pair's question.
type PublishEmbedMessage struct {
	PortfolioItemId *uuid.UUID `json:"portfolio_item_id,omitempty"`
	QnaId           *uuid.UUID `json:"qna_id,omitempty"`
}

// PublishGenerateQnaMessage triggers a bulk generation run.
type PublishGenerateQnaMessage struct {
	PortfolioId uuid.UUID `json:"portfolio_id"`
}
