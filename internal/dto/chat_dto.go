package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	PortfolioId uuid.UUID `json:"portfolio_id" validate:"required"`
}

type StartSessionResponse struct {
	SessionKey string `json:"session_key"`
}

type SendChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendChatResponse struct {
	Answer string `json:"answer"`
	Type   string `json:"type"`
}

type UpdateToneExamplesRequest struct {
	UserId       uuid.UUID `json:"user_id" validate:"required"`
	ToneExamples []string  `json:"tone_examples" validate:"required,min=1,max=10,dive,required"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
