package mapper

import (
	"encoding/json"
	"time"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/model"

	"gorm.io/datatypes"
)

type ChatbotSettingMapper struct{}

func NewChatbotSettingMapper() *ChatbotSettingMapper {
	return &ChatbotSettingMapper{}
}

func (m *ChatbotSettingMapper) ToEntity(s *model.ChatbotSetting) *entity.ChatbotSetting {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var toneExamples []string
	if len(s.ToneExamples) > 0 {
		_ = json.Unmarshal(s.ToneExamples, &toneExamples)
	}

	return &entity.ChatbotSetting{
		Id:           s.Id,
		UserId:       s.UserId,
		ToneExamples: toneExamples,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChatbotSettingMapper) ToModel(s *entity.ChatbotSetting) *model.ChatbotSetting {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var toneExamples datatypes.JSON
	if len(s.ToneExamples) > 0 {
		raw, err := json.Marshal(s.ToneExamples)
		if err == nil {
			toneExamples = raw
		}
	}

	return &model.ChatbotSetting{
		Id:           s.Id,
		UserId:       s.UserId,
		ToneExamples: toneExamples,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}
