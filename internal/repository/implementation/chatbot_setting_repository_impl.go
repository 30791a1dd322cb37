package implementation

import (
	"context"
	"errors"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/mapper"
	"lio-chatbot-be/internal/model"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatbotSettingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatbotSettingMapper
}

func NewChatbotSettingRepository(db *gorm.DB) contract.ChatbotSettingRepository {
	return &ChatbotSettingRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatbotSettingMapper(),
	}
}

func (r *ChatbotSettingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatbotSettingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatbotSetting, error) {
	var m model.ChatbotSetting
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ChatbotSettingRepositoryImpl) Upsert(ctx context.Context, setting *entity.ChatbotSetting) error {
	m := r.mapper.ToModel(setting)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tone_examples", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*setting = *r.mapper.ToEntity(m)
	return nil
}
