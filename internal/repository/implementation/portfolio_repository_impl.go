package implementation

import (
	"context"
	"errors"

	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/mapper"
	"lio-chatbot-be/internal/model"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PortfolioRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PortfolioMapper
}

func NewPortfolioRepository(db *gorm.DB) contract.PortfolioRepository {
	return &PortfolioRepositoryImpl{
		db:     db,
		mapper: mapper.NewPortfolioMapper(),
	}
}

func (r *PortfolioRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PortfolioRepositoryImpl) Create(ctx context.Context, portfolio *entity.Portfolio) error {
	m := r.mapper.ToModel(portfolio)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*portfolio = *r.mapper.ToEntity(m)
	return nil
}

func (r *PortfolioRepositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Portfolio{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *PortfolioRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Portfolio, error) {
	var m model.Portfolio
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PortfolioRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Portfolio, error) {
	var models []*model.Portfolio
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
