package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lio-chatbot-be/internal/constant"
	"lio-chatbot-be/internal/entity"
	"lio-chatbot-be/internal/mapper"
	"lio-chatbot-be/internal/model"
	"lio-chatbot-be/internal/repository/contract"
	"lio-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type QnaRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.QnaMapper
}

func NewQnaRepository(db *gorm.DB) contract.QnaRepository {
	return &QnaRepositoryImpl{
		db:     db,
		mapper: mapper.NewQnaMapper(),
	}
}

func (r *QnaRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *QnaRepositoryImpl) CreateBulk(ctx context.Context, qnas []*entity.QnA) error {
	if len(qnas) == 0 {
		return nil
	}
	models := r.mapper.ToModels(qnas)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*qnas[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *QnaRepositoryImpl) Update(ctx context.Context, qna *entity.QnA) error {
	m := r.mapper.ToModel(qna)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*qna = *r.mapper.ToEntity(m)
	return nil
}

func (r *QnaRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.QnA, error) {
	var m model.QnA
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *QnaRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.QnA, error) {
	var models []*model.QnA
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *QnaRepositoryImpl) DeleteByPortfolioItemId(ctx context.Context, portfolioItemId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("portfolio_item_id = ?", portfolioItemId).Delete(&model.QnA{}).Error
}

// SearchByEmbeddings mirrors the item search but matches the query vectors
// against stored question embeddings by cosine distance, scoped to the items
// already retrieved for this turn.
func (r *QnaRepositoryImpl) SearchByEmbeddings(ctx context.Context, portfolioItemIds []uuid.UUID, embeddings [][]float32, limitPerQuery int) ([]*entity.QnA, error) {
	if len(embeddings) == 0 || len(portfolioItemIds) == 0 {
		return nil, nil
	}
	if limitPerQuery <= 0 {
		limitPerQuery = 4
	}

	placeholders := make([]string, len(embeddings))
	args := make([]interface{}, 0, len(embeddings)+3)
	for i, emb := range embeddings {
		placeholders[i] = "(?::vector)"
		args = append(args, pgvector.NewVector(emb))
	}
	args = append(args, portfolioItemIds, constant.ItemStatusConfirmed, limitPerQuery)

	sql := fmt.Sprintf(`
		SELECT DISTINCT ON (q.id) q.*
		FROM (VALUES %s) AS v(vec)
		CROSS JOIN LATERAL (
			SELECT qnas.*
			FROM qnas
			WHERE qnas.portfolio_item_id IN ?
				AND qnas.status = ?
				AND qnas.question_embedding IS NOT NULL
				AND qnas.deleted_at IS NULL
			ORDER BY qnas.question_embedding <=> v.vec
			LIMIT ?
		) q
		ORDER BY q.id`, strings.Join(placeholders, ", "))

	var models []*model.QnA
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
