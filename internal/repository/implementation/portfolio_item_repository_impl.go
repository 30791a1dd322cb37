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

type PortfolioItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PortfolioItemMapper
}

func NewPortfolioItemRepository(db *gorm.DB) contract.PortfolioItemRepository {
	return &PortfolioItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewPortfolioItemMapper(),
	}
}

func (r *PortfolioItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PortfolioItemRepositoryImpl) Create(ctx context.Context, item *entity.PortfolioItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *PortfolioItemRepositoryImpl) Update(ctx context.Context, item *entity.PortfolioItem) error {
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *PortfolioItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PortfolioItem, error) {
	var m model.PortfolioItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PortfolioItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PortfolioItem, error) {
	var models []*model.PortfolioItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchByEmbeddings runs every query in a single round trip: the query
// vectors go in as a VALUES list and a lateral join pulls the top matches
// per vector by L2 distance. DISTINCT ON collapses items matched by more
// than one query.
func (r *PortfolioItemRepositoryImpl) SearchByEmbeddings(ctx context.Context, portfolioId uuid.UUID, embeddings [][]float32, limitPerQuery int) ([]*entity.PortfolioItem, error) {
	if len(embeddings) == 0 {
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
	args = append(args, portfolioId, constant.ItemStatusConfirmed, limitPerQuery)

	sql := fmt.Sprintf(`
		SELECT DISTINCT ON (pi.id) pi.*
		FROM (VALUES %s) AS q(vec)
		CROSS JOIN LATERAL (
			SELECT portfolio_items.*
			FROM portfolio_items
			WHERE portfolio_items.portfolio_id = ?
				AND portfolio_items.status = ?
				AND portfolio_items.embedding IS NOT NULL
				AND portfolio_items.deleted_at IS NULL
			ORDER BY portfolio_items.embedding <-> q.vec
			LIMIT ?
		) pi
		ORDER BY pi.id`, strings.Join(placeholders, ", "))

	var models []*model.PortfolioItem
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
