package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	sqlHandler *database.SQLHandler[domain.Category, domain.CategoryFilter]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{
		sqlHandler: database.NewSQLHandler[domain.Category](db, applyCategoryFilter),
	}
}

func applyCategoryFilter(qb *gorm.DB, filter *domain.CategoryFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.ParentID != nil {
		qb = qb.Where("parent_id = ?", *filter.ParentID)
	}
	if filter.TopLevel != nil {
		if *filter.TopLevel {
			qb = qb.Where("parent_id IS NULL")
		} else {
			qb = qb.Where("parent_id IS NOT NULL")
		}
	}
	if filter.Name != nil {
		qb = qb.Where("name = ?", *filter.Name)
	}
	return qb
}

var displayOrder = &domain.FindManyOption{Sort: []string{"display_order ASC", "name ASC"}}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.sqlHandler.Create(ctx, category)
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.sqlHandler.FindByID(ctx, id, nil)
}

func (r *CategoryRepository) FindOne(ctx context.Context, filter *domain.CategoryFilter) (*domain.Category, error) {
	return r.sqlHandler.FindOne(ctx, filter, nil)
}

func (r *CategoryRepository) FindTopLevel(ctx context.Context) ([]*domain.Category, error) {
	topLevel := true
	return r.sqlHandler.FindMany(ctx, &domain.CategoryFilter{TopLevel: &topLevel}, displayOrder)
}

func (r *CategoryRepository) FindChildren(ctx context.Context, parentID string) ([]*domain.Category, error) {
	return r.sqlHandler.FindMany(ctx, &domain.CategoryFilter{ParentID: &parentID}, displayOrder)
}
