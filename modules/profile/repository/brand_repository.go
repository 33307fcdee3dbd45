package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type BrandRepository struct {
	sqlHandler *database.SQLHandler[domain.Brand, domain.BrandFilter]
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{
		sqlHandler: database.NewSQLHandler[domain.Brand](db, applyBrandFilter),
	}
}

func applyBrandFilter(qb *gorm.DB, filter *domain.BrandFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}
	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.UserID != nil {
		qb = qb.Where("user_id = ?", *filter.UserID)
	}
	return qb
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	return r.sqlHandler.Create(ctx, brand)
}

func (r *BrandRepository) FindByID(ctx context.Context, brandID string, option *domain.FindOneOption) (*domain.Brand, error) {
	return r.sqlHandler.FindByID(ctx, brandID, option)
}

// FindByOwner returns the caller's brands, oldest first.
func (r *BrandRepository) FindByOwner(ctx context.Context, userID string) ([]*domain.Brand, error) {
	return r.sqlHandler.FindMany(ctx, &domain.BrandFilter{UserID: &userID}, &domain.FindManyOption{
		Sort: []string{"created_at ASC", "id ASC"},
	})
}

func (r *BrandRepository) Count(ctx context.Context, filter *domain.BrandFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
