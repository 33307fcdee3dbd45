package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	sqlHandler *database.SQLHandler[domain.Profile, domain.ProfileFilter]
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{
		sqlHandler: database.NewSQLHandler[domain.Profile](db, applyProfileFilter),
	}
}

func applyProfileFilter(qb *gorm.DB, filter *domain.ProfileFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}
	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Role != nil {
		qb = qb.Where("role = ?", *filter.Role)
	}
	return qb
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	return r.sqlHandler.Create(ctx, profile)
}

func (r *ProfileRepository) FindByID(ctx context.Context, profileID string, option *domain.FindOneOption) (*domain.Profile, error) {
	return r.sqlHandler.FindByID(ctx, profileID, option)
}

func (r *ProfileRepository) Count(ctx context.Context, filter *domain.ProfileFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
