package repository

import (
	"context"
	"strings"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type IdentityRepository struct {
	sqlHandler *database.SQLHandler[domain.Identity, domain.IdentityFilter]
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{
		sqlHandler: database.NewSQLHandler[domain.Identity](db, applyIdentityFilter),
	}
}

func applyIdentityFilter(qb *gorm.DB, filter *domain.IdentityFilter) *gorm.DB {
	if filter == nil || filter.IncludeDeleted == nil || !*filter.IncludeDeleted {
		qb = qb.Where("deleted_at = 0")
	}
	if filter == nil {
		return qb
	}

	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.Email != nil {
		qb = qb.Where("email = ?", strings.ToLower(strings.TrimSpace(*filter.Email)))
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.ConfirmationToken != nil {
		qb = qb.Where("confirmation_token = ?", *filter.ConfirmationToken)
	}
	return qb
}

func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity) error {
	return r.sqlHandler.Create(ctx, identity)
}

func (r *IdentityRepository) FindByID(ctx context.Context, identityID string, option *domain.FindOneOption) (*domain.Identity, error) {
	return r.sqlHandler.FindByID(ctx, identityID, option)
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.sqlHandler.FindOne(ctx, &domain.IdentityFilter{Email: &email}, nil)
}

func (r *IdentityRepository) UpdateFields(ctx context.Context, identityID string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, identityID, fields)
}

func (r *IdentityRepository) Count(ctx context.Context, filter *domain.IdentityFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
