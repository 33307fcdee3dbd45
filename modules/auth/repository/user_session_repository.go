package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type UserSessionRepository struct {
	sqlHandler *database.SQLHandler[domain.UserSession, domain.UserSessionFilter]
}

func NewUserSessionRepository(db *gorm.DB) *UserSessionRepository {
	return &UserSessionRepository{
		sqlHandler: database.NewSQLHandler[domain.UserSession](db, applySessionFilter),
	}
}

func applySessionFilter(qb *gorm.DB, filter *domain.UserSessionFilter) *gorm.DB {
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
	if filter.RefreshToken != nil {
		qb = qb.Where("refresh_token = ?", *filter.RefreshToken)
	}
	if filter.Active != nil {
		qb = qb.Where("active = ?", *filter.Active)
	}
	if filter.ExpiresAfter != nil {
		qb = qb.Where("expires_at > ?", *filter.ExpiresAfter)
	}
	return qb
}

func (r *UserSessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	return r.sqlHandler.Create(ctx, session)
}

func (r *UserSessionRepository) FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error) {
	return r.sqlHandler.FindByID(ctx, sessionID, option)
}

func (r *UserSessionRepository) FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.UserSession, error) {
	return r.sqlHandler.FindOne(ctx, &domain.UserSessionFilter{RefreshToken: &refreshToken}, nil)
}

// FindActiveByUser returns live sessions oldest first.
func (r *UserSessionRepository) FindActiveByUser(ctx context.Context, userID string, now int64) ([]*domain.UserSession, error) {
	active := true
	return r.sqlHandler.FindMany(ctx, &domain.UserSessionFilter{
		UserID:       &userID,
		Active:       &active,
		ExpiresAfter: &now,
	}, &domain.FindManyOption{Sort: []string{"created_at ASC"}})
}

func (r *UserSessionRepository) UpdateFields(ctx context.Context, sessionID string, fields map[string]any) error {
	return r.sqlHandler.UpdateFields(ctx, sessionID, fields)
}

func (r *UserSessionRepository) Deactivate(ctx context.Context, sessionID string) error {
	return r.sqlHandler.UpdateFields(ctx, sessionID, map[string]any{
		"active":        false,
		"refresh_token": "",
	})
}
