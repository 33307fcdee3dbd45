package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type EmailLogRepository struct {
	sqlHandler *database.SQLHandler[domain.EmailLog, domain.EmailLogFilter]
}

func NewEmailLogRepository(db *gorm.DB) *EmailLogRepository {
	return &EmailLogRepository{
		sqlHandler: database.NewSQLHandler[domain.EmailLog](db, applyEmailLogFilter),
	}
}

func applyEmailLogFilter(qb *gorm.DB, filter *domain.EmailLogFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}

	if filter.Recipient != nil {
		qb = qb.Where("recipient = ?", *filter.Recipient)
	}
	if filter.Template != nil {
		qb = qb.Where("template = ?", *filter.Template)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	if filter.SentAfter != nil {
		qb = qb.Where("sent_at >= ?", *filter.SentAfter)
	}
	if filter.SentBefore != nil {
		qb = qb.Where("sent_at <= ?", *filter.SentBefore)
	}
	return qb
}

func (r *EmailLogRepository) Create(ctx context.Context, emailLog *domain.EmailLog) error {
	return r.sqlHandler.Create(ctx, emailLog)
}

func (r *EmailLogRepository) Update(ctx context.Context, emailLog *domain.EmailLog) error {
	return r.sqlHandler.Update(ctx, emailLog)
}

func (r *EmailLogRepository) FindMany(ctx context.Context, filter *domain.EmailLogFilter, option *domain.FindManyOption) ([]*domain.EmailLog, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *EmailLogRepository) Count(ctx context.Context, filter *domain.EmailLogFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
