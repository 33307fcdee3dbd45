package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db         *gorm.DB
	sqlHandler *database.SQLHandler[domain.Application, domain.ApplicationFilter]
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{
		db:         db,
		sqlHandler: database.NewSQLHandler[domain.Application](db, applyApplicationFilter),
	}
}

func applyApplicationFilter(qb *gorm.DB, filter *domain.ApplicationFilter) *gorm.DB {
	qb = qb.Where("deleted_at = 0")
	if filter == nil {
		return qb
	}
	if filter.ID != nil {
		qb = qb.Where("id = ?", *filter.ID)
	}
	if filter.CampaignID != nil {
		qb = qb.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.CampaignIDIn != nil {
		qb = qb.Where("campaign_id IN ?", filter.CampaignIDIn)
	}
	if filter.CreatorID != nil {
		qb = qb.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.Status != nil {
		qb = qb.Where("status = ?", *filter.Status)
	}
	return qb
}

func (r *ApplicationRepository) Create(ctx context.Context, application *domain.Application) error {
	return r.sqlHandler.Create(ctx, application, database.WithOmit("Campaign"))
}

func (r *ApplicationRepository) FindByID(ctx context.Context, applicationID string, option *domain.FindOneOption) (*domain.Application, error) {
	return r.sqlHandler.FindByID(ctx, applicationID, option)
}

func (r *ApplicationRepository) FindOne(ctx context.Context, filter *domain.ApplicationFilter) (*domain.Application, error) {
	return r.sqlHandler.FindOne(ctx, filter, nil)
}

func (r *ApplicationRepository) FindMany(ctx context.Context, filter *domain.ApplicationFilter, option *domain.FindManyOption) ([]*domain.Application, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *ApplicationRepository) FindPage(ctx context.Context, filter *domain.ApplicationFilter, option *domain.FindPageOption) ([]*domain.Application, *domain.Pagination, error) {
	return r.sqlHandler.FindPage(ctx, filter, option)
}

func (r *ApplicationRepository) Count(ctx context.Context, filter *domain.ApplicationFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}

// MarkReviewed moves a pending application to status. It returns
// domain.ErrRecordNotFound when the row is gone or no longer pending.
func (r *ApplicationRepository) MarkReviewed(ctx context.Context, applicationID string, status domain.ApplicationStatus, reviewedAt int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ? AND status = ? AND deleted_at = 0", applicationID, domain.ApplicationPending).
		Updates(map[string]any{"status": status, "reviewed_at": reviewedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// CountByCampaign returns the live application count per campaign. Campaigns
// without applications are absent from the map.
func (r *ApplicationRepository) CountByCampaign(ctx context.Context, campaignIDs []string) (map[string]int64, error) {
	counts := map[string]int64{}
	if len(campaignIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CampaignID string
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Application{}).
		Select("campaign_id, COUNT(*) AS total").
		Where("campaign_id IN ? AND deleted_at = 0", campaignIDs).
		Group("campaign_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CampaignID] = row.Total
	}
	return counts, nil
}

// AppliedCampaignIDs lists every campaign the creator has applied to.
func (r *ApplicationRepository) AppliedCampaignIDs(ctx context.Context, creatorID string) ([]string, error) {
	applications, err := r.sqlHandler.FindMany(ctx, &domain.ApplicationFilter{CreatorID: &creatorID}, nil)
	if err != nil {
		return nil, err
	}
	return lo.Map(applications, func(a *domain.Application, _ int) string { return a.CampaignID }), nil
}
