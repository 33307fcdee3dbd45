package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

// campaignSearchFields are matched case-insensitively by CampaignFilter.SearchTerm.
var campaignSearchFields = map[string]string{
	"description": "campaigns.brand_description",
	"brand":       "brands.brand_name",
}

type CampaignRepository struct {
	sqlHandler *database.SQLHandler[domain.Campaign, domain.CampaignFilter]
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{
		sqlHandler: database.NewSQLHandler[domain.Campaign](db, applyCampaignFilter),
	}
}

func applyCampaignFilter(qb *gorm.DB, filter *domain.CampaignFilter) *gorm.DB {
	qb = qb.Where("campaigns.deleted_at = 0")
	if filter == nil {
		return qb
	}
	if filter.ID != nil {
		qb = qb.Where("campaigns.id = ?", *filter.ID)
	}
	if filter.BrandID != nil {
		qb = qb.Where("campaigns.brand_id = ?", *filter.BrandID)
	}
	if filter.BrandIDIn != nil {
		qb = qb.Where("campaigns.brand_id IN ?", filter.BrandIDIn)
	}
	if filter.Status != nil {
		qb = qb.Where("campaigns.status = ?", *filter.Status)
	}
	if len(filter.IDNotIn) > 0 {
		qb = qb.Where("campaigns.id NOT IN ?", filter.IDNotIn)
	}
	if filter.IdempotencyKey != nil {
		qb = qb.Where("campaigns.idempotency_key = ?", *filter.IdempotencyKey)
	}
	if filter.SearchTerm != nil && *filter.SearchTerm != "" {
		qb = qb.Joins("JOIN brands ON brands.id = campaigns.brand_id AND brands.deleted_at = 0")
		qb = database.ApplySearch(qb, *filter.SearchTerm, nil, campaignSearchFields)
	}
	return qb
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	return r.sqlHandler.Create(ctx, campaign, database.WithOmit("Brand", "Product", "Pricing"))
}

func (r *CampaignRepository) FindByID(ctx context.Context, campaignID string, option *domain.FindOneOption) (*domain.Campaign, error) {
	return r.sqlHandler.FindByID(ctx, campaignID, option)
}

// FindByIdempotencyKey loads the campaign a submit key produced, with its brand.
func (r *CampaignRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Campaign, error) {
	return r.sqlHandler.FindOne(ctx, &domain.CampaignFilter{IdempotencyKey: &key}, &domain.FindOneOption{
		Preloads: []string{"Brand"},
	})
}

func (r *CampaignRepository) FindMany(ctx context.Context, filter *domain.CampaignFilter, option *domain.FindManyOption) ([]*domain.Campaign, error) {
	return r.sqlHandler.FindMany(ctx, filter, option)
}

func (r *CampaignRepository) Count(ctx context.Context, filter *domain.CampaignFilter) (int64, error) {
	return r.sqlHandler.Count(ctx, filter)
}
