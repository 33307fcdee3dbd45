package repository

import (
	"context"

	"campaign-platform/database"
	"campaign-platform/domain"

	"gorm.io/gorm"
)

type noFilter struct{}

func liveRows[V any](qb *gorm.DB, _ *V) *gorm.DB {
	return qb.Where("deleted_at = 0")
}

// ProductRepository writes a campaign's product with its colors and images.
type ProductRepository struct {
	products *database.SQLHandler[domain.Product, noFilter]
	colors   *database.SQLHandler[domain.ProductColor, noFilter]
	images   *database.SQLHandler[domain.ProductImage, noFilter]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{
		products: database.NewSQLHandler[domain.Product](db, liveRows[noFilter]),
		colors:   database.NewSQLHandler[domain.ProductColor](db, liveRows[noFilter]),
		images:   database.NewSQLHandler[domain.ProductImage](db, liveRows[noFilter]),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.products.Create(ctx, product, database.WithOmit("Colors", "Images"))
}

func (r *ProductRepository) CreateColors(ctx context.Context, colors []*domain.ProductColor) error {
	return r.colors.CreateMany(ctx, colors)
}

func (r *ProductRepository) CreateImages(ctx context.Context, images []*domain.ProductImage) error {
	return r.images.CreateMany(ctx, images)
}

type PricingRepository struct {
	sqlHandler *database.SQLHandler[domain.CampaignPricing, noFilter]
}

func NewPricingRepository(db *gorm.DB) *PricingRepository {
	return &PricingRepository{
		sqlHandler: database.NewSQLHandler[domain.CampaignPricing](db, liveRows[noFilter]),
	}
}

func (r *PricingRepository) Create(ctx context.Context, pricing *domain.CampaignPricing) error {
	return r.sqlHandler.Create(ctx, pricing)
}
