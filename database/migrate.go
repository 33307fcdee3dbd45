package database

import (
	"campaign-platform/domain"

	"gorm.io/gorm"
)

// Models lists every persisted entity in dependency order.
func Models() []any {
	return []any{
		&domain.Identity{},
		&domain.UserSession{},
		&domain.Profile{},
		&domain.Brand{},
		&domain.Category{},
		&domain.Campaign{},
		&domain.Product{},
		&domain.ProductColor{},
		&domain.ProductImage{},
		&domain.CampaignPricing{},
		&domain.Application{},
		&domain.EmailLog{},
	}
}

func MigrateDB(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
