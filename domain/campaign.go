package domain

import (
	"context"
	"net/http"
	"time"
)

/******************************
*       Campaign errors       *
******************************/
var (
	ErrCampaignNotFound = &DetailedError{
		IDField:         "CAMPAIGN_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Campaign not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrCampaignSubmitFailed = &DetailedError{
		IDField:         "CAMPAIGN_SUBMIT_FAILED",
		StatusDescField: http.StatusText(http.StatusInternalServerError),
		ErrorField:      "Failed to create campaign",
		StatusCodeField: http.StatusInternalServerError,
	}
	ErrSubmitInProgress = &DetailedError{
		IDField:         "SUBMIT_IN_PROGRESS",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "This submission is already being processed",
		StatusCodeField: http.StatusConflict,
	}
	ErrIdempotencyKeyRequired = &DetailedError{
		IDField:         "IDEMPOTENCY_KEY_REQUIRED",
		StatusDescField: http.StatusText(http.StatusBadRequest),
		ErrorField:      "Idempotency-Key header is required",
		StatusCodeField: http.StatusBadRequest,
	}
	ErrIdempotencyKeyReused = &DetailedError{
		IDField:         "IDEMPOTENCY_KEY_REUSED",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Idempotency key was already used by another brand",
		StatusCodeField: http.StatusConflict,
	}
)

/***************************************
*     Campaign entities and types      *
***************************************/
type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

type Campaign struct {
	SQLModel
	BrandID              string         `json:"brand_id" gorm:"type:varchar(36);not null;index"`
	Status               CampaignStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	BrandDescription     string         `json:"brand_description" gorm:"type:text"`
	RecruitmentStart     time.Time      `json:"recruitment_start" gorm:"type:date"`
	RecruitmentEnd       time.Time      `json:"recruitment_end" gorm:"type:date"`
	SelectionStart       time.Time      `json:"selection_start" gorm:"type:date"`
	SelectionEnd         time.Time      `json:"selection_end" gorm:"type:date"`
	ShippingDate         time.Time      `json:"shipping_date" gorm:"type:date"`
	ContentStart         time.Time      `json:"content_start" gorm:"type:date"`
	ContentEnd           time.Time      `json:"content_end" gorm:"type:date"`
	DeliveryService      Carrier        `json:"delivery_service" gorm:"type:varchar(16);not null"`
	DeliveryServiceOther string         `json:"delivery_service_other,omitempty" gorm:"type:varchar(100)"`
	IdempotencyKey       string         `json:"-" gorm:"type:varchar(128);uniqueIndex"`

	Brand   *Brand           `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	Product *Product         `json:"product,omitempty" gorm:"foreignKey:CampaignID"`
	Pricing *CampaignPricing `json:"pricing,omitempty" gorm:"foreignKey:CampaignID"`
}

type Product struct {
	SQLModel
	CampaignID    string  `json:"campaign_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	ProductName   string  `json:"product_name" gorm:"type:varchar(255);not null"`
	ProductURL    string  `json:"product_url" gorm:"type:text;not null"`
	RetailPrice   int64   `json:"retail_price" gorm:"not null"`
	CategoryID    string  `json:"category_id" gorm:"type:varchar(36);not null"`
	SubcategoryID *string `json:"subcategory_id,omitempty" gorm:"type:varchar(36)"`
	Quantity      int     `json:"quantity" gorm:"not null"`

	Colors []*ProductColor `json:"colors,omitempty" gorm:"foreignKey:ProductID"`
	Images []*ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID"`
}

type ProductColor struct {
	SQLModel
	ProductID         string `json:"product_id" gorm:"type:varchar(36);not null;index"`
	ColorCode         string `json:"color_code" gorm:"type:varchar(7);not null"`
	ColorName         string `json:"color_name" gorm:"type:varchar(100);not null"`
	ThumbnailImageURL string `json:"thumbnail_image_url" gorm:"type:text"`
	Quantity          int    `json:"quantity" gorm:"not null"`
	DisplayOrder      int    `json:"display_order" gorm:"not null"`
}

type ProductImage struct {
	SQLModel
	ProductID    string `json:"product_id" gorm:"type:varchar(36);not null;index"`
	ImageURL     string `json:"image_url" gorm:"type:text;not null"`
	DisplayOrder int    `json:"display_order" gorm:"not null"`
}

type CampaignPricing struct {
	SQLModel
	CampaignID      string `json:"campaign_id" gorm:"type:varchar(36);not null;uniqueIndex"`
	BasePrice       int64  `json:"base_price" gorm:"not null"`
	AllowHigherTier bool   `json:"allow_higher_tier" gorm:"not null"`
	HigherTierPrice *int64 `json:"higher_tier_price,omitempty"`
	ProductQuantity int    `json:"product_quantity" gorm:"not null"`
	TotalBudget     int64  `json:"total_budget" gorm:"not null"`
}

type CampaignFilter struct {
	ID        *string         `json:"id,omitempty"`
	BrandID   *string         `json:"brand_id,omitempty"`
	BrandIDIn []string        `json:"brand_id_in,omitempty"`
	Status    *CampaignStatus `json:"status,omitempty"`
	IDNotIn   []string        `json:"-"`
	// SearchTerm matches brand_description and the brand name, ignoring case.
	SearchTerm     *string `json:"search,omitempty" form:"search"`
	IdempotencyKey *string `json:"-"`
}

/***************************************
*   Campaign usecase interfaces/types   *
***************************************/
type CampaignUsecase interface {
	// Submit persists the draft as one campaign graph. Repeating a call with
	// the same idempotency key returns the campaign created the first time.
	Submit(ctx context.Context, req *SubmitDraftRequest) (*SubmitResult, error)
	FindByID(ctx context.Context, campaignID string) (*Campaign, error)
}

type SubmitDraftRequest struct {
	OwnerID        string
	DraftID        string
	IdempotencyKey string
}

type SubmitResult struct {
	Campaign *Campaign `json:"campaign"`
	// Replayed is true when the key had already produced this campaign.
	Replayed bool `json:"replayed"`
}
