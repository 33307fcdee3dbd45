package domain

import (
	"context"
	"net/http"
)

/******************************
*      Application errors     *
******************************/
var (
	ErrAlreadyApplied = &DetailedError{
		IDField:         "ALREADY_APPLIED",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "You have already applied to this campaign",
		StatusCodeField: http.StatusConflict,
	}
	ErrCampaignNotOpen = &DetailedError{
		IDField:         "CAMPAIGN_NOT_OPEN",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Campaign is not accepting applications",
		StatusCodeField: http.StatusConflict,
	}
	ErrApplicationNotFound = &DetailedError{
		IDField:         "APPLICATION_NOT_FOUND",
		StatusDescField: http.StatusText(http.StatusNotFound),
		ErrorField:      "Application not found",
		StatusCodeField: http.StatusNotFound,
	}
	ErrApplicationReviewed = &DetailedError{
		IDField:         "APPLICATION_ALREADY_REVIEWED",
		StatusDescField: http.StatusText(http.StatusConflict),
		ErrorField:      "Application has already been reviewed",
		StatusCodeField: http.StatusConflict,
	}
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

type Application struct {
	SQLModel
	CampaignID string            `json:"campaign_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_application_campaign_creator,priority:1"`
	CreatorID  string            `json:"creator_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_application_campaign_creator,priority:2;index"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	AppliedAt  int64             `json:"applied_at" gorm:"not null"`
	ReviewedAt *int64            `json:"reviewed_at,omitempty"`

	Campaign *Campaign `json:"campaign,omitempty" gorm:"foreignKey:CampaignID"`
}

type ApplicationFilter struct {
	ID           *string            `json:"id,omitempty"`
	CampaignID   *string            `json:"campaign_id,omitempty"`
	CampaignIDIn []string           `json:"-"`
	CreatorID    *string            `json:"creator_id,omitempty"`
	Status       *ApplicationStatus `json:"status,omitempty" form:"status"`
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, creatorID, campaignID string) (*Application, error)
	// Review is allowed only for the brand admin who owns the campaign.
	Review(ctx context.Context, ownerID, applicationID string, req *ReviewApplicationRequest) (*Application, error)
	ListForCampaign(ctx context.Context, ownerID, campaignID string, query *ListApplicationsQuery) (*ApplicationPage, error)
}

type ListApplicationsQuery struct {
	Status  ApplicationStatus `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Page    int               `form:"page" binding:"omitempty,min=1"`
	PerPage int               `form:"per_page" binding:"omitempty,min=1,max=100"`
}

type ApplicationPage struct {
	Items      []*Application `json:"items"`
	Pagination *Pagination    `json:"pagination"`
}

type ReviewApplicationRequest struct {
	Decision ApplicationStatus `json:"decision" binding:"required,oneof=approved rejected"`
}
