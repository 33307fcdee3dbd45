package domain

import "context"

// DashboardKind is the view selected for a role.
type DashboardKind string

const (
	DashboardSuperAdmin DashboardKind = "super_admin"
	DashboardBrand      DashboardKind = "brand"
	DashboardCreator    DashboardKind = "creator"
)

type CreatorTab string

const (
	CreatorTabAvailable CreatorTab = "available"
	CreatorTabApplied   CreatorTab = "applied"
)

type BrandStats struct {
	TotalCampaigns    int64 `json:"totalCampaigns"`
	ActiveCampaigns   int64 `json:"activeCampaigns"`
	TotalApplications int64 `json:"totalApplications"`
}

type BrandCampaignSummary struct {
	Campaign         *Campaign `json:"campaign"`
	ProductName      string    `json:"productName"`
	TotalBudget      int64     `json:"totalBudget"`
	ApplicationCount int64     `json:"applicationCount"`
}

type BrandDashboard struct {
	Brands    []*Brand                `json:"brands"`
	Stats     BrandStats              `json:"stats"`
	Campaigns []*BrandCampaignSummary `json:"campaigns"`
}

type CreatorStats struct {
	AvailableCampaigns int64 `json:"availableCampaigns"`
	AppliedCampaigns   int64 `json:"appliedCampaigns"`
	ApprovedCampaigns  int64 `json:"approvedCampaigns"`
}

type CreatorDashboard struct {
	Tab          CreatorTab     `json:"tab"`
	Stats        CreatorStats   `json:"stats"`
	Campaigns    []*Campaign    `json:"campaigns,omitempty"`
	Applications []*Application `json:"applications,omitempty"`
}

type SuperAdminStats struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalBrands     int64 `json:"totalBrands"`
	TotalCampaigns  int64 `json:"totalCampaigns"`
	ActiveCampaigns int64 `json:"activeCampaigns"`
}

type SuperAdminDashboard struct {
	Stats SuperAdminStats `json:"stats"`
}

// Dashboard carries exactly one of the role payloads, named by Kind.
type Dashboard struct {
	Kind       DashboardKind        `json:"kind"`
	Profile    *Profile             `json:"profile"`
	Brand      *BrandDashboard      `json:"brand,omitempty"`
	Creator    *CreatorDashboard    `json:"creator,omitempty"`
	SuperAdmin *SuperAdminDashboard `json:"superAdmin,omitempty"`
}

type DashboardQuery struct {
	Tab    CreatorTab `form:"tab" binding:"omitempty,oneof=available applied"`
	Search string     `form:"search" binding:"max=100"`
	Limit  int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

type DashboardUsecase interface {
	Get(ctx context.Context, identityID string, query *DashboardQuery) (*Dashboard, error)
}
