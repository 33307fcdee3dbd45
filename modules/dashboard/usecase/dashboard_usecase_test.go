package usecase_test

import (
	"context"
	"testing"

	"campaign-platform/database"
	"campaign-platform/database/dbtest"
	"campaign-platform/domain"
	applicationrepo "campaign-platform/modules/application/repository"
	authrepo "campaign-platform/modules/auth/repository"
	campaignrepo "campaign-platform/modules/campaign/repository"
	"campaign-platform/modules/dashboard/usecase"
	profilerepo "campaign-platform/modules/profile/repository"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeProfiles struct {
	resolve func(ctx context.Context, identityID string) (*domain.Profile, error)
}

func (f *fakeProfiles) Resolve(ctx context.Context, identityID string) (*domain.Profile, error) {
	return f.resolve(ctx, identityID)
}

func profilesByID(profiles map[string]domain.Role) *fakeProfiles {
	return &fakeProfiles{resolve: func(_ context.Context, id string) (*domain.Profile, error) {
		role, ok := profiles[id]
		if !ok {
			return nil, domain.ErrProfileIncomplete
		}
		return &domain.Profile{SQLModel: domain.SQLModel{ID: id}, Role: role, FullName: id}, nil
	}}
}

func newDashboard(t *testing.T, profiles *fakeProfiles) (*usecase.DashboardUsecase, *gorm.DB) {
	t.Helper()
	db := dbtest.NewTestDB(t, database.Models()...)

	require.NoError(t, db.Create(&domain.Identity{SQLModel: domain.SQLModel{ID: "owner-1"}, Email: "o@x.io", Password: "x", Status: domain.IdentityActive}).Error)
	require.NoError(t, db.Create(&domain.Identity{SQLModel: domain.SQLModel{ID: "creator-1"}, Email: "c@x.io", Password: "x", Status: domain.IdentityActive}).Error)
	for _, b := range []*domain.Brand{
		{SQLModel: domain.SQLModel{ID: "brand-1"}, UserID: "owner-1", BrandName: "Acme Beauty"},
		{SQLModel: domain.SQLModel{ID: "brand-2"}, UserID: "owner-2", BrandName: "Zenith Shoes"},
	} {
		require.NoError(t, db.Create(b).Error)
	}
	for i, c := range []*domain.Campaign{
		{SQLModel: domain.SQLModel{ID: "c-1"}, BrandID: "brand-1", Status: domain.CampaignStatusActive, BrandDescription: "glow serum"},
		{SQLModel: domain.SQLModel{ID: "c-2"}, BrandID: "brand-1", Status: domain.CampaignStatusCompleted, BrandDescription: "old launch"},
		{SQLModel: domain.SQLModel{ID: "c-3"}, BrandID: "brand-2", Status: domain.CampaignStatusActive, BrandDescription: "running"},
	} {
		c.DeliveryService = domain.CarrierCJ
		c.IdempotencyKey = "k-" + c.ID
		c.CreatedAt = int64(1000 + i)
		require.NoError(t, db.Create(c).Error)
		require.NoError(t, db.Create(&domain.Product{CampaignID: c.ID, ProductName: "product " + c.ID}).Error)
		require.NoError(t, db.Create(&domain.CampaignPricing{CampaignID: c.ID, BasePrice: 300000, ProductQuantity: 10, TotalBudget: 3000000}).Error)
	}

	uc := usecase.NewDashboardUsecase(
		profiles,
		authrepo.NewIdentityRepository(db),
		profilerepo.NewBrandRepository(db),
		campaignrepo.NewCampaignRepository(db),
		applicationrepo.NewApplicationRepository(db),
		log.NewNopLogger(),
	)
	return uc, db
}

func apply(t *testing.T, db *gorm.DB, creatorID, campaignID string, status domain.ApplicationStatus) {
	t.Helper()
	require.NoError(t, db.Create(&domain.Application{
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Status:     status,
		AppliedAt:  1,
	}).Error)
}

func TestDashboard_UnknownProfileIsRejected(t *testing.T) {
	uc, _ := newDashboard(t, profilesByID(map[string]domain.Role{"ghost": "moderator"}))

	_, err := uc.Get(context.Background(), "nobody", nil)
	require.ErrorIs(t, err, domain.ErrProfileIncomplete)

	_, err = uc.Get(context.Background(), "ghost", nil)
	require.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestDashboard_Brand(t *testing.T) {
	uc, db := newDashboard(t, profilesByID(map[string]domain.Role{"owner-1": domain.RoleBrandAdmin}))
	apply(t, db, "creator-1", "c-1", domain.ApplicationPending)
	apply(t, db, "creator-2", "c-1", domain.ApplicationApproved)
	apply(t, db, "creator-1", "c-3", domain.ApplicationPending)

	got, err := uc.Get(context.Background(), "owner-1", &domain.DashboardQuery{})
	require.NoError(t, err)
	require.Equal(t, domain.DashboardBrand, got.Kind)
	require.Nil(t, got.Creator)
	require.Nil(t, got.SuperAdmin)

	brand := got.Brand
	require.Len(t, brand.Brands, 1)
	require.Equal(t, domain.BrandStats{TotalCampaigns: 2, ActiveCampaigns: 1, TotalApplications: 2}, brand.Stats)
	require.Len(t, brand.Campaigns, 2)
	require.Equal(t, "c-2", brand.Campaigns[0].Campaign.ID)
	require.Equal(t, "c-1", brand.Campaigns[1].Campaign.ID)
	require.EqualValues(t, 2, brand.Campaigns[1].ApplicationCount)
	require.Equal(t, "product c-1", brand.Campaigns[1].ProductName)
	require.EqualValues(t, 3000000, brand.Campaigns[1].TotalBudget)
}

func TestDashboard_BrandWithoutBrands(t *testing.T) {
	uc, _ := newDashboard(t, profilesByID(map[string]domain.Role{"owner-9": domain.RoleBrandAdmin}))

	got, err := uc.Get(context.Background(), "owner-9", nil)
	require.NoError(t, err)
	require.Empty(t, got.Brand.Brands)
	require.NotNil(t, got.Brand.Campaigns)
	require.Empty(t, got.Brand.Campaigns)
	require.Zero(t, got.Brand.Stats)
}

func TestDashboard_CreatorAvailableExcludesApplied(t *testing.T) {
	uc, db := newDashboard(t, profilesByID(map[string]domain.Role{"creator-1": domain.RoleCreatorAdmin}))
	apply(t, db, "creator-1", "c-1", domain.ApplicationApproved)

	got, err := uc.Get(context.Background(), "creator-1", nil)
	require.NoError(t, err)
	require.Equal(t, domain.DashboardCreator, got.Kind)

	creator := got.Creator
	require.Equal(t, domain.CreatorTabAvailable, creator.Tab)
	require.Equal(t, domain.CreatorStats{AvailableCampaigns: 1, AppliedCampaigns: 0, ApprovedCampaigns: 1}, creator.Stats)
	require.Len(t, creator.Campaigns, 1)
	require.Equal(t, "c-3", creator.Campaigns[0].ID)
	require.NotNil(t, creator.Campaigns[0].Brand)
	require.NotNil(t, creator.Campaigns[0].Product)
}

func TestDashboard_CreatorSearch(t *testing.T) {
	uc, db := newDashboard(t, profilesByID(map[string]domain.Role{"creator-1": domain.RoleCreatorAdmin}))
	ctx := context.Background()

	got, err := uc.Get(ctx, "creator-1", &domain.DashboardQuery{Search: "ZENITH"})
	require.NoError(t, err)
	require.Len(t, got.Creator.Campaigns, 1)
	require.Equal(t, "c-3", got.Creator.Campaigns[0].ID)

	got, err = uc.Get(ctx, "creator-1", &domain.DashboardQuery{Search: "serum"})
	require.NoError(t, err)
	require.Len(t, got.Creator.Campaigns, 1)
	require.Equal(t, "c-1", got.Creator.Campaigns[0].ID)

	apply(t, db, "creator-1", "c-1", domain.ApplicationPending)
	apply(t, db, "creator-1", "c-3", domain.ApplicationPending)

	got, err = uc.Get(ctx, "creator-1", &domain.DashboardQuery{Tab: domain.CreatorTabApplied, Search: "acme"})
	require.NoError(t, err)
	require.Len(t, got.Creator.Applications, 1)
	require.Equal(t, "c-1", got.Creator.Applications[0].CampaignID)
	require.EqualValues(t, 2, got.Creator.Stats.AppliedCampaigns)
	require.Empty(t, got.Creator.Campaigns)
}

func TestDashboard_SuperAdmin(t *testing.T) {
	uc, _ := newDashboard(t, profilesByID(map[string]domain.Role{"root": domain.RoleSuperAdmin}))

	got, err := uc.Get(context.Background(), "root", nil)
	require.NoError(t, err)
	require.Equal(t, domain.DashboardSuperAdmin, got.Kind)
	require.Equal(t, domain.SuperAdminStats{TotalUsers: 2, TotalBrands: 2, TotalCampaigns: 3, ActiveCampaigns: 2}, got.SuperAdmin.Stats)
}
