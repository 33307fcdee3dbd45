package usecase_test

import (
	"context"
	"testing"

	"campaign-platform/database"
	"campaign-platform/database/dbtest"
	"campaign-platform/domain"
	"campaign-platform/modules/application/repository"
	"campaign-platform/modules/application/usecase"
	campaignrepo "campaign-platform/modules/campaign/repository"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type applicationFixture struct {
	db   *gorm.DB
	repo *repository.ApplicationRepository
	uc   *usecase.ApplicationUsecase
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()
	db := dbtest.NewTestDB(t, database.Models()...)

	require.NoError(t, db.Create(&domain.Brand{SQLModel: domain.SQLModel{ID: "brand-1"}, UserID: "owner-1", BrandName: "Acme"}).Error)
	for _, c := range []*domain.Campaign{
		{SQLModel: domain.SQLModel{ID: "open"}, BrandID: "brand-1", Status: domain.CampaignStatusActive, DeliveryService: domain.CarrierCJ, IdempotencyKey: "k-open"},
		{SQLModel: domain.SQLModel{ID: "closed"}, BrandID: "brand-1", Status: domain.CampaignStatusCompleted, DeliveryService: domain.CarrierCJ, IdempotencyKey: "k-closed"},
	} {
		require.NoError(t, db.Create(c).Error)
	}

	repo := repository.NewApplicationRepository(db)
	return &applicationFixture{
		db:   db,
		repo: repo,
		uc:   usecase.NewApplicationUsecase(repo, campaignrepo.NewCampaignRepository(db), log.NewNopLogger()),
	}
}

func TestApply_CreatesPendingApplication(t *testing.T) {
	f := newApplicationFixture(t)

	app, err := f.uc.Apply(context.Background(), "creator-1", "open")
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationPending, app.Status)
	require.NotZero(t, app.AppliedAt)
	require.Nil(t, app.ReviewedAt)
}

func TestApply_SecondApplyFails(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	_, err := f.uc.Apply(ctx, "creator-1", "open")
	require.NoError(t, err)

	_, err = f.uc.Apply(ctx, "creator-1", "open")
	require.ErrorIs(t, err, domain.ErrAlreadyApplied)

	n, err := f.repo.Count(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestApply_OnlyActiveCampaigns(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	_, err := f.uc.Apply(ctx, "creator-1", "closed")
	require.ErrorIs(t, err, domain.ErrCampaignNotOpen)

	_, err = f.uc.Apply(ctx, "creator-1", "missing")
	require.ErrorIs(t, err, domain.ErrCampaignNotFound)
}

func TestReview_OwnerApprovesOnce(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	app, err := f.uc.Apply(ctx, "creator-1", "open")
	require.NoError(t, err)

	_, err = f.uc.Review(ctx, "someone-else", app.ID, &domain.ReviewApplicationRequest{Decision: domain.ApplicationApproved})
	require.ErrorIs(t, err, domain.ErrForbidden)

	reviewed, err := f.uc.Review(ctx, "owner-1", app.ID, &domain.ReviewApplicationRequest{Decision: domain.ApplicationApproved})
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)

	stored, err := f.repo.FindByID(ctx, app.ID, nil)
	require.NoError(t, err)
	require.Equal(t, domain.ApplicationApproved, stored.Status)

	_, err = f.uc.Review(ctx, "owner-1", app.ID, &domain.ReviewApplicationRequest{Decision: domain.ApplicationRejected})
	require.ErrorIs(t, err, domain.ErrApplicationReviewed)

	_, err = f.uc.Review(ctx, "owner-1", "missing", &domain.ReviewApplicationRequest{Decision: domain.ApplicationRejected})
	require.ErrorIs(t, err, domain.ErrApplicationNotFound)
}

func TestListForCampaign_OwnerOnly(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	for _, creator := range []string{"creator-1", "creator-2"} {
		_, err := f.uc.Apply(ctx, creator, "open")
		require.NoError(t, err)
	}

	page, err := f.uc.ListForCampaign(ctx, "owner-1", "open", nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.EqualValues(t, 2, page.Pagination.TotalItems)

	_, err = f.uc.ListForCampaign(ctx, "creator-1", "open", nil)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListForCampaign_PagesAndFiltersByStatus(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	var first *domain.Application
	for _, creator := range []string{"creator-1", "creator-2", "creator-3"} {
		app, err := f.uc.Apply(ctx, creator, "open")
		require.NoError(t, err)
		if first == nil {
			first = app
		}
	}
	_, err := f.uc.Review(ctx, "owner-1", first.ID, &domain.ReviewApplicationRequest{Decision: domain.ApplicationApproved})
	require.NoError(t, err)

	page, err := f.uc.ListForCampaign(ctx, "owner-1", "open", &domain.ListApplicationsQuery{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.Equal(t, 2, page.Pagination.TotalPages)
	require.EqualValues(t, 3, page.Pagination.TotalItems)

	page, err = f.uc.ListForCampaign(ctx, "owner-1", "open", &domain.ListApplicationsQuery{Status: domain.ApplicationPending})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, app := range page.Items {
		require.Equal(t, domain.ApplicationPending, app.Status)
	}
}

func TestRepository_CountByCampaign(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	for _, creator := range []string{"creator-1", "creator-2"} {
		_, err := f.uc.Apply(ctx, creator, "open")
		require.NoError(t, err)
	}

	counts, err := f.repo.CountByCampaign(ctx, []string{"open", "closed"})
	require.NoError(t, err)
	require.EqualValues(t, 2, counts["open"])
	_, ok := counts["closed"]
	require.False(t, ok)

	ids, err := f.repo.AppliedCampaignIDs(ctx, "creator-1")
	require.NoError(t, err)
	require.Equal(t, []string{"open"}, ids)
}
