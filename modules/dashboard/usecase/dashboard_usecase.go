package usecase

import (
	"context"
	"strings"

	"campaign-platform/domain"
	"campaign-platform/pkg/log"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultDashboardLimit = 20

type ProfileResolver interface {
	Resolve(ctx context.Context, identityID string) (*domain.Profile, error)
}

type IdentityRepository interface {
	Count(ctx context.Context, filter *domain.IdentityFilter) (int64, error)
}

type BrandRepository interface {
	FindByOwner(ctx context.Context, userID string) ([]*domain.Brand, error)
	Count(ctx context.Context, filter *domain.BrandFilter) (int64, error)
}

type CampaignRepository interface {
	FindMany(ctx context.Context, filter *domain.CampaignFilter, option *domain.FindManyOption) ([]*domain.Campaign, error)
	Count(ctx context.Context, filter *domain.CampaignFilter) (int64, error)
}

type ApplicationRepository interface {
	FindMany(ctx context.Context, filter *domain.ApplicationFilter, option *domain.FindManyOption) ([]*domain.Application, error)
	Count(ctx context.Context, filter *domain.ApplicationFilter) (int64, error)
	CountByCampaign(ctx context.Context, campaignIDs []string) (map[string]int64, error)
	AppliedCampaignIDs(ctx context.Context, creatorID string) ([]string, error)
}

type DashboardUsecase struct {
	profiles        ProfileResolver
	identityRepo    IdentityRepository
	brandRepo       BrandRepository
	campaignRepo    CampaignRepository
	applicationRepo ApplicationRepository
	logger          log.Logger
}

func NewDashboardUsecase(
	profiles ProfileResolver,
	identityRepo IdentityRepository,
	brandRepo BrandRepository,
	campaignRepo CampaignRepository,
	applicationRepo ApplicationRepository,
	logger log.Logger,
) *DashboardUsecase {
	return &DashboardUsecase{
		profiles:        profiles,
		identityRepo:    identityRepo,
		brandRepo:       brandRepo,
		campaignRepo:    campaignRepo,
		applicationRepo: applicationRepo,
		logger:          logger,
	}
}

var _ domain.DashboardUsecase = (*DashboardUsecase)(nil)

func (u *DashboardUsecase) Get(ctx context.Context, identityID string, query *domain.DashboardQuery) (*domain.Dashboard, error) {
	if query == nil {
		query = &domain.DashboardQuery{}
	}
	profile, err := u.profiles.Resolve(ctx, identityID)
	if err != nil {
		return nil, err
	}
	kind, err := Route(profile.Role)
	if err != nil {
		u.logger.WarnContext(ctx, "Profile has an unknown role", log.UserID(identityID), log.String("role", string(profile.Role)))
		return nil, err
	}

	dashboard := &domain.Dashboard{Kind: kind, Profile: profile}
	switch kind {
	case domain.DashboardBrand:
		dashboard.Brand, err = u.brandDashboard(ctx, identityID, query)
	case domain.DashboardCreator:
		dashboard.Creator, err = u.creatorDashboard(ctx, identityID, query)
	case domain.DashboardSuperAdmin:
		dashboard.SuperAdmin, err = u.superAdminDashboard(ctx)
	}
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to build dashboard", log.UserID(identityID), log.String("kind", string(kind)), log.Error(err))
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return dashboard, nil
}

func limitOf(query *domain.DashboardQuery) int {
	if query.Limit > 0 {
		return query.Limit
	}
	return defaultDashboardLimit
}

func (u *DashboardUsecase) brandDashboard(ctx context.Context, ownerID string, query *domain.DashboardQuery) (*domain.BrandDashboard, error) {
	brands, err := u.brandRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := &domain.BrandDashboard{Brands: brands, Campaigns: []*domain.BrandCampaignSummary{}}
	if len(brands) == 0 {
		return out, nil
	}

	brandIDs := lo.Map(brands, func(b *domain.Brand, _ int) string { return b.ID })
	campaigns, err := u.campaignRepo.FindMany(ctx, &domain.CampaignFilter{BrandIDIn: brandIDs}, &domain.FindManyOption{
		Sort:     []string{"campaigns.created_at DESC", "campaigns.id ASC"},
		Preloads: []string{"Product", "Pricing"},
	})
	if err != nil {
		return nil, err
	}
	counts, err := u.applicationRepo.CountByCampaign(ctx, lo.Map(campaigns, func(c *domain.Campaign, _ int) string { return c.ID }))
	if err != nil {
		return nil, err
	}

	out.Stats.TotalCampaigns = int64(len(campaigns))
	for _, c := range campaigns {
		if c.Status == domain.CampaignStatusActive {
			out.Stats.ActiveCampaigns++
		}
		out.Stats.TotalApplications += counts[c.ID]
	}

	for _, c := range lo.Slice(campaigns, 0, limitOf(query)) {
		summary := &domain.BrandCampaignSummary{Campaign: c, ApplicationCount: counts[c.ID]}
		if c.Product != nil {
			summary.ProductName = c.Product.ProductName
		}
		if c.Pricing != nil {
			summary.TotalBudget = c.Pricing.TotalBudget
		}
		out.Campaigns = append(out.Campaigns, summary)
	}
	return out, nil
}

func (u *DashboardUsecase) creatorDashboard(ctx context.Context, creatorID string, query *domain.DashboardQuery) (*domain.CreatorDashboard, error) {
	tab := query.Tab
	if tab == "" {
		tab = domain.CreatorTabAvailable
	}

	appliedIDs, err := u.applicationRepo.AppliedCampaignIDs(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	out := &domain.CreatorDashboard{Tab: tab}
	active := domain.CampaignStatusActive
	pending, approved := domain.ApplicationPending, domain.ApplicationApproved

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.AvailableCampaigns, err = u.campaignRepo.Count(gctx, &domain.CampaignFilter{Status: &active, IDNotIn: appliedIDs})
		return err
	})
	g.Go(func() (err error) {
		out.Stats.AppliedCampaigns, err = u.applicationRepo.Count(gctx, &domain.ApplicationFilter{CreatorID: &creatorID, Status: &pending})
		return err
	})
	g.Go(func() (err error) {
		out.Stats.ApprovedCampaigns, err = u.applicationRepo.Count(gctx, &domain.ApplicationFilter{CreatorID: &creatorID, Status: &approved})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	search := strings.TrimSpace(query.Search)
	switch tab {
	case domain.CreatorTabApplied:
		applications, err := u.applicationRepo.FindMany(ctx, &domain.ApplicationFilter{CreatorID: &creatorID}, &domain.FindManyOption{
			Sort:     []string{"applied_at DESC"},
			Preloads: []string{"Campaign", "Campaign.Brand", "Campaign.Product", "Campaign.Pricing"},
		})
		if err != nil {
			return nil, err
		}
		if search != "" {
			applications = lo.Filter(applications, func(a *domain.Application, _ int) bool {
				return a.Campaign != nil && campaignMatches(a.Campaign, search)
			})
		}
		out.Applications = lo.Slice(applications, 0, limitOf(query))
	default:
		limit := limitOf(query)
		filter := &domain.CampaignFilter{Status: &active, IDNotIn: appliedIDs}
		if search != "" {
			filter.SearchTerm = &search
		}
		campaigns, err := u.campaignRepo.FindMany(ctx, filter, &domain.FindManyOption{
			Sort:     []string{"campaigns.created_at DESC", "campaigns.id ASC"},
			Limit:    &limit,
			Preloads: []string{"Brand", "Product", "Pricing"},
		})
		if err != nil {
			return nil, err
		}
		out.Campaigns = campaigns
	}
	return out, nil
}

// campaignMatches mirrors the campaign search used for the available tab.
func campaignMatches(c *domain.Campaign, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(c.BrandDescription), term) {
		return true
	}
	return c.Brand != nil && strings.Contains(strings.ToLower(c.Brand.BrandName), term)
}

func (u *DashboardUsecase) superAdminDashboard(ctx context.Context) (*domain.SuperAdminDashboard, error) {
	out := &domain.SuperAdminDashboard{}
	active := domain.CampaignStatusActive

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats.TotalUsers, err = u.identityRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.TotalBrands, err = u.brandRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.TotalCampaigns, err = u.campaignRepo.Count(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.Stats.ActiveCampaigns, err = u.campaignRepo.Count(gctx, &domain.CampaignFilter{Status: &active})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
