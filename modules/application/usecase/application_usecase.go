package usecase

import (
	"context"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"
)

type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	FindByID(ctx context.Context, applicationID string, option *domain.FindOneOption) (*domain.Application, error)
	FindOne(ctx context.Context, filter *domain.ApplicationFilter) (*domain.Application, error)
	FindPage(ctx context.Context, filter *domain.ApplicationFilter, option *domain.FindPageOption) ([]*domain.Application, *domain.Pagination, error)
	MarkReviewed(ctx context.Context, applicationID string, status domain.ApplicationStatus, reviewedAt int64) error
}

type CampaignRepository interface {
	FindByID(ctx context.Context, campaignID string, option *domain.FindOneOption) (*domain.Campaign, error)
}

type ApplicationUsecase struct {
	applicationRepo ApplicationRepository
	campaignRepo    CampaignRepository
	logger          log.Logger
}

func NewApplicationUsecase(
	applicationRepo ApplicationRepository,
	campaignRepo CampaignRepository,
	logger log.Logger,
) *ApplicationUsecase {
	return &ApplicationUsecase{
		applicationRepo: applicationRepo,
		campaignRepo:    campaignRepo,
		logger:          logger,
	}
}

var _ domain.ApplicationUsecase = (*ApplicationUsecase)(nil)

func (u *ApplicationUsecase) findCampaign(ctx context.Context, campaignID string, preloads ...string) (*domain.Campaign, error) {
	campaign, err := u.campaignRepo.FindByID(ctx, campaignID, &domain.FindOneOption{Preloads: preloads})
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrCampaignNotFound.WithDetail("campaign_id", campaignID)
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return campaign, nil
}

func (u *ApplicationUsecase) alreadyApplied(ctx context.Context, creatorID, campaignID string) (bool, error) {
	_, err := u.applicationRepo.FindOne(ctx, &domain.ApplicationFilter{CampaignID: &campaignID, CreatorID: &creatorID})
	switch {
	case err == nil:
		return true, nil
	case common.IsRecordNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (u *ApplicationUsecase) Apply(ctx context.Context, creatorID, campaignID string) (*domain.Application, error) {
	campaign, err := u.findCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignStatusActive {
		return nil, domain.ErrCampaignNotOpen.WithDetail("status", campaign.Status)
	}

	applied, err := u.alreadyApplied(ctx, creatorID, campaignID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if applied {
		return nil, domain.ErrAlreadyApplied
	}

	application := &domain.Application{
		CampaignID: campaignID,
		CreatorID:  creatorID,
		Status:     domain.ApplicationPending,
		AppliedAt:  utils.NowUnixMillis(),
	}
	if err := u.applicationRepo.Create(ctx, application); err != nil {
		// The unique (campaign, creator) index catches a concurrent apply.
		if applied, _ := u.alreadyApplied(ctx, creatorID, campaignID); applied {
			return nil, domain.ErrAlreadyApplied
		}
		u.logger.ErrorContext(ctx, "Failed to create application", log.CampaignID(campaignID), log.Error(err))
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "Creator applied", log.CampaignID(campaignID), log.UserID(creatorID))
	return application, nil
}

func (u *ApplicationUsecase) Review(ctx context.Context, ownerID, applicationID string, req *domain.ReviewApplicationRequest) (*domain.Application, error) {
	application, err := u.applicationRepo.FindByID(ctx, applicationID, &domain.FindOneOption{
		Preloads: []string{"Campaign", "Campaign.Brand"},
	})
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if c := application.Campaign; c == nil || c.Brand == nil || c.Brand.UserID != ownerID {
		return nil, domain.ErrForbidden.WithReason("only the campaign owner can review applications")
	}
	if application.Status != domain.ApplicationPending {
		return nil, domain.ErrApplicationReviewed.WithDetail("status", application.Status)
	}

	reviewedAt := utils.NowUnixMillis()
	if err := u.applicationRepo.MarkReviewed(ctx, applicationID, req.Decision, reviewedAt); err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrApplicationReviewed
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	application.Status = req.Decision
	application.ReviewedAt = &reviewedAt
	u.logger.InfoContext(ctx, "Application reviewed",
		log.CampaignID(application.CampaignID),
		log.String("application_id", applicationID),
		log.String("decision", string(req.Decision)),
	)
	return application, nil
}

func (u *ApplicationUsecase) ListForCampaign(ctx context.Context, ownerID, campaignID string, query *domain.ListApplicationsQuery) (*domain.ApplicationPage, error) {
	campaign, err := u.findCampaign(ctx, campaignID, "Brand")
	if err != nil {
		return nil, err
	}
	if campaign.Brand == nil || campaign.Brand.UserID != ownerID {
		return nil, domain.ErrForbidden.WithReason("only the campaign owner can list applications")
	}

	if query == nil {
		query = &domain.ListApplicationsQuery{}
	}
	filter := &domain.ApplicationFilter{CampaignID: &campaignID}
	if query.Status != "" {
		filter.Status = &query.Status
	}
	items, pagination, err := u.applicationRepo.FindPage(ctx, filter, &domain.FindPageOption{
		Sort:    []string{"applied_at ASC", "id ASC"},
		Page:    query.Page,
		PerPage: query.PerPage,
	})
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return &domain.ApplicationPage{Items: items, Pagination: pagination}, nil
}
