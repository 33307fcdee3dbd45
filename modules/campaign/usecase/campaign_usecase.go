package usecase

import (
	"context"
	"sort"
	"time"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	FindByID(ctx context.Context, campaignID string, option *domain.FindOneOption) (*domain.Campaign, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Campaign, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	CreateColors(ctx context.Context, colors []*domain.ProductColor) error
	CreateImages(ctx context.Context, images []*domain.ProductImage) error
}

type PricingRepository interface {
	Create(ctx context.Context, pricing *domain.CampaignPricing) error
}

type DraftStore interface {
	Find(ctx context.Context, ref domain.DraftRef) (*domain.CampaignDraft, error)
	Delete(ctx context.Context, ref domain.DraftRef) error
}

type CategoryLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config interface {
	SubmitLockTTL() time.Duration
}

var graphPreloads = []string{"Brand", "Product", "Product.Colors", "Product.Images", "Pricing"}

type CampaignUsecase struct {
	campaignRepo CampaignRepository
	productRepo  ProductRepository
	pricingRepo  PricingRepository
	drafts       DraftStore
	categories   CategoryLookup
	transactor   Transactor
	cache        cache.Client
	cfg          Config
	logger       log.Logger
}

func NewCampaignUsecase(
	campaignRepo CampaignRepository,
	productRepo ProductRepository,
	pricingRepo PricingRepository,
	drafts DraftStore,
	categories CategoryLookup,
	transactor Transactor,
	cacheClient cache.Client,
	cfg Config,
	logger log.Logger,
) *CampaignUsecase {
	return &CampaignUsecase{
		campaignRepo: campaignRepo,
		productRepo:  productRepo,
		pricingRepo:  pricingRepo,
		drafts:       drafts,
		categories:   categories,
		transactor:   transactor,
		cache:        cacheClient,
		cfg:          cfg,
		logger:       logger,
	}
}

var _ domain.CampaignUsecase = (*CampaignUsecase)(nil)

func submitLockKey(key string) string {
	return cache.Key("submit", key)
}

// Submit turns a draft into an active campaign graph in one transaction.
// The idempotency key is checked before the draft is loaded, so a repeat
// after a successful submit replays even though the draft is gone.
func (u *CampaignUsecase) Submit(ctx context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
	if req.IdempotencyKey == "" {
		return nil, domain.ErrIdempotencyKeyRequired
	}
	ctx = log.ContextWith(ctx, "draft_id", req.DraftID)

	owner := uuid.NewString()
	acquired, err := u.cache.Lock(ctx, submitLockKey(req.IdempotencyKey), owner, u.cfg.SubmitLockTTL())
	if err != nil {
		return nil, domain.ErrCampaignSubmitFailed.WithWrap(err)
	}
	if !acquired {
		return nil, domain.ErrSubmitInProgress
	}
	defer func() {
		if err := u.cache.Unlock(context.WithoutCancel(ctx), submitLockKey(req.IdempotencyKey), owner); err != nil {
			u.logger.WarnContext(ctx, "Failed to release submit lock", log.Error(err))
		}
	}()

	if result, err := u.replay(ctx, req); result != nil || err != nil {
		return result, err
	}

	ref := domain.DraftRef{OwnerID: req.OwnerID, DraftID: req.DraftID}
	draft, err := u.drafts.Find(ctx, ref)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrDraftNotFound.WithDetail("draft_id", req.DraftID)
		}
		return nil, domain.ErrCampaignSubmitFailed.WithWrap(err)
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if err := u.checkCategory(ctx, draft.Product); err != nil {
		return nil, err
	}

	var campaignID string
	err = u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		campaignID, err = u.persist(ctx, draft, req.IdempotencyKey)
		return err
	})
	if err != nil {
		// A concurrent holder of an expired lock may have won the unique index.
		if result, replayErr := u.replay(ctx, req); result != nil || replayErr != nil {
			return result, replayErr
		}
		u.logger.ErrorContext(ctx, "Campaign submit rolled back", log.Error(err))
		return nil, domain.ErrCampaignSubmitFailed.WithWrap(err)
	}

	if err := u.drafts.Delete(ctx, ref); err != nil {
		u.logger.WarnContext(ctx, "Failed to delete submitted draft", log.Error(err))
	}

	campaign, err := u.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "Campaign submitted", log.CampaignID(campaignID), log.String("brand_id", campaign.BrandID))
	return &domain.SubmitResult{Campaign: campaign}, nil
}

// checkCategory confirms the draft's category pair against the catalog.
// Field writes store ids without looking them up, so this is the last point
// where a subcategory of another category can be caught.
func (u *CampaignUsecase) checkCategory(ctx context.Context, p domain.ProductSection) error {
	problems := map[string]string{}

	category, err := u.categories.FindByID(ctx, p.CategoryID)
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		problems["product.categoryId"] = "does not exist"
	case err != nil:
		return domain.ErrCampaignSubmitFailed.WithWrap(err)
	case !category.IsTopLevel():
		problems["product.categoryId"] = "must be a top-level category"
	}

	if p.SubcategoryID != "" && len(problems) == 0 {
		sub, err := u.categories.FindByID(ctx, p.SubcategoryID)
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			problems["product.subcategoryId"] = "does not exist"
		case err != nil:
			return domain.ErrCampaignSubmitFailed.WithWrap(err)
		case sub.ParentID == nil || *sub.ParentID != category.ID:
			problems["product.subcategoryId"] = "must belong to the selected category"
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return domain.ErrDraftValidation.WithDetail("fields", problems)
}

// replay returns the campaign already created with the request's key, if any.
func (u *CampaignUsecase) replay(ctx context.Context, req *domain.SubmitDraftRequest) (*domain.SubmitResult, error) {
	existing, err := u.campaignRepo.FindByIdempotencyKey(ctx, req.IdempotencyKey)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, domain.ErrCampaignSubmitFailed.WithWrap(err)
	}
	if existing.Brand == nil || existing.Brand.UserID != req.OwnerID {
		return nil, domain.ErrIdempotencyKeyReused
	}

	campaign, err := u.FindByID(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	u.logger.InfoContext(ctx, "Campaign submit replayed", log.CampaignID(campaign.ID))
	return &domain.SubmitResult{Campaign: campaign, Replayed: true}, nil
}

func (u *CampaignUsecase) persist(ctx context.Context, draft *domain.CampaignDraft, key string) (string, error) {
	dates, err := parseTimeline(draft.Timeline)
	if err != nil {
		return "", err
	}

	campaign := &domain.Campaign{
		BrandID:          draft.BrandID,
		Status:           domain.CampaignStatusActive,
		BrandDescription: draft.Brand.BrandDescription,
		RecruitmentStart: dates[0],
		RecruitmentEnd:   dates[1],
		SelectionStart:   dates[2],
		SelectionEnd:     dates[3],
		ShippingDate:     dates[4],
		ContentStart:     dates[5],
		ContentEnd:       dates[6],
		DeliveryService:  draft.Delivery.Service,
		IdempotencyKey:   key,
	}
	if draft.Delivery.Service == domain.CarrierEtc {
		campaign.DeliveryServiceOther = draft.Delivery.OtherText
	}
	if err := u.campaignRepo.Create(ctx, campaign); err != nil {
		return "", err
	}

	product := &domain.Product{
		CampaignID:    campaign.ID,
		ProductName:   draft.Product.Name,
		ProductURL:    draft.Product.URL,
		RetailPrice:   draft.Product.RetailPrice,
		CategoryID:    draft.Product.CategoryID,
		SubcategoryID: lo.EmptyableToPtr(draft.Product.SubcategoryID),
		Quantity:      draft.Product.Quantity,
	}
	if err := u.productRepo.Create(ctx, product); err != nil {
		return "", err
	}

	colors := lo.Map(draft.Product.Colors, func(c domain.DraftColor, i int) *domain.ProductColor {
		return &domain.ProductColor{
			ProductID:         product.ID,
			ColorCode:         c.ColorCode,
			ColorName:         c.ColorName,
			ThumbnailImageURL: c.ThumbnailURL,
			Quantity:          c.Quantity,
			DisplayOrder:      i,
		}
	})
	if err := u.productRepo.CreateColors(ctx, colors); err != nil {
		return "", err
	}

	images := lo.Map(draft.Product.DetailImages, func(url string, i int) *domain.ProductImage {
		return &domain.ProductImage{ProductID: product.ID, ImageURL: url, DisplayOrder: i}
	})
	if err := u.productRepo.CreateImages(ctx, images); err != nil {
		return "", err
	}

	pricing := &domain.CampaignPricing{
		CampaignID:      campaign.ID,
		BasePrice:       draft.Pricing.BasePrice,
		AllowHigherTier: draft.Pricing.AllowHigherTier,
		HigherTierPrice: draft.Pricing.HigherTierPrice,
		ProductQuantity: draft.Pricing.ProductQuantity,
		TotalBudget:     draft.TotalBudget(),
	}
	if err := u.pricingRepo.Create(ctx, pricing); err != nil {
		return "", err
	}
	return campaign.ID, nil
}

func parseTimeline(t domain.TimelineSection) ([]time.Time, error) {
	values := []string{
		t.RecruitmentStart, t.RecruitmentEnd,
		t.SelectionStart, t.SelectionEnd,
		t.ShippingDate,
		t.ContentStart, t.ContentEnd,
	}
	dates := make([]time.Time, len(values))
	for i, v := range values {
		d, err := utils.ParseDate(v)
		if err != nil {
			return nil, err
		}
		dates[i] = d
	}
	return dates, nil
}

func (u *CampaignUsecase) FindByID(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := u.campaignRepo.FindByID(ctx, campaignID, &domain.FindOneOption{Preloads: graphPreloads})
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrCampaignNotFound.WithDetail("campaign_id", campaignID)
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if p := campaign.Product; p != nil {
		sort.SliceStable(p.Colors, func(i, j int) bool { return p.Colors[i].DisplayOrder < p.Colors[j].DisplayOrder })
		sort.SliceStable(p.Images, func(i, j int) bool { return p.Images[i].DisplayOrder < p.Images[j].DisplayOrder })
	}
	return campaign, nil
}
