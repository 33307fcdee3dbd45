package usecase

import (
	"context"
	"time"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"

	"github.com/google/uuid"
)

type DraftStore interface {
	Save(ctx context.Context, draft *domain.CampaignDraft) error
	Find(ctx context.Context, ref domain.DraftRef) (*domain.CampaignDraft, error)
	Delete(ctx context.Context, ref domain.DraftRef) error
	Lock(ctx context.Context, ref domain.DraftRef, owner string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, ref domain.DraftRef, owner string) error
}

type BrandRepository interface {
	FindByOwner(ctx context.Context, userID string) ([]*domain.Brand, error)
}

type Config interface {
	LockTTL() time.Duration
}

type DraftUsecase struct {
	store      DraftStore
	brandRepo  BrandRepository
	categories domain.CategoryUsecase
	cfg        Config
	logger     log.Logger
}

func NewDraftUsecase(
	store DraftStore,
	brandRepo BrandRepository,
	categories domain.CategoryUsecase,
	cfg Config,
	logger log.Logger,
) *DraftUsecase {
	return &DraftUsecase{
		store:      store,
		brandRepo:  brandRepo,
		categories: categories,
		cfg:        cfg,
		logger:     logger,
	}
}

var _ domain.DraftUsecase = (*DraftUsecase)(nil)

// Open starts an empty draft for the owner's first brand.
func (u *DraftUsecase) Open(ctx context.Context, ownerID string) (*domain.DraftView, error) {
	brands, err := u.brandRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if len(brands) == 0 {
		return nil, domain.ErrBrandNotFound.WithReason("create a brand before authoring campaigns")
	}

	draft := domain.NewCampaignDraft(uuid.NewString(), ownerID, brands[0].ID)
	if err := u.store.Save(ctx, draft); err != nil {
		u.logger.ErrorContext(ctx, "Failed to save draft", log.DraftID(draft.ID), log.Error(err))
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "Draft opened", log.DraftID(draft.ID), log.String("brand_id", draft.BrandID))
	return domain.NewDraftView(draft), nil
}

func (u *DraftUsecase) Get(ctx context.Context, ref domain.DraftRef) (*domain.DraftView, error) {
	draft, err := u.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	return domain.NewDraftView(draft), nil
}

func (u *DraftUsecase) Discard(ctx context.Context, ref domain.DraftRef) error {
	if _, err := u.load(ctx, ref); err != nil {
		return err
	}
	if err := u.store.Delete(ctx, ref); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	u.logger.InfoContext(ctx, "Draft discarded", log.DraftID(ref.DraftID))
	return nil
}

func (u *DraftUsecase) load(ctx context.Context, ref domain.DraftRef) (*domain.CampaignDraft, error) {
	draft, err := u.store.Find(ctx, ref)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrDraftNotFound.WithDetail("draft_id", ref.DraftID)
		}
		u.logger.ErrorContext(ctx, "Failed to load draft", log.DraftID(ref.DraftID), log.Error(err))
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return draft, nil
}

// mutate applies fn to the stored draft under the per-draft lock. A contended
// lock fails fast with ErrDraftBusy. Nothing is saved when fn fails.
func (u *DraftUsecase) mutate(
	ctx context.Context,
	ref domain.DraftRef,
	fn func(draft *domain.CampaignDraft) error,
) (*domain.DraftView, error) {
	owner := uuid.NewString()
	acquired, err := u.store.Lock(ctx, ref, owner, u.cfg.LockTTL())
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !acquired {
		return nil, domain.ErrDraftBusy
	}
	defer func() {
		if err := u.store.Unlock(context.WithoutCancel(ctx), ref, owner); err != nil {
			u.logger.WarnContext(ctx, "Failed to release draft lock", log.DraftID(ref.DraftID), log.Error(err))
		}
	}()

	draft, err := u.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := fn(draft); err != nil {
		return nil, err
	}

	draft.UpdatedAt = utils.NowUnixMillis()
	if err := u.store.Save(ctx, draft); err != nil {
		u.logger.ErrorContext(ctx, "Failed to save draft", log.DraftID(ref.DraftID), log.Error(err))
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return domain.NewDraftView(draft), nil
}
