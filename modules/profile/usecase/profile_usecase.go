package usecase

import (
	"context"
	"strings"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, profileID string, option *domain.FindOneOption) (*domain.Profile, error)
}

type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProfileUsecase struct {
	profileRepo ProfileRepository
	brandRepo   BrandRepository
	transactor  Transactor
	logger      log.Logger
}

func NewProfileUsecase(
	profileRepo ProfileRepository,
	brandRepo BrandRepository,
	transactor Transactor,
	logger log.Logger,
) *ProfileUsecase {
	return &ProfileUsecase{
		profileRepo: profileRepo,
		brandRepo:   brandRepo,
		transactor:  transactor,
		logger:      logger,
	}
}

var _ domain.ProfileUsecase = (*ProfileUsecase)(nil)

func (u *ProfileUsecase) Resolve(ctx context.Context, identityID string) (*domain.Profile, error) {
	profile, err := u.profileRepo.FindByID(ctx, identityID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrProfileIncomplete
		}
		u.logger.ErrorContext(ctx, "Failed to load profile", log.UserID(identityID), log.Error(err))
		return nil, domain.ErrProfileLoadFailed.WithWrap(err)
	}
	return profile, nil
}

func (u *ProfileUsecase) Complete(ctx context.Context, identityID string, req *domain.CompleteProfileRequest) (*domain.Profile, error) {
	if !req.Role.SelfAssignable() {
		return nil, domain.ErrBadRequest.WithReasonf("role %s cannot be chosen", req.Role)
	}

	switch _, err := u.profileRepo.FindByID(ctx, identityID, nil); {
	case err == nil:
		return nil, domain.ErrProfileExists
	case !common.IsRecordNotFound(err):
		return nil, domain.ErrProfileLoadFailed.WithWrap(err)
	}

	var profile *domain.Profile
	err := u.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		profile, err = u.Provision(ctx, identityID, req.FullName, req.Role, req.CompanyName)
		return err
	})
	if err != nil {
		if de, ok := common.IsDetailError(err); ok {
			return nil, de
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}

	u.logger.InfoContext(ctx, "Profile completed", log.UserID(identityID), log.String("role", string(profile.Role)))
	return profile, nil
}

// Provision writes the profile and, for brand admins, their first brand. It
// joins the caller's transaction when ctx carries one.
func (u *ProfileUsecase) Provision(ctx context.Context, identityID, fullName string, role domain.Role, companyName string) (*domain.Profile, error) {
	profile := &domain.Profile{
		SQLModel: domain.SQLModel{ID: identityID},
		Role:     role,
		FullName: strings.TrimSpace(fullName),
	}
	if company := strings.TrimSpace(companyName); company != "" {
		profile.CompanyName = &company
	}
	if err := u.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	if role == domain.RoleBrandAdmin {
		brandName := profile.FullName
		if profile.CompanyName != nil {
			brandName = *profile.CompanyName
		}
		if err := u.brandRepo.Create(ctx, &domain.Brand{UserID: identityID, BrandName: brandName}); err != nil {
			return nil, err
		}
	}
	return profile, nil
}
