package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"campaign-platform/common"
	"campaign-platform/domain"
	"campaign-platform/pkg/log"
	"campaign-platform/pkg/utils"

	"github.com/pkg/errors"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hashed, password string) bool
}

type JWTProvider interface {
	Generate(tokenType domain.TokenType, identityID, sessionID string) (string, error)
}

type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	FindByID(ctx context.Context, identityID string, option *domain.FindOneOption) (*domain.Identity, error)
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	UpdateFields(ctx context.Context, identityID string, fields map[string]any) error
}

type UserSessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	FindByID(ctx context.Context, sessionID string, option *domain.FindOneOption) (*domain.UserSession, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*domain.UserSession, error)
	FindActiveByUser(ctx context.Context, userID string, now int64) ([]*domain.UserSession, error)
	UpdateFields(ctx context.Context, sessionID string, fields map[string]any) error
	Deactivate(ctx context.Context, sessionID string) error
}

type ProfileProvisioner interface {
	Provision(ctx context.Context, identityID, fullName string, role domain.Role, companyName string) (*domain.Profile, error)
	Resolve(ctx context.Context, identityID string) (*domain.Profile, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Config interface {
	Name() string
	ConfirmationURL() string
	RefreshTokenExpiresIn() time.Duration
	SessionLimitPerUser() int
	UserSessionLimitEnabled() bool
}

type authUsecase struct {
	identityRepo IdentityRepository
	sessionRepo  UserSessionRepository
	profiles     ProfileProvisioner
	transactor   Transactor
	emailUsecase domain.EmailUsecase
	jwtProvider  JWTProvider
	hasher       Hasher
	cfg          Config
	logger       log.Logger
}

func NewAuthUsecase(
	identityRepo IdentityRepository,
	sessionRepo UserSessionRepository,
	profiles ProfileProvisioner,
	transactor Transactor,
	emailUsecase domain.EmailUsecase,
	jwtProvider JWTProvider,
	hasher Hasher,
	cfg Config,
	logger log.Logger,
) domain.AuthUsecase {
	return &authUsecase{
		identityRepo: identityRepo,
		sessionRepo:  sessionRepo,
		profiles:     profiles,
		transactor:   transactor,
		emailUsecase: emailUsecase,
		jwtProvider:  jwtProvider,
		hasher:       hasher,
		cfg:          cfg,
		logger:       logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignUp(req *domain.SignUpRequest) error {
	fields := map[string]string{}
	if _, err := mail.ParseAddress(req.Email); err != nil || !strings.Contains(req.Email, "@") {
		fields["email"] = "email must be a valid email address"
	}
	if len(req.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if strings.TrimSpace(req.FullName) == "" {
		fields["full_name"] = "full_name is required"
	}
	if !req.Role.SelfAssignable() {
		fields["role"] = "role must be one of brand_admin, creator_admin"
	}
	if len(fields) > 0 {
		return domain.ErrAuthValidation.WithDetail("fields", fields)
	}
	return nil
}

func newConfirmationToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SignUp creates the identity, its profile and, for brand admins, a brand in
// one transaction. The confirmation email is sent after commit; a failed send
// is logged and can be retried through ResendConfirmation.
func (a *authUsecase) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	switch _, err := a.identityRepo.FindByEmail(ctx, req.Email); {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !common.IsRecordNotFound(err):
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}

	hashed, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}
	token, err := newConfirmationToken()
	if err != nil {
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}

	identity := &domain.Identity{
		Email:             req.Email,
		Password:          hashed,
		Status:            domain.IdentityWaitingConfirm,
		ConfirmationToken: token,
	}
	var profile *domain.Profile
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.identityRepo.Create(ctx, identity); err != nil {
			return err
		}
		var err error
		profile, err = a.profiles.Provision(ctx, identity.ID, req.FullName, req.Role, req.CompanyName)
		return err
	})
	if err != nil {
		// A concurrent sign-up can win the unique index between the lookup
		// and the insert.
		if _, findErr := a.identityRepo.FindByEmail(ctx, req.Email); findErr == nil {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}

	ctx = log.ContextWith(ctx, log.CtxKeyUserID, identity.ID)
	a.logger.InfoContext(ctx, "Identity signed up",
		log.String("email", utils.MaskEmail(identity.Email)),
		log.String("role", string(req.Role)),
	)
	a.sendConfirmation(ctx, identity, profile)

	return &domain.SignUpResponse{
		Identity:             identity,
		Profile:              profile,
		ConfirmationRequired: true,
	}, nil
}

func (a *authUsecase) sendConfirmation(ctx context.Context, identity *domain.Identity, profile *domain.Profile) {
	confirmURL := a.cfg.ConfirmationURL() + "?" + url.Values{
		"email": {identity.Email},
		"token": {identity.ConfirmationToken},
	}.Encode()

	data := map[string]interface{}{
		"app_name":           a.cfg.Name(),
		"user_email":         identity.Email,
		"user_name":          identity.Email,
		"role_label":         "member",
		"confirmation_url":   confirmURL,
		"confirmation_token": identity.ConfirmationToken,
	}
	if profile != nil {
		data["user_name"] = profile.FullName
		data["role_label"] = strings.ReplaceAll(string(profile.Role), "_", " ")
	}

	if _, err := a.emailUsecase.SendTemplate(ctx, &domain.SendTemplateEmailRequest{
		To:   identity.Email,
		Code: domain.EmailCodeConfirmation,
		Data: data,
	}); err != nil {
		a.logger.WarnContext(ctx, "Confirmation email not sent", log.String("email", utils.MaskEmail(identity.Email)), log.Error(err))
	}
}

// SignIn never reveals whether an email exists: unknown emails, wrong
// passwords and banned identities all report invalid_credentials.
func (a *authUsecase) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResponse, error) {
	identity, err := a.identityRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}
	if !a.hasher.Compare(identity.Password, req.Password) || identity.IsBanned() {
		return nil, domain.ErrInvalidCredentials
	}
	if !identity.IsConfirmed() {
		return nil, domain.ErrEmailUnconfirmed
	}

	ctx = log.ContextWith(ctx, log.CtxKeyUserID, identity.ID)
	if err := a.enforceSessionLimit(ctx, identity.ID); err != nil {
		return nil, domain.ErrAuthUnknown.WithWrap(err)
	}

	session, accessToken, err := a.openSession(ctx, identity.ID, req.IPAddress, req.UserAgent)
	if err != nil {
		return nil, err
	}
	return a.authResponse(ctx, identity, session, accessToken)
}

// enforceSessionLimit deactivates the oldest sessions so that opening one
// more stays within the configured limit.
func (a *authUsecase) enforceSessionLimit(ctx context.Context, identityID string) error {
	if !a.cfg.UserSessionLimitEnabled() || a.cfg.SessionLimitPerUser() <= 0 {
		return nil
	}
	sessions, err := a.sessionRepo.FindActiveByUser(ctx, identityID, utils.NowUnixMillis())
	if err != nil {
		return err
	}
	excess := len(sessions) - a.cfg.SessionLimitPerUser() + 1
	for i := 0; i < excess; i++ {
		if err := a.sessionRepo.Deactivate(ctx, sessions[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (a *authUsecase) openSession(ctx context.Context, identityID, ipAddress, userAgent string) (*domain.UserSession, string, error) {
	refreshToken, err := a.jwtProvider.Generate(domain.TokenTypeRefresh, "", "")
	if err != nil {
		return nil, "", domain.ErrInternalServerError.WithWrap(err)
	}

	now := utils.NowUnixMillis()
	session := &domain.UserSession{
		UserID:         identityID,
		RefreshToken:   refreshToken,
		IPAddress:      ipAddress,
		UserAgent:      userAgent,
		Active:         true,
		ExpiresAt:      now + a.cfg.RefreshTokenExpiresIn().Milliseconds(),
		LastActivityAt: now,
	}
	if err := a.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", domain.ErrCannotCreateSession.WithWrap(err)
	}

	accessToken, err := a.jwtProvider.Generate(domain.TokenTypeAccess, identityID, session.ID)
	if err != nil {
		return nil, "", domain.ErrInternalServerError.WithWrap(err)
	}
	return session, accessToken, nil
}

// authResponse attaches the profile. A missing profile is a valid session
// state reported as profile_incomplete; any other load failure is an error.
func (a *authUsecase) authResponse(ctx context.Context, identity *domain.Identity, session *domain.UserSession, accessToken string) (*domain.AuthResponse, error) {
	me, err := a.describe(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		Identity:      identity,
		Profile:       me.Profile,
		ProfileStatus: me.ProfileStatus,
		SessionID:     session.ID,
		AccessToken:   accessToken,
		RefreshToken:  session.RefreshToken,
	}, nil
}

func (a *authUsecase) describe(ctx context.Context, identity *domain.Identity) (*domain.MeResponse, error) {
	profile, err := a.profiles.Resolve(ctx, identity.ID)
	switch {
	case err == nil:
		return &domain.MeResponse{Identity: identity, Profile: profile, ProfileStatus: domain.ProfileReady}, nil
	case errors.Is(err, domain.ErrProfileIncomplete):
		return &domain.MeResponse{Identity: identity, ProfileStatus: domain.ProfileIncomplete}, nil
	default:
		return nil, err
	}
}

func (a *authUsecase) SignOut(ctx context.Context, sessionID string) error {
	session, err := a.sessionRepo.FindByID(ctx, sessionID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrSessionExpired
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if !session.Active {
		return nil
	}
	if err := a.sessionRepo.Deactivate(ctx, session.ID); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	a.logger.InfoContext(ctx, "Session closed", log.String("session_id", session.ID))
	return nil
}

// Refresh rotates the refresh token of a live session; the old token stops
// working immediately.
func (a *authUsecase) Refresh(ctx context.Context, req *domain.RefreshTokenRequest) (*domain.AuthResponse, error) {
	if req.RefreshToken == "" {
		return nil, domain.ErrInvalidToken.WithReason("refresh token is required")
	}
	session, err := a.sessionRepo.FindByRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidToken.WithReason("unknown refresh token")
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if !session.IsActive() {
		return nil, domain.ErrSessionExpired
	}

	identity, err := a.identityRepo.FindByID(ctx, session.UserID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidToken.WithReason("identity no longer exists")
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	if identity.IsBanned() {
		_ = a.sessionRepo.Deactivate(ctx, session.ID)
		return nil, domain.ErrAccountBanned
	}

	newRefreshToken, err := a.jwtProvider.Generate(domain.TokenTypeRefresh, "", "")
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	fields := map[string]any{
		"refresh_token":    newRefreshToken,
		"last_activity_at": utils.NowUnixMillis(),
	}
	if req.IPAddress != "" {
		fields["ip_address"] = req.IPAddress
	}
	if req.UserAgent != "" {
		fields["user_agent"] = req.UserAgent
	}
	if err := a.sessionRepo.UpdateFields(ctx, session.ID, fields); err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	session.RefreshToken = newRefreshToken

	accessToken, err := a.jwtProvider.Generate(domain.TokenTypeAccess, identity.ID, session.ID)
	if err != nil {
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return a.authResponse(log.ContextWith(ctx, log.CtxKeyUserID, identity.ID), identity, session, accessToken)
}

func (a *authUsecase) ConfirmEmail(ctx context.Context, req *domain.ConfirmEmailRequest) error {
	identity, err := a.identityRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if common.IsRecordNotFound(err) {
			return domain.ErrConfirmationInvalid
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if identity.IsConfirmed() {
		return nil
	}
	if identity.IsBanned() || identity.ConfirmationToken == "" || identity.ConfirmationToken != req.Token {
		return domain.ErrConfirmationInvalid
	}

	if err := a.identityRepo.UpdateFields(ctx, identity.ID, map[string]any{
		"status":             domain.IdentityActive,
		"confirmation_token": "",
		"confirmed_at":       utils.NowUnixMillis(),
	}); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	a.logger.InfoContext(log.ContextWith(ctx, log.CtxKeyUserID, identity.ID), "Email confirmed")
	return nil
}

// ResendConfirmation issues a fresh token. Unknown or already confirmed
// addresses succeed silently.
func (a *authUsecase) ResendConfirmation(ctx context.Context, req *domain.ResendConfirmationRequest) error {
	identity, err := a.identityRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil
		}
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if identity.Status != domain.IdentityWaitingConfirm {
		return nil
	}

	token, err := newConfirmationToken()
	if err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	if err := a.identityRepo.UpdateFields(ctx, identity.ID, map[string]any{"confirmation_token": token}); err != nil {
		return domain.ErrInternalServerError.WithWrap(err)
	}
	identity.ConfirmationToken = token

	ctx = log.ContextWith(ctx, log.CtxKeyUserID, identity.ID)
	profile, err := a.profiles.Resolve(ctx, identity.ID)
	if err != nil && !errors.Is(err, domain.ErrProfileIncomplete) {
		a.logger.WarnContext(ctx, "Profile unavailable for confirmation email", log.Error(err))
	}
	a.sendConfirmation(ctx, identity, profile)
	return nil
}

func (a *authUsecase) Me(ctx context.Context, identityID string) (*domain.MeResponse, error) {
	identity, err := a.identityRepo.FindByID(ctx, identityID, nil)
	if err != nil {
		if common.IsRecordNotFound(err) {
			return nil, domain.ErrInvalidToken.WithReason("identity no longer exists")
		}
		return nil, domain.ErrInternalServerError.WithWrap(err)
	}
	return a.describe(ctx, identity)
}
