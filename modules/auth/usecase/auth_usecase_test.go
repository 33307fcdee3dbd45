package usecase_test

import (
	"context"
	"testing"
	"time"

	"campaign-platform/bootstrap"
	"campaign-platform/common"
	"campaign-platform/database"
	"campaign-platform/database/dbtest"
	"campaign-platform/domain"
	authRepo "campaign-platform/modules/auth/repository"
	"campaign-platform/modules/auth/usecase"
	emailRepo "campaign-platform/modules/email/repository"
	emailUC "campaign-platform/modules/email/usecase"
	profileRepo "campaign-platform/modules/profile/repository"
	profileUC "campaign-platform/modules/profile/usecase"
	"campaign-platform/pkg/email"
	"campaign-platform/pkg/log"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authCfg struct {
	sessionLimit int
}

func (authCfg) Name() string                         { return "Campaign Platform" }
func (authCfg) ConfirmationURL() string              { return "https://app.example.com/confirm" }
func (authCfg) RefreshTokenExpiresIn() time.Duration { return 24 * time.Hour }
func (c authCfg) SessionLimitPerUser() int           { return c.sessionLimit }
func (c authCfg) UserSessionLimitEnabled() bool      { return c.sessionLimit > 0 }
func (authCfg) AccessTokenExpiresIn() time.Duration  { return time.Hour }
func (authCfg) AccessTokenSecret() string            { return "access-secret" }
func (authCfg) RefreshTokenSecret() string           { return "refresh-secret" }
func (authCfg) TokenIssuer() string                  { return "campaign-platform" }

type authFixture struct {
	uc         domain.AuthUsecase
	identities *authRepo.IdentityRepository
	sessions   *authRepo.UserSessionRepository
	brands     *profileRepo.BrandRepository
	mailer     *email.MockClient
}

func newAuthFixture(t *testing.T, cfg authCfg) *authFixture {
	t.Helper()
	db := dbtest.NewTestDB(t, database.Models()...)
	logger := log.NewNopLogger()

	identities := authRepo.NewIdentityRepository(db)
	sessions := authRepo.NewUserSessionRepository(db)
	profiles := profileRepo.NewProfileRepository(db)
	brands := profileRepo.NewBrandRepository(db)
	transactor := database.NewTransactor(db)

	templates, err := bootstrap.EmailTemplates()
	require.NoError(t, err)
	mailer := email.NewMockClient(&email.Config{DefaultFrom: "noreply@example.com"})
	emails := emailUC.NewEmailUsecase(emailRepo.NewEmailLogRepository(db), templates, mailer, "mock",
		emailUC.NewTemplateRenderer(logger), logger)

	profileUsecase := profileUC.NewProfileUsecase(profiles, brands, transactor, logger)
	uc := usecase.NewAuthUsecase(identities, sessions, profileUsecase, transactor, emails,
		common.NewJWTProvider(cfg), common.NewBcryptHasherWithCost(bcrypt.MinCost), cfg, logger)

	return &authFixture{uc: uc, identities: identities, sessions: sessions, brands: brands, mailer: mailer}
}

func signUpBrand(email string) *domain.SignUpRequest {
	return &domain.SignUpRequest{
		Email:       email,
		Password:    "secret123",
		FullName:    "Kim Minji",
		Role:        domain.RoleBrandAdmin,
		CompanyName: "Acme Cosmetics",
	}
}

func (f *authFixture) confirm(t *testing.T, email string) {
	t.Helper()
	identity, err := f.identities.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NoError(t, f.uc.ConfirmEmail(context.Background(), &domain.ConfirmEmailRequest{
		Email: email,
		Token: identity.ConfirmationToken,
	}))
}

func TestSignUp_CreatesIdentityProfileBrandAndSendsConfirmation(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()

	resp, err := f.uc.SignUp(ctx, signUpBrand("Brand@Example.com "))
	require.NoError(t, err)
	require.True(t, resp.ConfirmationRequired)
	require.Equal(t, "brand@example.com", resp.Identity.Email)
	require.Equal(t, domain.IdentityWaitingConfirm, resp.Identity.Status)
	require.Equal(t, resp.Identity.ID, resp.Profile.ID)
	require.Equal(t, domain.RoleBrandAdmin, resp.Profile.Role)

	brands, err := f.brands.FindByOwner(ctx, resp.Identity.ID)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	require.Equal(t, "Acme Cosmetics", brands[0].BrandName)

	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, []string{"brand@example.com"}, sent[0].To)
	require.Contains(t, sent[0].HTML, resp.Identity.ConfirmationToken)
}

func TestSignUp_DuplicateEmailKeepsSingleIdentity(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()

	_, err := f.uc.SignUp(ctx, signUpBrand("dup@example.com"))
	require.NoError(t, err)

	_, err = f.uc.SignUp(ctx, signUpBrand("DUP@example.com"))
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	require.Equal(t, domain.AuthErrDuplicateEmail, domain.KindOf(err))

	count, err := f.identities.Count(ctx, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestSignUp_ValidationKinds(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	cases := map[string]*domain.SignUpRequest{
		"bad email":      {Email: "nope", Password: "secret123", FullName: "A", Role: domain.RoleCreatorAdmin},
		"short password": {Email: "a@b.co", Password: "123", FullName: "A", Role: domain.RoleCreatorAdmin},
		"missing name":   {Email: "a@b.co", Password: "secret123", FullName: "  ", Role: domain.RoleCreatorAdmin},
		"super admin":    {Email: "a@b.co", Password: "secret123", FullName: "A", Role: domain.RoleSuperAdmin},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.SignUp(context.Background(), req)
			require.Equal(t, domain.AuthErrValidation, domain.KindOf(err))
		})
	}
}

func TestSignIn_ErrorKinds(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	_, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)

	_, err = f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "secret123"})
	require.Equal(t, domain.AuthErrEmailUnconfirmed, domain.KindOf(err))

	f.confirm(t, "kim@example.com")

	_, err = f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "wrong"})
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))

	_, err = f.uc.SignIn(ctx, &domain.SignInRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))

	resp, err := f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.Equal(t, domain.ProfileReady, resp.ProfileStatus)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
}

func TestSignIn_BannedLooksLikeInvalidCredentials(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	resp, err := f.uc.SignUp(ctx, signUpBrand("banned@example.com"))
	require.NoError(t, err)
	require.NoError(t, f.identities.UpdateFields(ctx, resp.Identity.ID, map[string]any{"status": domain.IdentityBanned}))

	_, err = f.uc.SignIn(ctx, &domain.SignInRequest{Email: "banned@example.com", Password: "secret123"})
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))
}

func TestRefresh_RotatesToken(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	_, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)
	f.confirm(t, "kim@example.com")

	first, err := f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "secret123"})
	require.NoError(t, err)

	second, err := f.uc.Refresh(ctx, &domain.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = f.uc.Refresh(ctx, &domain.RefreshTokenRequest{RefreshToken: first.RefreshToken})
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestSignOut_DeactivatesSession(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	_, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)
	f.confirm(t, "kim@example.com")

	resp, err := f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NoError(t, f.uc.SignOut(ctx, resp.SessionID))

	session, err := f.sessions.FindByID(ctx, resp.SessionID, nil)
	require.NoError(t, err)
	require.False(t, session.IsActive())

	_, err = f.uc.Refresh(ctx, &domain.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestSignIn_SessionLimitDeactivatesOldest(t *testing.T) {
	f := newAuthFixture(t, authCfg{sessionLimit: 2})
	ctx := context.Background()
	signUp, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)
	f.confirm(t, "kim@example.com")

	var sessionIDs []string
	for i := 0; i < 3; i++ {
		resp, err := f.uc.SignIn(ctx, &domain.SignInRequest{Email: "kim@example.com", Password: "secret123"})
		require.NoError(t, err)
		sessionIDs = append(sessionIDs, resp.SessionID)
		time.Sleep(2 * time.Millisecond)
	}

	active, err := f.sessions.FindActiveByUser(ctx, signUp.Identity.ID, 0)
	require.NoError(t, err)
	require.Len(t, active, 2)
	first, err := f.sessions.FindByID(ctx, sessionIDs[0], nil)
	require.NoError(t, err)
	require.False(t, first.Active)
}

func TestConfirmEmail_RejectsWrongToken(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	_, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)

	err = f.uc.ConfirmEmail(ctx, &domain.ConfirmEmailRequest{Email: "kim@example.com", Token: "bogus"})
	require.ErrorIs(t, err, domain.ErrConfirmationInvalid)
}

func TestResendConfirmation_IssuesNewToken(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()
	resp, err := f.uc.SignUp(ctx, signUpBrand("kim@example.com"))
	require.NoError(t, err)
	oldToken := resp.Identity.ConfirmationToken

	require.NoError(t, f.uc.ResendConfirmation(ctx, &domain.ResendConfirmationRequest{Email: "kim@example.com"}))
	require.NoError(t, f.uc.ResendConfirmation(ctx, &domain.ResendConfirmationRequest{Email: "ghost@example.com"}))
	require.Len(t, f.mailer.Sent(), 2)

	err = f.uc.ConfirmEmail(ctx, &domain.ConfirmEmailRequest{Email: "kim@example.com", Token: oldToken})
	require.ErrorIs(t, err, domain.ErrConfirmationInvalid)
	f.confirm(t, "kim@example.com")
}

func TestMe_ReportsProfileIncomplete(t *testing.T) {
	f := newAuthFixture(t, authCfg{})
	ctx := context.Background()

	identity := &domain.Identity{Email: "orphan@example.com", Password: "x", Status: domain.IdentityActive}
	require.NoError(t, f.identities.Create(ctx, identity))

	me, err := f.uc.Me(ctx, identity.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ProfileIncomplete, me.ProfileStatus)
	require.Nil(t, me.Profile)
}
