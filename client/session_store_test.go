package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"campaign-platform/domain"

	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	signIn  func(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	refresh func(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	signOut func(ctx context.Context, accessToken string) error
	profile func(ctx context.Context, accessToken string) (*domain.Profile, error)
}

func (f *fakeAuthAPI) SignUp(context.Context, *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	return &domain.SignUpResponse{ConfirmationRequired: true}, nil
}

func (f *fakeAuthAPI) SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error) {
	return f.signIn(ctx, email, password)
}

func (f *fakeAuthAPI) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	return f.refresh(ctx, refreshToken)
}

func (f *fakeAuthAPI) SignOut(ctx context.Context, accessToken string) error {
	if f.signOut == nil {
		return nil
	}
	return f.signOut(ctx, accessToken)
}

func (f *fakeAuthAPI) Profile(ctx context.Context, accessToken string) (*domain.Profile, error) {
	return f.profile(ctx, accessToken)
}

func authFor(id string) *domain.AuthResponse {
	return &domain.AuthResponse{
		Identity:     &domain.Identity{SQLModel: domain.SQLModel{ID: id}, Email: id + "@example.com"},
		SessionID:    "s-" + id,
		AccessToken:  "access-" + id,
		RefreshToken: "refresh-" + id,
	}
}

func signInByEmail(_ context.Context, email, _ string) (*domain.AuthResponse, error) {
	if email == "wrong@example.com" {
		return nil, domain.ErrInvalidCredentials
	}
	return authFor(email[:len(email)-len("@example.com")]), nil
}

type recorder struct {
	mu     sync.Mutex
	states []SessionState
}

func (r *recorder) record(s SessionState) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) readyCount() map[uint64]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[uint64]int{}
	for _, s := range r.states {
		if s.Ready {
			out[s.Generation]++
		}
	}
	return out
}

func waitReady(t *testing.T, s *SessionStore) SessionState {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := s.WaitReady(ctx)
	require.NoError(t, err)
	return st
}

func TestSessionStore_InitWithoutTokens(t *testing.T) {
	api := &fakeAuthAPI{}
	s := NewSessionStore(api, NewMemoryTokenStore(nil), nil)
	defer s.Close()

	s.Init(context.Background())
	st := waitReady(t, s)
	require.False(t, st.SignedIn())
	require.EqualValues(t, 1, st.Generation)
	require.Empty(t, s.AccessToken())
}

func TestSessionStore_InitRecoversStoredSession(t *testing.T) {
	tokens := NewMemoryTokenStore(&Tokens{IdentityID: "u1", RefreshToken: "refresh-old"})
	api := &fakeAuthAPI{
		refresh: func(_ context.Context, rt string) (*domain.AuthResponse, error) {
			if rt != "refresh-old" {
				return nil, domain.ErrInvalidToken
			}
			return authFor("u1"), nil
		},
		profile: func(context.Context, string) (*domain.Profile, error) {
			return nil, domain.ErrProfileIncomplete
		},
	}
	s := NewSessionStore(api, tokens, nil)
	defer s.Close()

	s.Init(context.Background())
	st := waitReady(t, s)
	require.True(t, st.SignedIn())
	require.Equal(t, domain.ProfileIncomplete, st.ProfileStatus)
	require.Nil(t, st.Profile)
	require.NoError(t, st.Err)

	stored, err := tokens.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "refresh-u1", stored.RefreshToken)
	require.Equal(t, "access-u1", s.AccessToken())
}

func TestSessionStore_InitWithRevokedTokensSignsOut(t *testing.T) {
	tokens := NewMemoryTokenStore(&Tokens{RefreshToken: "revoked"})
	api := &fakeAuthAPI{refresh: func(context.Context, string) (*domain.AuthResponse, error) {
		return nil, domain.ErrSessionExpired
	}}
	s := NewSessionStore(api, tokens, nil)
	defer s.Close()

	s.Init(context.Background())
	st := waitReady(t, s)
	require.False(t, st.SignedIn())

	stored, err := tokens.Load(context.Background())
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestSessionStore_SignInSurfacesAuthError(t *testing.T) {
	s := NewSessionStore(&fakeAuthAPI{signIn: signInByEmail}, NewMemoryTokenStore(nil), nil)
	defer s.Close()

	err := s.SignIn(context.Background(), "wrong@example.com", "pw")
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))
	require.EqualValues(t, 0, s.State().Generation)
}

func TestSessionStore_ProfileFailureStillBecomesReady(t *testing.T) {
	boom := errors.New("network down")
	api := &fakeAuthAPI{
		signIn: signInByEmail,
		profile: func(context.Context, string) (*domain.Profile, error) {
			return nil, boom
		},
	}
	s := NewSessionStore(api, NewMemoryTokenStore(nil), nil)
	defer s.Close()

	require.NoError(t, s.SignIn(context.Background(), "u1@example.com", "pw"))
	st := waitReady(t, s)
	require.True(t, st.SignedIn())
	require.ErrorIs(t, st.Err, boom)
	require.Empty(t, st.ProfileStatus)
}

func TestSessionStore_StaleResolutionIsDiscarded(t *testing.T) {
	releaseA := make(chan struct{})
	api := &fakeAuthAPI{
		signIn: signInByEmail,
		profile: func(_ context.Context, token string) (*domain.Profile, error) {
			if token == "access-a" {
				<-releaseA
				return &domain.Profile{SQLModel: domain.SQLModel{ID: "a"}, Role: domain.RoleBrandAdmin}, nil
			}
			return &domain.Profile{SQLModel: domain.SQLModel{ID: "b"}, Role: domain.RoleCreatorAdmin}, nil
		},
	}
	s := NewSessionStore(api, NewMemoryTokenStore(nil), nil)
	rec := &recorder{}
	s.Subscribe(rec.record)

	ctx := context.Background()
	require.NoError(t, s.SignIn(ctx, "a@example.com", "pw"))
	require.NoError(t, s.SignIn(ctx, "b@example.com", "pw"))

	st := waitReady(t, s)
	require.EqualValues(t, 2, st.Generation)
	require.Equal(t, "b", st.Profile.ID)

	close(releaseA)
	s.Close()

	final := s.State()
	require.EqualValues(t, 2, final.Generation)
	require.Equal(t, "b", final.Profile.ID)
	require.Equal(t, domain.RoleCreatorAdmin, final.Profile.Role)
	require.Equal(t, map[uint64]int{2: 1}, rec.readyCount())
}

func TestSessionStore_ReadyOncePerIdentityChange(t *testing.T) {
	api := &fakeAuthAPI{
		signIn: signInByEmail,
		refresh: func(_ context.Context, rt string) (*domain.AuthResponse, error) {
			return authFor("u1"), nil
		},
		profile: func(context.Context, string) (*domain.Profile, error) {
			return &domain.Profile{SQLModel: domain.SQLModel{ID: "u1"}, Role: domain.RoleBrandAdmin}, nil
		},
	}
	tokens := NewMemoryTokenStore(nil)
	s := NewSessionStore(api, tokens, nil)
	defer s.Close()
	rec := &recorder{}
	unsubscribe := s.Subscribe(rec.record)

	ctx := context.Background()
	s.Init(ctx)
	waitReady(t, s)

	require.NoError(t, s.SignIn(ctx, "u1@example.com", "pw"))
	st := waitReady(t, s)
	require.Equal(t, domain.ProfileReady, st.ProfileStatus)

	require.NoError(t, s.Refresh(ctx))
	waitReady(t, s)

	require.NoError(t, s.SignOut(ctx))
	st = waitReady(t, s)
	require.False(t, st.SignedIn())
	require.Empty(t, s.AccessToken())

	stored, err := tokens.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)

	require.Equal(t, map[uint64]int{1: 1, 2: 1, 3: 1, 4: 1}, rec.readyCount())

	unsubscribe()
	require.NoError(t, s.SignIn(ctx, "u1@example.com", "pw"))
	waitReady(t, s)
	require.Len(t, rec.readyCount(), 4)
}

func TestSessionStore_RefreshWithoutSession(t *testing.T) {
	s := NewSessionStore(&fakeAuthAPI{}, NewMemoryTokenStore(nil), nil)
	defer s.Close()

	require.ErrorIs(t, s.Refresh(context.Background()), domain.ErrUnauthorized)
}

func TestSessionStore_SignOutWinsOverSlowerSignIn(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAuthAPI{
		signIn: func(_ context.Context, email, password string) (*domain.AuthResponse, error) {
			close(entered)
			<-release
			return signInByEmail(context.Background(), email, password)
		},
		profile: func(context.Context, string) (*domain.Profile, error) {
			return &domain.Profile{SQLModel: domain.SQLModel{ID: "u1"}, Role: domain.RoleBrandAdmin}, nil
		},
	}
	tokens := NewMemoryTokenStore(nil)
	s := NewSessionStore(api, tokens, nil)
	defer s.Close()
	ctx := context.Background()

	signInErr := make(chan error, 1)
	go func() { signInErr <- s.SignIn(ctx, "u1@example.com", "pw") }()
	<-entered

	require.NoError(t, s.SignOut(ctx))
	close(release)
	require.ErrorIs(t, <-signInErr, ErrSuperseded)

	st := waitReady(t, s)
	require.False(t, st.SignedIn())
	require.EqualValues(t, 1, st.Generation)
	require.Empty(t, s.AccessToken())

	stored, err := tokens.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, stored)
}

func TestSessionStore_SignInCancelsPendingRecovery(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAuthAPI{
		signIn: signInByEmail,
		refresh: func(context.Context, string) (*domain.AuthResponse, error) {
			close(entered)
			<-release
			return authFor("old"), nil
		},
		profile: func(_ context.Context, token string) (*domain.Profile, error) {
			return &domain.Profile{SQLModel: domain.SQLModel{ID: token}, Role: domain.RoleCreatorAdmin}, nil
		},
	}
	tokens := NewMemoryTokenStore(&Tokens{IdentityID: "old", RefreshToken: "refresh-old"})
	s := NewSessionStore(api, tokens, nil)
	ctx := context.Background()

	s.Init(ctx)
	<-entered
	require.NoError(t, s.SignIn(ctx, "new@example.com", "pw"))
	close(release)
	s.Close()

	st := s.State()
	require.True(t, st.Ready)
	require.Equal(t, "new", st.Identity.ID)
	require.Equal(t, "access-new", s.AccessToken())

	stored, err := tokens.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "refresh-new", stored.RefreshToken)
}

func TestSessionStore_FailedSignInSettlesAbandonedRecovery(t *testing.T) {
	entered := make(chan struct{})
	api := &fakeAuthAPI{
		signIn: signInByEmail,
		refresh: func(ctx context.Context, _ string) (*domain.AuthResponse, error) {
			close(entered)
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	s := NewSessionStore(api, NewMemoryTokenStore(&Tokens{RefreshToken: "refresh-old"}), nil)
	defer s.Close()
	ctx := context.Background()

	s.Init(ctx)
	<-entered
	err := s.SignIn(ctx, "wrong@example.com", "pw")
	require.Equal(t, domain.AuthErrInvalidCredentials, domain.KindOf(err))

	st := waitReady(t, s)
	require.False(t, st.SignedIn())
}
