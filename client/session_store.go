package client

import (
	"context"
	"sync"

	"campaign-platform/domain"
	"campaign-platform/pkg/log"

	"github.com/pkg/errors"
)

// AuthAPI is the part of the API the session store drives.
type AuthAPI interface {
	SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error)
	SignIn(ctx context.Context, email, password string) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	SignOut(ctx context.Context, accessToken string) error
	Profile(ctx context.Context, accessToken string) (*domain.Profile, error)
}

// SessionState is a snapshot handed to subscribers and returned by State.
//
// Ready is false from an identity change until the profile for that identity
// has been resolved. Err holds a profile load failure other than
// profile_incomplete; the state is still Ready in that case.
type SessionState struct {
	Generation    uint64
	Identity      *domain.Identity
	Profile       *domain.Profile
	ProfileStatus domain.ProfileStatus
	Ready         bool
	Err           error
}

func (s SessionState) SignedIn() bool { return s.Identity != nil }

type SessionStore struct {
	api    AuthAPI
	tokens TokenStore
	logger log.Logger

	mu      sync.Mutex
	state   SessionState
	current *Tokens
	cancel  context.CancelFunc
	readyCh chan struct{}

	// op numbers identity-changing calls in the order they were issued.
	// Only the latest one may commit its result.
	op         uint64
	opCancel   context.CancelFunc
	recovering bool

	// notifyMu keeps subscriber callbacks in transition order.
	notifyMu  sync.Mutex
	listeners map[int]func(SessionState)
	nextID    int

	wg sync.WaitGroup
}

func NewSessionStore(api AuthAPI, tokens TokenStore, logger log.Logger) *SessionStore {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &SessionStore{
		api:       api,
		tokens:    tokens,
		logger:    logger,
		readyCh:   make(chan struct{}),
		listeners: make(map[int]func(SessionState)),
	}
}

// ErrSuperseded is returned by SignIn and Refresh when a newer sign-in,
// sign-out or refresh started while the call was in flight. The result of
// the older call is dropped.
var ErrSuperseded = errors.New("session operation superseded by a newer one")

// Init recovers a stored session in the background. Use WaitReady or
// Subscribe to learn the outcome. A SignIn or SignOut issued before the
// recovery completes cancels it.
func (s *SessionStore) Init(ctx context.Context) {
	ctx, op, cancel := s.beginOp(ctx)
	s.mu.Lock()
	s.recovering = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		s.recover(ctx, op)
	}()
}

func (s *SessionStore) recover(ctx context.Context, op uint64) {
	stored, err := s.tokens.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load stored tokens", log.Error(err))
	}
	if stored == nil || stored.RefreshToken == "" {
		s.commit(op, nil, nil, nil)
		return
	}

	resp, err := s.api.Refresh(ctx, stored.RefreshToken)
	if err != nil {
		if s.superseded(op) {
			return
		}
		s.logger.InfoContext(ctx, "Stored session is no longer valid", log.Error(err))
		s.commit(op, nil, nil, func() error { return s.tokens.Clear(ctx) })
		return
	}
	s.adopt(ctx, op, resp)
}

func tokensFrom(resp *domain.AuthResponse) *Tokens {
	t := &Tokens{
		SessionID:    resp.SessionID,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.Identity != nil {
		t.IdentityID = resp.Identity.ID
	}
	return t
}

func (s *SessionStore) adopt(ctx context.Context, op uint64, resp *domain.AuthResponse) bool {
	tokens := tokensFrom(resp)
	_, ok := s.commit(op, tokens, resp.Identity, func() error { return s.tokens.Save(ctx, tokens) })
	return ok
}

// SignIn surfaces the server's AuthError; domain.KindOf reads its kind.
func (s *SessionStore) SignIn(ctx context.Context, email, password string) error {
	opCtx, op, cancel := s.beginOp(ctx)
	defer cancel()

	resp, err := s.api.SignIn(opCtx, email, password)
	if err != nil {
		return s.failed(op, err)
	}
	if !s.adopt(ctx, op, resp) {
		return ErrSuperseded
	}
	return nil
}

// SignUp does not start a session; the account must confirm its email first.
func (s *SessionStore) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignUpResponse, error) {
	return s.api.SignUp(ctx, req)
}

// SignOut ends the local session before telling the server, so it always
// takes effect, even when the server call fails.
func (s *SessionStore) SignOut(ctx context.Context) error {
	_, op, cancel := s.beginOp(ctx)
	defer cancel()

	prev, ok := s.commit(op, nil, nil, func() error { return s.tokens.Clear(ctx) })
	if !ok || prev == nil {
		return nil
	}
	if err := s.api.SignOut(ctx, prev.AccessToken); err != nil {
		s.logger.WarnContext(ctx, "Server sign-out failed", log.Error(err))
		return err
	}
	return nil
}

// Refresh rotates the refresh token. The rotation counts as an identity
// change, so the profile is resolved again.
func (s *SessionStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()
	if current == nil {
		return domain.ErrUnauthorized.WithReason("no active session")
	}

	opCtx, op, cancel := s.beginOp(ctx)
	defer cancel()

	resp, err := s.api.Refresh(opCtx, current.RefreshToken)
	if err != nil {
		return s.failed(op, err)
	}
	if !s.adopt(ctx, op, resp) {
		return ErrSuperseded
	}
	return nil
}

// AccessToken returns the bearer token of the current session, if any.
func (s *SessionStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

func (s *SessionStore) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WaitReady blocks until the state for the current identity is ready.
func (s *SessionStore) WaitReady(ctx context.Context) (SessionState, error) {
	for {
		s.mu.Lock()
		if s.state.Ready {
			st := s.state
			s.mu.Unlock()
			return st, nil
		}
		ch := s.readyCh
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return SessionState{}, ctx.Err()
		}
	}
}

// Subscribe registers fn for every state transition and returns a function
// that removes it. fn runs on the goroutine that caused the transition and
// must not call SignIn, SignOut or Refresh.
func (s *SessionStore) Subscribe(fn func(SessionState)) (unsubscribe func()) {
	s.notifyMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.notifyMu.Unlock()

	return func() {
		s.notifyMu.Lock()
		delete(s.listeners, id)
		s.notifyMu.Unlock()
	}
}

// Close cancels any in-flight recovery or profile resolution and waits for
// background work to finish.
func (s *SessionStore) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.opCancel != nil {
		s.opCancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// beginOp registers a new identity-changing call and cancels the previous one.
func (s *SessionStore) beginOp(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opCancel != nil {
		s.opCancel()
	}
	s.op++
	s.opCancel = cancel
	return ctx, s.op, cancel
}

func (s *SessionStore) superseded(op uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return op != s.op
}

// failed handles an API error for op. A call that abandoned the startup
// recovery settles the state as signed out, so WaitReady does not hang.
func (s *SessionStore) failed(op uint64, err error) error {
	s.mu.Lock()
	if op != s.op {
		s.mu.Unlock()
		return ErrSuperseded
	}
	if !s.recovering {
		s.mu.Unlock()
		return err
	}
	s.changeIdentityLocked(nil, nil)
	return err
}

// commit applies the outcome of op unless a newer call has started since.
// persist runs under s.mu so stored tokens change in the same order as the
// state. It returns the tokens that were current before the change.
func (s *SessionStore) commit(op uint64, tokens *Tokens, identity *domain.Identity, persist func() error) (*Tokens, bool) {
	s.mu.Lock()
	if op != s.op {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded session result", log.Int64("op", int64(op)))
		return nil, false
	}
	if persist != nil {
		if err := persist(); err != nil {
			s.logger.Warn("Failed to persist tokens", log.Error(err))
		}
	}
	prev := s.current
	s.changeIdentityLocked(tokens, identity)
	return prev, true
}

// publish must be called with s.mu held; it releases s.mu.
func (s *SessionStore) publish() {
	snapshot := s.state
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.listeners {
		fn(snapshot)
	}
}

// changeIdentityLocked must be called with s.mu held; it releases s.mu.
func (s *SessionStore) changeIdentityLocked(tokens *Tokens, identity *domain.Identity) {
	s.recovering = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	gen := s.state.Generation + 1
	s.current = tokens
	s.state = SessionState{Generation: gen, Identity: identity}
	if s.readyCh == nil || isClosed(s.readyCh) {
		s.readyCh = make(chan struct{})
	}

	if identity == nil || tokens == nil {
		s.state.Identity = nil
		s.publish()
		s.finish(gen, nil, nil)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.publish()

	go func() {
		defer s.wg.Done()
		defer cancel()
		profile, err := s.api.Profile(ctx, tokens.AccessToken)
		s.finish(gen, profile, err)
	}()
}

// finish applies a resolution result unless a newer identity change has
// already happened.
func (s *SessionStore) finish(gen uint64, profile *domain.Profile, err error) {
	s.mu.Lock()
	if gen != s.state.Generation {
		s.mu.Unlock()
		s.logger.Debug("Discarding stale profile resolution", log.Int64("generation", int64(gen)))
		return
	}

	switch {
	case s.state.Identity == nil:
	case err == nil:
		s.state.Profile = profile
		s.state.ProfileStatus = domain.ProfileReady
	case errors.Is(err, domain.ErrProfileIncomplete):
		s.state.ProfileStatus = domain.ProfileIncomplete
	default:
		s.state.Err = err
		s.logger.Warn("Failed to resolve profile", log.Int64("generation", int64(gen)), log.Error(err))
	}
	s.state.Ready = true
	close(s.readyCh)
	s.publish()
}

func isClosed(ch chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
