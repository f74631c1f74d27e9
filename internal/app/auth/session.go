/*
Package auth is the session domain of the client core.

Service owns the authentication state machine:

	Unauthenticated -> Authenticating -> Authenticated
	Authenticating  -> Failed (message kept until ClearError)
	Failed          -> Unauthenticated (ClearError)
	Authenticated   -> Unauthenticated (logout or auto-logout)

An identity is present only while Authenticated. Every identity change bumps the
snapshot epoch and is delivered synchronously to subscribed listeners, which is how
the economy, character and room caches reset and reload.
*/
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/app/store"
	"habitpet/internal/app/user"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const (
	// AutoLogoutMessage is shown after the backend rejected the session.
	AutoLogoutMessage = "Your session has expired. Please sign in again."

	genericFailureMessage = "Sign-in failed. Please try again."
)

var errIncompleteResponse = errors.New("sign-in response without token or identity")

type Status int

const (
	Unauthenticated Status = iota
	Authenticating
	Authenticated
	Failed
)

func (s Status) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	default:
		return "unauthenticated"
	}
}

// State is the observable session state.
type State struct {
	Status    Status
	Identity  user.Identity
	LastError string
}

// Backend is the subset of the API client used by the session.
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	SignUp(ctx context.Context, req api.SignUpRequest) (api.AuthResponse, error)
	LoginWithGoogle(ctx context.Context, req api.GoogleLoginRequest) (api.AuthResponse, error)
	Logout(ctx context.Context) error
}

// Coordinator is the auto-logout hook the session registers with.
type Coordinator interface {
	Register(cb func())
	Arm()
	Disarm()
}

type Service struct {
	mu        sync.Mutex
	state     State
	epoch     uint64
	listeners []lifecycle.Listener

	backend     Backend
	session     *store.Session
	coordinator Coordinator
	logger      zerolog.Logger
}

// New creates the session service and registers its auto-logout callback.
func New(backend Backend, session *store.Session, coordinator Coordinator) *Service {
	s := &Service{
		backend:     backend,
		session:     session,
		coordinator: coordinator,
		logger:      logx.Component("session"),
	}
	coordinator.Register(s.onAutoLogout)
	return s
}

// Subscribe adds a listener for identity changes. Listeners must be added before
// ResumeSession.
func (s *Service) Subscribe(l lifecycle.Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// State returns a copy of the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current implements lifecycle.Source.
func (s *Service) Current() lifecycle.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() lifecycle.Snapshot {
	return lifecycle.Snapshot{
		Identity: s.state.Identity,
		Present:  s.state.Status == Authenticated,
		Epoch:    s.epoch,
	}
}

// transition replaces the state and notifies listeners when the identity changed.
func (s *Service) transition(next State) {
	s.mu.Lock()
	notify := s.setLocked(next)
	s.mu.Unlock()
	notify()
}

// setLocked stores next and returns the listener notification to run after the
// lock is released.
func (s *Service) setLocked(next State) func() {
	prev := s.snapshotLocked()
	s.state = next

	nowPresent := next.Status == Authenticated
	changed := prev.Present != nowPresent || (nowPresent && !prev.Identity.Same(next.Identity))
	if !changed && s.epoch > 0 {
		return func() {}
	}

	s.epoch++
	snap := s.snapshotLocked()
	listeners := append([]lifecycle.Listener(nil), s.listeners...)

	return func() {
		s.logger.Info().
			Str("status", next.Status.String()).
			Int64("user_id", next.Identity.ID).
			Uint64("epoch", snap.Epoch).
			Msg("Session identity changed")

		for _, l := range listeners {
			l.OnIdentityChange(snap)
		}
	}
}

// ResumeSession restores a persisted session without a network call. Both a token
// and an identity must be stored; anything less is cleared.
func (s *Service) ResumeSession(ctx context.Context) bool {
	token, err := s.session.AccessToken(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read persisted token")
	}

	identity, ok, err := s.session.Identity(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read persisted identity")
	}

	if token == "" || !ok {
		if err := s.session.Clear(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to clear partial session")
		}
		s.transition(State{Status: Unauthenticated})
		return false
	}

	s.coordinator.Arm()
	s.transition(State{Status: Authenticated, Identity: identity})
	return true
}

// begin enters Authenticating. Signing in while a sign-in is in flight, or while
// already signed in, is refused; the caller logs out first.
func (s *Service) begin() bool {
	s.mu.Lock()
	if status := s.state.Status; status == Authenticating || status == Authenticated {
		s.mu.Unlock()
		s.logger.Warn().Str("status", status.String()).Msg("Sign-in refused")
		return false
	}
	notify := s.setLocked(State{Status: Authenticating})
	s.mu.Unlock()

	notify()
	return true
}

func (s *Service) fail(op string, err error) bool {
	s.logger.Warn().Err(err).Str("op", op).Str("kind", errs.Classify(err).String()).Msg("Sign-in failed")
	s.transition(State{Status: Failed, LastError: errs.MessageOf(err, genericFailureMessage)})
	return false
}

// complete persists a successful sign-in and enters Authenticated.
func (s *Service) complete(ctx context.Context, op string, res api.AuthResponse) bool {
	identity := res.Identity()
	if res.AccessToken == "" || !identity.Valid() {
		return s.fail(op, errIncompleteResponse)
	}

	if err := s.session.SaveTokens(ctx, res.AccessToken, res.RefreshToken); err != nil {
		return s.fail(op, err)
	}
	if err := s.session.SaveIdentity(ctx, identity); err != nil {
		_ = s.session.Clear(ctx)
		return s.fail(op, err)
	}

	s.coordinator.Arm()
	s.transition(State{Status: Authenticated, Identity: identity})
	return true
}

// Login signs in with email and password.
func (s *Service) Login(ctx context.Context, req api.LoginRequest) bool {
	if !s.begin() {
		return false
	}
	res, err := s.backend.Login(ctx, req)
	if err != nil {
		return s.fail("login", err)
	}
	return s.complete(ctx, "login", res)
}

// SignUp registers the account and then signs in with the same credentials.
func (s *Service) SignUp(ctx context.Context, req api.SignUpRequest) bool {
	if !s.begin() {
		return false
	}
	if _, err := s.backend.SignUp(ctx, req); err != nil {
		return s.fail("signup", err)
	}
	res, err := s.backend.Login(ctx, req.Credentials())
	if err != nil {
		return s.fail("signup", err)
	}
	return s.complete(ctx, "signup", res)
}

// LoginWithGoogle exchanges Google tokens for a session.
func (s *Service) LoginWithGoogle(ctx context.Context, req api.GoogleLoginRequest) bool {
	if !s.begin() {
		return false
	}
	res, err := s.backend.LoginWithGoogle(ctx, req)
	if err != nil {
		return s.fail("google_login", err)
	}
	return s.complete(ctx, "google_login", res)
}

// Logout notifies the backend on a best-effort basis, then always clears the
// persisted session and enters Unauthenticated.
func (s *Service) Logout(ctx context.Context) {
	s.coordinator.Disarm()

	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Info().Err(err).Msg("Backend logout failed, clearing locally")
	}
	if err := s.session.Clear(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear persisted session")
	}

	s.transition(State{Status: Unauthenticated})
}

// ClearError drops the last error message. A Failed sign-in returns to
// Unauthenticated so a new one can begin; other statuses are kept.
func (s *Service) ClearError() {
	s.mu.Lock()
	next := s.state
	next.LastError = ""
	if next.Status == Failed {
		next.Status = Unauthenticated
	}
	notify := s.setLocked(next)
	s.mu.Unlock()
	notify()
}

// UpdateIdentity replaces the details of the signed-in identity, as after a
// nickname change, and persists them. It is refused for any other account and
// while signed out. Listeners are not notified because the account is the same.
func (s *Service) UpdateIdentity(ctx context.Context, identity user.Identity) bool {
	s.mu.Lock()
	if s.state.Status != Authenticated || !s.state.Identity.Same(identity) {
		s.mu.Unlock()
		s.logger.Warn().Int64("user_id", identity.ID).Msg("Identity update refused")
		return false
	}
	s.state.Identity = identity
	s.mu.Unlock()

	if err := s.session.SaveIdentity(ctx, identity); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist updated identity")
		return false
	}
	return true
}

// onAutoLogout runs after the coordinator cleared the persisted session.
func (s *Service) onAutoLogout() {
	s.transition(State{Status: Unauthenticated, LastError: AutoLogoutMessage})
}
