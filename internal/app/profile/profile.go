/*
Package profile caches the signed-in account's profile and changes its nickname
and password.

A nickname change is also written into the session identity, so the name shown
for the account and the persisted identity stay in step with the backend.
*/
package profile

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/app/user"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const (
	maxNickNameLength = 20
	minPasswordLength = 6
)

var (
	errInvalidNickName = errs.Rejected("Nickname must be 1 to 20 characters.")
	errMissingPassword = errs.Rejected("Please fill in every password field.")
	errPasswordMatch   = errs.Rejected("New passwords do not match.")
	errPasswordLength  = errs.Rejected("Password must be at least 6 characters.")
)

// Backend is the subset of the API client used by the profile.
type Backend interface {
	Profile(ctx context.Context) (api.Profile, error)
	UpdateProfileNickname(ctx context.Context, req api.ProfileNicknameRequest) (api.Profile, error)
	UpdatePassword(ctx context.Context, req api.PasswordUpdateRequest) error
}

// Identities receives the updated identity after a nickname change.
type Identities interface {
	UpdateIdentity(ctx context.Context, identity user.Identity) bool
}

type Service struct {
	cache      *lifecycle.Cache[api.Profile]
	backend    Backend
	identities Identities
	outcome    lifecycle.Outcome
	logger     zerolog.Logger
}

func New(source lifecycle.Source, backend Backend, identities Identities) *Service {
	return &Service{
		cache: lifecycle.New(source, lifecycle.Options[api.Profile]{
			Name:  "profile",
			Fetch: backend.Profile,
		}),
		backend:    backend,
		identities: identities,
		logger:     logx.Component("profile"),
	}
}

// OnIdentityChange implements lifecycle.Listener.
func (s *Service) OnIdentityChange(snap lifecycle.Snapshot) {
	s.cache.OnIdentityChange(snap)
}

// Get returns the cached profile.
func (s *Service) Get() (api.Profile, bool) {
	return s.cache.Get()
}

// Refresh re-fetches the profile and copies its nickname into the session identity.
func (s *Service) Refresh(ctx context.Context) bool {
	if !s.cache.Refresh(ctx) {
		return false
	}
	if p, ok := s.cache.Get(); ok {
		s.identities.UpdateIdentity(ctx, p.Identity())
	}
	return true
}

func (s *Service) Loading() bool { return s.cache.Loading() }

func (s *Service) Wait() { s.cache.Wait() }

// LoadError returns the error of the last failed load for this session, or nil.
func (s *Service) LoadError() error {
	return s.cache.LastError()
}

// LastError returns the message of the last failed operation, or "".
func (s *Service) LastError() string {
	return s.outcome.Message("Something went wrong. Please try again.")
}

// UpdateNickname renames the account.
func (s *Service) UpdateNickname(ctx context.Context, nickName string) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "update_nickname", func(ctx context.Context) error {
		nickName = strings.TrimSpace(nickName)
		if n := utf8.RuneCountInString(nickName); n == 0 || n > maxNickNameLength {
			return errInvalidNickName
		}

		updated, err := s.backend.UpdateProfileNickname(ctx, api.ProfileNicknameRequest{NickName: nickName})
		if err != nil {
			return err
		}

		if !s.cache.Patch(func(api.Profile) api.Profile { return updated }) {
			s.cache.Refresh(ctx)
		}
		s.identities.UpdateIdentity(ctx, updated.Identity())
		return nil
	})
}

// UpdatePassword changes the password. The session stays signed in.
func (s *Service) UpdatePassword(ctx context.Context, current, next, confirm string) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "update_password", func(ctx context.Context) error {
		if current == "" || next == "" || confirm == "" {
			return errMissingPassword
		}
		if next != confirm {
			return errPasswordMatch
		}
		if utf8.RuneCountInString(next) < minPasswordLength {
			return errPasswordLength
		}

		return s.backend.UpdatePassword(ctx, api.PasswordUpdateRequest{
			CurrentPassword: current,
			NewPassword:     next,
			ConfirmPassword: confirm,
		})
	})
}
