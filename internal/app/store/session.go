package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"habitpet/internal/app/user"
)

// Keys of the persisted session.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// Session is the typed view over a Store.
type Session struct {
	kv Store
}

func NewSession(kv Store) *Session {
	return &Session{kv: kv}
}

func (s *Session) optional(ctx context.Context, key string) (string, error) {
	v, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// AccessToken returns the stored bearer token, or "" when none is stored.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	return s.optional(ctx, KeyAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when none is stored.
func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	return s.optional(ctx, KeyRefreshToken)
}

// SaveTokens stores both tokens. An empty refresh token is removed instead.
func (s *Session) SaveTokens(ctx context.Context, access, refresh string) error {
	if err := s.kv.Set(ctx, KeyAccessToken, access); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if refresh == "" {
		return s.kv.Remove(ctx, KeyRefreshToken)
	}
	if err := s.kv.Set(ctx, KeyRefreshToken, refresh); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// SaveAccessToken replaces the bearer token only.
func (s *Session) SaveAccessToken(ctx context.Context, access string) error {
	return s.kv.Set(ctx, KeyAccessToken, access)
}

// Identity returns the cached identity. ok is false when nothing usable is stored;
// an undecodable value counts as absent.
func (s *Session) Identity(ctx context.Context) (id user.Identity, ok bool, err error) {
	raw, err := s.optional(ctx, KeyUser)
	if err != nil || raw == "" {
		return user.Identity{}, false, err
	}
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return user.Identity{}, false, nil
	}
	return id, id.Valid(), nil
}

// SaveIdentity stores the identity as JSON.
func (s *Session) SaveIdentity(ctx context.Context, id user.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	return s.kv.Set(ctx, KeyUser, string(raw))
}

// Clear removes every session key. All removals are attempted; the errors are joined.
func (s *Session) Clear(ctx context.Context) error {
	var errList []error
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if err := s.kv.Remove(ctx, key); err != nil {
			errList = append(errList, fmt.Errorf("remove %s: %w", key, err))
		}
	}
	return errors.Join(errList...)
}
