/*
Package economy caches the account's coins, level and experience.

The backend is authoritative: changes are sent as absolute values, level-ups are
decided by a separate server round-trip, and every successful change is followed
by a full re-fetch.
*/
package economy

import (
	"context"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

// ExperiencePerLevel is the experience needed to advance one level.
const ExperiencePerLevel = 100

var (
	errNotLoaded     = errs.Rejected("Game data is still loading.")
	errInvalidAmount = errs.Rejected("Amount must be positive.")
)

// Backend is the subset of the API client used by the economy.
type Backend interface {
	GameData(ctx context.Context) (api.GameData, error)
	CreateGameData(ctx context.Context) (api.GameData, error)
	UpdateGameData(ctx context.Context, req api.UpdateGameDataRequest) (api.GameData, error)
	CheckLevelUp(ctx context.Context) (api.LevelUpResult, error)
	Rewards(ctx context.Context, page, size int) (api.Page[api.Reward], error)
}

type Service struct {
	cache   *lifecycle.Cache[api.GameData]
	backend Backend
	outcome lifecycle.Outcome
	logger  zerolog.Logger
}

func New(source lifecycle.Source, backend Backend) *Service {
	return &Service{
		cache: lifecycle.New(source, lifecycle.Options[api.GameData]{
			Name:  "economy",
			Fetch: backend.GameData,
			Create: func(ctx context.Context) error {
				_, err := backend.CreateGameData(ctx)
				return err
			},
		}),
		backend: backend,
		logger:  logx.Component("economy"),
	}
}

// OnIdentityChange implements lifecycle.Listener.
func (s *Service) OnIdentityChange(snap lifecycle.Snapshot) {
	s.cache.OnIdentityChange(snap)
}

// State returns the cached economy state.
func (s *Service) State() (api.GameData, bool) {
	return s.cache.Get()
}

func (s *Service) Refresh(ctx context.Context) bool {
	return s.cache.Refresh(ctx)
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

// CanAfford reports whether the cached balance covers price. It is false while
// nothing is loaded.
func (s *Service) CanAfford(price int) bool {
	state, ok := s.cache.Get()
	return ok && state.Coins >= price
}

// EarnCoins adds amount to the balance.
func (s *Service) EarnCoins(ctx context.Context, amount int) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "earn_coins", func(ctx context.Context) error {
		if amount <= 0 {
			return errInvalidAmount
		}
		state, ok := s.cache.Get()
		if !ok {
			return errNotLoaded
		}

		coins := state.Coins + amount
		if _, err := s.backend.UpdateGameData(ctx, api.UpdateGameDataRequest{Coins: &coins}); err != nil {
			return err
		}
		s.cache.Refresh(ctx)
		return nil
	})
}

// EarnExperience adds amount to the experience, then asks the backend whether the
// account leveled up.
func (s *Service) EarnExperience(ctx context.Context, amount int) (api.LevelUpResult, bool) {
	var result api.LevelUpResult
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "earn_experience", func(ctx context.Context) error {
		if amount <= 0 {
			return errInvalidAmount
		}
		state, ok := s.cache.Get()
		if !ok {
			return errNotLoaded
		}

		experience := state.Experience + amount
		if _, err := s.backend.UpdateGameData(ctx, api.UpdateGameDataRequest{Experience: &experience}); err != nil {
			return err
		}

		var err error
		result, err = s.backend.CheckLevelUp(ctx)
		s.cache.Refresh(ctx)
		if err != nil {
			return err
		}

		if result.LeveledUp {
			s.logger.Info().Int("new_level", result.NewLevel).Msg("Level up")
		}
		return nil
	})
	return result, ok
}

// RewardHistory returns one page of the account's rewards.
func (s *Service) RewardHistory(ctx context.Context, page, size int) (api.Page[api.Reward], bool) {
	var out api.Page[api.Reward]
	ok := lifecycle.Attempt(ctx, s.logger, &s.outcome, "reward_history", func(ctx context.Context) error {
		var err error
		out, err = s.backend.Rewards(ctx, page, size)
		return err
	})
	return out, ok
}

// LevelFor derives the level from experience.
func LevelFor(experience int) int {
	if experience < 0 {
		experience = 0
	}
	return experience/ExperiencePerLevel + 1
}

// ExperienceForLevel is the total experience at which level ends.
func ExperienceForLevel(level int) int {
	return level * ExperiencePerLevel
}

// ExperienceToNextLevel is the experience still needed to reach the next level.
func ExperienceToNextLevel(experience int) int {
	return max(0, ExperienceForLevel(LevelFor(experience))-experience)
}
