package backend

import (
	"slices"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

// GameData returns the account's economy state. It is ErrGameDataNotFound (404)
// until CreateGameData runs.
func (s *Store) GameData(userID int64) (api.GameData, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.GameData{}, cErr
	}
	if a.game == nil {
		return api.GameData{}, errs.NewError(errs.ErrGameDataNotFound)
	}
	return *a.game, nil
}

// CreateGameData creates the default economy state: 0 coins, level 1, 0 experience.
func (s *Store) CreateGameData(userID int64) (api.GameData, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.GameData{}, cErr
	}
	if a.game != nil {
		return api.GameData{}, errs.NewError(errs.ErrGameDataExists)
	}

	now := s.now()
	a.game = &api.GameData{ID: s.id(), UserID: userID, Level: 1, CreatedAt: now, UpdatedAt: now}
	return *a.game, nil
}

// UpdateGameData sets the given absolute values. The level is not derived here;
// CheckLevelUp does that.
func (s *Store) UpdateGameData(userID int64, req api.UpdateGameDataRequest) (api.GameData, *errs.CustomError) {
	if req.Coins != nil && *req.Coins < 0 {
		return api.GameData{}, errs.NewError(errs.ErrInvalidParams, "coins must not be negative")
	}
	if req.Experience != nil && *req.Experience < 0 {
		return api.GameData{}, errs.NewError(errs.ErrInvalidParams, "experience must not be negative")
	}
	if req.Level != nil && *req.Level < 1 {
		return api.GameData{}, errs.NewError(errs.ErrInvalidParams, "level must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	g, cErr := s.gameLocked(userID)
	if cErr != nil {
		return api.GameData{}, cErr
	}

	if req.Coins != nil {
		g.Coins = *req.Coins
	}
	if req.Experience != nil {
		g.Experience = *req.Experience
	}
	if req.Level != nil {
		g.Level = *req.Level
	}
	g.UpdatedAt = s.now()
	return *g, nil
}

// CheckLevelUp raises the level to match the experience.
func (s *Store) CheckLevelUp(userID int64) (api.LevelUpResult, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, cErr := s.gameLocked(userID)
	if cErr != nil {
		return api.LevelUpResult{}, cErr
	}

	result := api.LevelUpResult{NewLevel: g.Level, Experience: g.Experience}
	if level := levelFor(g.Experience); level > g.Level {
		g.Level = level
		g.UpdatedAt = s.now()
		result.LeveledUp = true
		result.NewLevel = level
		s.logger.Info().Int64("user_id", userID).Int("level", level).Msg("Level up")
	}
	return result, nil
}

// Rewards returns the reward history, newest first.
func (s *Store) Rewards(userID int64) ([]api.Reward, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}
	out := slices.Clone(a.rewards)
	slices.Reverse(out)
	return out, nil
}

// gameLocked returns the mutable game data. A missing record is a validation
// error here; only GameData answers 404.
func (s *Store) gameLocked(userID int64) (*api.GameData, *errs.CustomError) {
	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}
	if a.game == nil {
		return nil, errs.NewError(errs.ErrInvalidParams, "game data has not been created")
	}
	return a.game, nil
}

// spendLocked deducts price from the balance.
func (s *Store) spendLocked(a *account, price int) *errs.CustomError {
	if price == 0 {
		return nil
	}
	if a.game == nil || a.game.Coins < price {
		return errs.NewError(errs.ErrInsufficientCoins)
	}
	a.game.Coins -= price
	a.game.UpdatedAt = s.now()
	return nil
}
