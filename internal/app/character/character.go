/*
Package character caches the account's characters and the character shop.

The roster is re-fetched after every mutation, and each fetched roster is
normalized so that at most one character is active. Active always points at
that character.
*/
package character

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const (
	// PremiumFoodPrice is charged by the backend for premium food.
	PremiumFoodPrice = 10

	maxNicknameLength = 20
)

var (
	errEconomyNotLoaded = errs.Rejected("Game data is still loading.")
	errAlreadyOwned     = errs.Rejected("You already own this character.")
	errNotEnoughCoins   = errs.Rejected("Not enough coins.")
	errUnknownCharacter = errs.Rejected("Character not found.")
	errInvalidFood      = errs.Rejected("Unknown food type.")
	errInvalidActivity  = errs.Rejected("Unknown activity.")
	errInvalidNickname  = errs.Rejected("Nickname must be 1 to 20 characters.")
)

// Backend is the subset of the API client used by the character domain.
type Backend interface {
	Characters(ctx context.Context) ([]api.Character, error)
	PurchaseCharacter(ctx context.Context, characterID int64) error
	UserCharacters(ctx context.Context) ([]api.UserCharacter, error)
	SetCharacterActive(ctx context.Context, id int64, active bool) (api.UserCharacter, error)
	UpdateCharacterNickname(ctx context.Context, id int64, nickname string) (api.UserCharacter, error)
	FeedCharacter(ctx context.Context, id int64, foodType string) error
	PlayWithCharacter(ctx context.Context, id int64, activity string) error
}

// Wallet is the economy view used for local coin checks.
type Wallet interface {
	State() (api.GameData, bool)
	Refresh(ctx context.Context) bool
}

// Roster is the owned characters plus the active one.
type Roster struct {
	Characters []api.UserCharacter
	Active     *api.UserCharacter
}

// Find returns the owned character with the given ID.
func (r Roster) Find(id int64) (api.UserCharacter, bool) {
	for _, c := range r.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return api.UserCharacter{}, false
}

type Service struct {
	roster *lifecycle.Cache[Roster]
	shop   *lifecycle.Cache[[]api.Character]

	backend Backend
	wallet  Wallet
	outcome lifecycle.Outcome
	logger  zerolog.Logger

	// preferred is the character this client activated last. It wins when a
	// fetched roster reports more than one active character.
	mu        sync.Mutex
	preferred int64
}

func New(source lifecycle.Source, backend Backend, wallet Wallet) *Service {
	s := &Service{
		backend: backend,
		wallet:  wallet,
		logger:  logx.Component("character"),
	}

	s.roster = lifecycle.New(source, lifecycle.Options[Roster]{
		Name: "character_roster",
		Fetch: func(ctx context.Context) (Roster, error) {
			list, err := backend.UserCharacters(ctx)
			return Roster{Characters: list}, err
		},
		Normalize: s.normalize,
	})
	s.shop = lifecycle.New(source, lifecycle.Options[[]api.Character]{
		Name:  "character_shop",
		Fetch: backend.Characters,
	})
	return s
}

// OnIdentityChange implements lifecycle.Listener.
func (s *Service) OnIdentityChange(snap lifecycle.Snapshot) {
	s.mu.Lock()
	s.preferred = 0
	s.mu.Unlock()

	s.roster.OnIdentityChange(snap)
	s.shop.OnIdentityChange(snap)
}

// normalize keeps at most one active character and points Active at it.
func (s *Service) normalize(r Roster) Roster {
	s.mu.Lock()
	preferred := s.preferred
	s.mu.Unlock()

	chars := slices.Clone(r.Characters)

	activeIdx := -1
	for i, c := range chars {
		if !c.IsActive {
			continue
		}
		if activeIdx == -1 || c.ID == preferred {
			activeIdx = i
		}
	}

	if activeIdx >= 0 && slices.ContainsFunc(chars, func(c api.UserCharacter) bool {
		return c.IsActive && c.ID != chars[activeIdx].ID
	}) {
		s.logger.Warn().Int64("kept", chars[activeIdx].ID).Msg("Roster reported several active characters")
	}

	out := Roster{Characters: chars}
	for i := range chars {
		chars[i].IsActive = i == activeIdx
	}
	if activeIdx >= 0 {
		active := chars[activeIdx]
		out.Active = &active
	}
	return out
}

// Roster returns the cached roster.
func (s *Service) Roster() (Roster, bool) {
	return s.roster.Get()
}

// Active returns the active character.
func (s *Service) Active() (api.UserCharacter, bool) {
	r, ok := s.roster.Get()
	if !ok || r.Active == nil {
		return api.UserCharacter{}, false
	}
	return *r.Active, true
}

// Shop returns the cached shop catalogue.
func (s *Service) Shop() ([]api.Character, bool) {
	return s.shop.Get()
}

// Refresh re-fetches the roster.
func (s *Service) Refresh(ctx context.Context) bool {
	return s.roster.Refresh(ctx)
}

// RefreshShop re-fetches the shop catalogue.
func (s *Service) RefreshShop(ctx context.Context) bool {
	return s.shop.Refresh(ctx)
}

func (s *Service) Loading() bool {
	return s.roster.Loading() || s.shop.Loading()
}

func (s *Service) Wait() {
	s.roster.Wait()
	s.shop.Wait()
}

// LoadError joins the errors of the last failed loads for this session, or is nil.
func (s *Service) LoadError() error {
	return errors.Join(s.roster.LastError(), s.shop.LastError())
}

// LastError returns the message of the last failed operation, or "".
func (s *Service) LastError() string {
	return s.outcome.Message("Something went wrong. Please try again.")
}

func (s *Service) definition(characterID int64) (api.Character, bool) {
	shop, ok := s.shop.Get()
	if !ok {
		return api.Character{}, false
	}
	for _, c := range shop {
		if c.ID == characterID {
			return c, true
		}
	}
	return api.Character{}, false
}

// Purchase buys a character definition. Owned definitions and unaffordable
// prices are refused without a network call.
func (s *Service) Purchase(ctx context.Context, characterID int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "purchase_character", func(ctx context.Context) error {
		wallet, ok := s.wallet.State()
		if !ok {
			return errEconomyNotLoaded
		}

		if def, known := s.definition(characterID); known {
			if def.IsOwned {
				return errAlreadyOwned
			}
			if wallet.Coins < def.Price {
				return errNotEnoughCoins
			}
		}

		if err := s.backend.PurchaseCharacter(ctx, characterID); err != nil {
			return err
		}

		s.shop.Patch(func(list []api.Character) []api.Character {
			out := slices.Clone(list)
			for i := range out {
				if out[i].ID == characterID {
					out[i].IsOwned = true
				}
			}
			return out
		})
		s.roster.Refresh(ctx)
		s.wallet.Refresh(ctx)
		return nil
	})
}

func (s *Service) owned(id int64) error {
	r, ok := s.roster.Get()
	if !ok {
		return errUnknownCharacter
	}
	if _, found := r.Find(id); !found {
		return errUnknownCharacter
	}
	return nil
}

// SetActive makes the character the only active one.
func (s *Service) SetActive(ctx context.Context, id int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "set_active", func(ctx context.Context) error {
		if err := s.owned(id); err != nil {
			return err
		}
		if _, err := s.backend.SetCharacterActive(ctx, id, true); err != nil {
			return err
		}

		s.mu.Lock()
		s.preferred = id
		s.mu.Unlock()

		s.roster.Refresh(ctx)
		return nil
	})
}

// Feed feeds the character. Premium food needs PremiumFoodPrice coins.
func (s *Service) Feed(ctx context.Context, id int64, foodType string) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "feed", func(ctx context.Context) error {
		switch foodType {
		case api.FoodBasic:
		case api.FoodPremium:
			wallet, ok := s.wallet.State()
			if !ok {
				return errEconomyNotLoaded
			}
			if wallet.Coins < PremiumFoodPrice {
				return errNotEnoughCoins
			}
		default:
			return errInvalidFood
		}
		if err := s.owned(id); err != nil {
			return err
		}

		if err := s.backend.FeedCharacter(ctx, id, foodType); err != nil {
			return err
		}

		s.roster.Refresh(ctx)
		if foodType == api.FoodPremium {
			s.wallet.Refresh(ctx)
		}
		return nil
	})
}

// Play plays with the character using one of the pet, play or walk activities.
func (s *Service) Play(ctx context.Context, id int64, activity string) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "play", func(ctx context.Context) error {
		switch activity {
		case api.ActivityPet, api.ActivityPlay, api.ActivityWalk:
		default:
			return errInvalidActivity
		}
		if err := s.owned(id); err != nil {
			return err
		}

		if err := s.backend.PlayWithCharacter(ctx, id, activity); err != nil {
			return err
		}

		s.roster.Refresh(ctx)
		return nil
	})
}

// UpdateNickname renames the character.
func (s *Service) UpdateNickname(ctx context.Context, id int64, nickname string) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "update_nickname", func(ctx context.Context) error {
		nickname = strings.TrimSpace(nickname)
		if n := utf8.RuneCountInString(nickname); n == 0 || n > maxNicknameLength {
			return errInvalidNickname
		}
		if err := s.owned(id); err != nil {
			return err
		}

		if _, err := s.backend.UpdateCharacterNickname(ctx, id, nickname); err != nil {
			return err
		}

		s.roster.Refresh(ctx)
		return nil
	})
}
