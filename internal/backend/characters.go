package backend

import (
	"strings"
	"unicode/utf8"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

const (
	maxHappiness      = 100
	startingHappiness = 50
	premiumFoodPrice  = 10
	maxNicknameLength = 20
)

// effect is what one feeding or play session does to a character.
type effect struct {
	happiness  int
	experience int
	price      int
}

var foodEffects = map[string]effect{
	api.FoodBasic:   {happiness: 10},
	api.FoodPremium: {happiness: 25, experience: 10, price: premiumFoodPrice},
}

var activityEffects = map[string]effect{
	api.ActivityPet:  {happiness: 5},
	api.ActivityPlay: {happiness: 15, experience: 5},
	api.ActivityWalk: {happiness: 10, experience: 10},
}

func (s *Store) characterDef(id int64) (api.Character, bool) {
	for _, c := range s.characters {
		if c.ID == id {
			return c, true
		}
	}
	return api.Character{}, false
}

func ownsCharacter(a *account, characterID int64) bool {
	for _, uc := range a.characters {
		if uc.CharacterID == characterID {
			return true
		}
	}
	return false
}

// Characters returns the catalogue with IsOwned set for the account.
func (s *Store) Characters(userID int64) ([]api.Character, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}

	out := make([]api.Character, len(s.characters))
	for i, c := range s.characters {
		c.IsOwned = ownsCharacter(a, c.ID)
		out[i] = c
	}
	return out, nil
}

// PurchaseCharacter deducts the price and adds the character to the roster. The
// first character owned becomes active.
func (s *Store) PurchaseCharacter(userID, characterID int64) (api.UserCharacter, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}

	def, ok := s.characterDef(characterID)
	if !ok {
		return api.UserCharacter{}, errs.NewError(errs.ErrCharacterNotFound)
	}
	if ownsCharacter(a, characterID) {
		return api.UserCharacter{}, errs.NewError(errs.ErrCharacterOwned)
	}
	if cErr := s.spendLocked(a, def.Price); cErr != nil {
		return api.UserCharacter{}, cErr
	}

	uc := api.UserCharacter{
		ID:          s.id(),
		UserID:      userID,
		CharacterID: characterID,
		Level:       1,
		Happiness:   startingHappiness,
		IsActive:    len(a.characters) == 0,
	}
	a.characters = append(a.characters, uc)

	s.logger.Info().Int64("user_id", userID).Int64("character_id", characterID).Int("price", def.Price).Msg("Character purchased")
	return s.withDef(uc), nil
}

// withDef attaches the character definition.
func (s *Store) withDef(uc api.UserCharacter) api.UserCharacter {
	if def, ok := s.characterDef(uc.CharacterID); ok {
		def.IsOwned = true
		uc.Character = &def
	}
	return uc
}

// UserCharacters returns the account's roster.
func (s *Store) UserCharacters(userID int64) ([]api.UserCharacter, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}

	out := make([]api.UserCharacter, len(a.characters))
	for i, uc := range a.characters {
		out[i] = s.withDef(uc)
	}
	return out, nil
}

func (a *account) character(id int64) (*api.UserCharacter, *errs.CustomError) {
	for i := range a.characters {
		if a.characters[i].ID == id {
			return &a.characters[i], nil
		}
	}
	return nil, errs.NewError(errs.ErrCharacterNotFound)
}

// UserCharacter returns one owned character.
func (s *Store) UserCharacter(userID, id int64) (api.UserCharacter, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	uc, cErr := a.character(id)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	return s.withDef(*uc), nil
}

// SetCharacterActive activates or deactivates a character. Activating one
// deactivates all others.
func (s *Store) SetCharacterActive(userID, id int64, active bool) (api.UserCharacter, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	uc, cErr := a.character(id)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}

	if active {
		for i := range a.characters {
			a.characters[i].IsActive = false
		}
	}
	uc.IsActive = active
	return s.withDef(*uc), nil
}

// UpdateCharacterNickname renames an owned character.
func (s *Store) UpdateCharacterNickname(userID, id int64, nickname string) (api.UserCharacter, *errs.CustomError) {
	nickname = strings.TrimSpace(nickname)
	if n := utf8.RuneCountInString(nickname); n == 0 || n > maxNicknameLength {
		return api.UserCharacter{}, errs.NewError(errs.ErrInvalidParams, "nickname must be 1 to 20 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	uc, cErr := a.character(id)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}

	uc.Nickname = nickname
	return s.withDef(*uc), nil
}

// FeedCharacter applies a food effect. Premium food costs coins.
func (s *Store) FeedCharacter(userID, id int64, foodType string) (api.UserCharacter, *errs.CustomError) {
	e, ok := foodEffects[foodType]
	if !ok {
		return api.UserCharacter{}, errs.NewError(errs.ErrInvalidFoodType)
	}
	return s.interact(userID, id, e)
}

// PlayWithCharacter applies an activity effect.
func (s *Store) PlayWithCharacter(userID, id int64, activity string) (api.UserCharacter, *errs.CustomError) {
	e, ok := activityEffects[activity]
	if !ok {
		return api.UserCharacter{}, errs.NewError(errs.ErrInvalidActivity)
	}
	return s.interact(userID, id, e)
}

func (s *Store) interact(userID, id int64, e effect) (api.UserCharacter, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	uc, cErr := a.character(id)
	if cErr != nil {
		return api.UserCharacter{}, cErr
	}
	if cErr := s.spendLocked(a, e.price); cErr != nil {
		return api.UserCharacter{}, cErr
	}

	uc.Happiness = min(maxHappiness, uc.Happiness+e.happiness)
	uc.Experience += e.experience
	uc.Level = levelFor(uc.Experience)
	return s.withDef(*uc), nil
}
