/*
Package backend is the in-memory state of the development server.

Store plays the role of the production backend for local development and for the
client's integration tests: it owns accounts, game data, characters, rooms and
habits, and enforces the same business rules the client relies on (coins are
checked and deducted on purchase, levels follow the experience, per-account game
data and rooms are missing until created).

Every method takes the authenticated account ID first and returns a
*errs.CustomError that the handlers write as the response.
*/
package backend

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

const (
	RoleUser = "USER"

	// ExperiencePerLevel mirrors the client's level derivation.
	ExperiencePerLevel = 100
)

// account is everything the backend keeps per user.
type account struct {
	id           int64
	email        string
	name         string
	nickName     string
	phoneNumber  string
	role         string
	passwordHash []byte

	// version is embedded in issued tokens; bumping it revokes them.
	version int

	createdAt time.Time
	updatedAt time.Time

	game        *api.GameData
	characters  []api.UserCharacter
	room        *api.Room
	items       []api.UserItem
	habits      []api.Habit
	completions []api.HabitCompletion
	rewards     []api.Reward
}

// Account is the public view of an account used to issue tokens.
type Account struct {
	ID      int64
	Email   string
	Name    string
	Role    string
	Version int
}

func (a *account) view() Account {
	return Account{ID: a.id, Email: a.email, Name: a.name, Role: a.role, Version: a.version}
}

// Store holds all accounts and the shared catalogue.
type Store struct {
	mu sync.RWMutex

	accounts map[int64]*account
	byEmail  map[string]int64
	nextID   int64

	characters []api.Character
	items      []api.RoomItem

	// now is replaced in tests.
	now func() time.Time

	logger zerolog.Logger
}

// NewStore creates an empty store serving the given catalogue.
func NewStore(cat Catalog) *Store {
	return &Store{
		accounts:   make(map[int64]*account),
		byEmail:    make(map[string]int64),
		characters: cat.Characters,
		items:      cat.Items,
		now:        time.Now,
		logger:     logx.Component("backend"),
	}
}

// id returns the next identifier. Callers hold s.mu.
func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// account returns the account or ErrUnauthorized. Callers hold s.mu.
func (s *Store) account(userID int64) (*account, *errs.CustomError) {
	a, ok := s.accounts[userID]
	if !ok {
		return nil, errs.NewError(errs.ErrUnauthorized)
	}
	return a, nil
}

// SessionVersion implements jwt.VersionSource.
func (s *Store) SessionVersion(userID int64) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[userID]
	if !ok {
		return 0, false
	}
	return a.version, true
}

// Account returns the public view of an account.
func (s *Store) Account(userID int64) (Account, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return Account{}, cErr
	}
	return a.view(), nil
}

// RevokeSessions invalidates every token issued to the account so far.
func (s *Store) RevokeSessions(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accounts[userID]; ok {
		a.version++
		s.logger.Info().Int64("user_id", userID).Int("version", a.version).Msg("Sessions revoked")
	}
}

// levelFor derives the level from experience.
func levelFor(experience int) int {
	return max(0, experience)/ExperiencePerLevel + 1
}
