package backend

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

func newTestStore(t *testing.T) (*Store, Account) {
	t.Helper()
	s := NewStore(DefaultCatalog())
	acc, cErr := s.SignUp(api.SignUpRequest{Email: "Ana@Example.com", Password: "secret1", Name: "Ana"})
	require.Nil(t, cErr)
	return s, acc
}

func ptr[T any](v T) *T { return &v }

func TestSignUpAndLogin(t *testing.T) {
	s, acc := newTestStore(t)
	assert.Equal(t, "ana@example.com", acc.Email)
	assert.Equal(t, RoleUser, acc.Role)

	_, cErr := s.SignUp(api.SignUpRequest{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrEmailExists, cErr.Code)
	assert.Equal(t, http.StatusConflict, cErr.Status)

	got, cErr := s.Login(api.LoginRequest{Email: "ANA@example.com", Password: "secret1"})
	require.Nil(t, cErr)
	assert.Equal(t, acc.ID, got.ID)

	_, cErr = s.Login(api.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInvalidCredentials, cErr.Code)
}

func TestSignUp_Validation(t *testing.T) {
	s := NewStore(DefaultCatalog())

	tests := []struct {
		name string
		req  api.SignUpRequest
	}{
		{"bad email", api.SignUpRequest{Email: "nope", Password: "secret1", Name: "A"}},
		{"short password", api.SignUpRequest{Email: "a@b.co", Password: "123", Name: "A"}},
		{"no name", api.SignUpRequest{Email: "a@b.co", Password: "secret1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cErr := s.SignUp(tt.req)
			require.NotNil(t, cErr)
			assert.Equal(t, errs.ErrInvalidParams, cErr.Code)
		})
	}
}

func TestGoogleLogin_CreatesOnce(t *testing.T) {
	s := NewStore(DefaultCatalog())

	first, cErr := s.GoogleLogin(api.GoogleLoginRequest{IDToken: "g@example.com"})
	require.Nil(t, cErr)
	second, cErr := s.GoogleLogin(api.GoogleLoginRequest{IDToken: "g@example.com"})
	require.Nil(t, cErr)
	assert.Equal(t, first.ID, second.ID)

	_, cErr = s.Login(api.LoginRequest{Email: "g@example.com", Password: "anything"})
	assert.NotNil(t, cErr)
}

func TestRevokeSessions(t *testing.T) {
	s, acc := newTestStore(t)

	v, ok := s.SessionVersion(acc.ID)
	require.True(t, ok)
	s.RevokeSessions(acc.ID)
	v2, _ := s.SessionVersion(acc.ID)
	assert.Equal(t, v+1, v2)

	_, ok = s.SessionVersion(999)
	assert.False(t, ok)
}

func TestGameData_Lifecycle(t *testing.T) {
	s, acc := newTestStore(t)

	_, cErr := s.GameData(acc.ID)
	require.NotNil(t, cErr)
	assert.Equal(t, http.StatusNotFound, cErr.Status)

	g, cErr := s.CreateGameData(acc.ID)
	require.Nil(t, cErr)
	assert.Equal(t, 0, g.Coins)
	assert.Equal(t, 1, g.Level)
	assert.Equal(t, 0, g.Experience)

	_, cErr = s.CreateGameData(acc.ID)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrGameDataExists, cErr.Code)

	_, cErr = s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Coins: ptr(-1)})
	require.NotNil(t, cErr)
}

func TestCheckLevelUp(t *testing.T) {
	s, acc := newTestStore(t)
	_, _ = s.CreateGameData(acc.ID)

	_, cErr := s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Experience: ptr(90)})
	require.Nil(t, cErr)
	res, cErr := s.CheckLevelUp(acc.ID)
	require.Nil(t, cErr)
	assert.False(t, res.LeveledUp)
	assert.Equal(t, 1, res.NewLevel)

	g, _ := s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Experience: ptr(110)})
	assert.Equal(t, 1, g.Level)

	res, cErr = s.CheckLevelUp(acc.ID)
	require.Nil(t, cErr)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)
	assert.Equal(t, 110, res.Experience)
}

func TestPurchaseCharacter(t *testing.T) {
	s, acc := newTestStore(t)
	_, _ = s.CreateGameData(acc.ID)

	// free starter character
	uc, cErr := s.PurchaseCharacter(acc.ID, 1)
	require.Nil(t, cErr)
	assert.True(t, uc.IsActive)
	require.NotNil(t, uc.Character)

	_, cErr = s.PurchaseCharacter(acc.ID, 1)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrCharacterOwned, cErr.Code)

	_, cErr = s.PurchaseCharacter(acc.ID, 2)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInsufficientCoins, cErr.Code)

	_, _ = s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Coins: ptr(60)})
	uc, cErr = s.PurchaseCharacter(acc.ID, 2)
	require.Nil(t, cErr)
	assert.False(t, uc.IsActive)

	g, _ := s.GameData(acc.ID)
	assert.Equal(t, 10, g.Coins)

	chars, _ := s.Characters(acc.ID)
	assert.True(t, chars[0].IsOwned)
	assert.True(t, chars[1].IsOwned)
	assert.False(t, chars[2].IsOwned)
}

func TestSetCharacterActive_Exclusive(t *testing.T) {
	s, acc := newTestStore(t)
	_, _ = s.CreateGameData(acc.ID)
	_, _ = s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Coins: ptr(500)})
	first, _ := s.PurchaseCharacter(acc.ID, 1)
	second, _ := s.PurchaseCharacter(acc.ID, 2)

	_, cErr := s.SetCharacterActive(acc.ID, second.ID, true)
	require.Nil(t, cErr)

	roster, _ := s.UserCharacters(acc.ID)
	for _, uc := range roster {
		assert.Equal(t, uc.ID == second.ID, uc.IsActive)
	}

	_, cErr = s.SetCharacterActive(acc.ID, first.ID+1000, true)
	require.NotNil(t, cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)
}

func TestFeedAndPlay(t *testing.T) {
	s, acc := newTestStore(t)
	_, _ = s.CreateGameData(acc.ID)
	uc, _ := s.PurchaseCharacter(acc.ID, 1)

	fed, cErr := s.FeedCharacter(acc.ID, uc.ID, api.FoodBasic)
	require.Nil(t, cErr)
	assert.Equal(t, startingHappiness+10, fed.Happiness)

	_, cErr = s.FeedCharacter(acc.ID, uc.ID, api.FoodPremium)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInsufficientCoins, cErr.Code)

	_, cErr = s.FeedCharacter(acc.ID, uc.ID, "cake")
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInvalidFoodType, cErr.Code)

	for range 10 {
		_, cErr = s.PlayWithCharacter(acc.ID, uc.ID, api.ActivityWalk)
		require.Nil(t, cErr)
	}
	played, _ := s.UserCharacter(acc.ID, uc.ID)
	assert.Equal(t, maxHappiness, played.Happiness)
	assert.Equal(t, 100, played.Experience)
	assert.Equal(t, 2, played.Level)
}

func TestRoomFlow(t *testing.T) {
	s, acc := newTestStore(t)
	_, _ = s.CreateGameData(acc.ID)
	_, _ = s.UpdateGameData(acc.ID, api.UpdateGameDataRequest{Coins: ptr(100)})

	_, cErr := s.Room(acc.ID)
	require.NotNil(t, cErr)
	assert.Equal(t, http.StatusNotFound, cErr.Status)

	room, cErr := s.CreateRoom(acc.ID)
	require.Nil(t, cErr)

	_, cErr = s.PlaceItem(acc.ID, room.ID, api.PlaceItemRequest{ItemID: 4})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrRoomItemNotOwned, cErr.Code)

	_, cErr = s.BuyItem(acc.ID, 4)
	require.Nil(t, cErr)
	_, cErr = s.BuyItem(acc.ID, 4)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrRoomItemOwned, cErr.Code)

	placed, cErr := s.PlaceItem(acc.ID, room.ID, api.PlaceItemRequest{ItemID: 4, X: 10, Y: 10})
	require.Nil(t, cErr)
	_, cErr = s.PlaceItem(acc.ID, room.ID, api.PlaceItemRequest{ItemID: 4})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrRoomItemPlaced, cErr.Code)

	moved, cErr := s.MoveItem(acc.ID, room.ID, placed.ID, api.MoveItemRequest{X: 50, Y: 60, Rotation: 90})
	require.Nil(t, cErr)
	assert.Equal(t, 50.0, moved.X)

	_, cErr = s.PlaceItem(acc.ID, room.ID+1, api.PlaceItemRequest{ItemID: 4})
	require.NotNil(t, cErr)
	assert.Equal(t, http.StatusBadRequest, cErr.Status)

	require.Nil(t, s.RemoveItem(acc.ID, room.ID, placed.ID))
	items, _ := s.UserItems(acc.ID)
	require.Len(t, items, 1)
	assert.False(t, items[0].IsPlaced)

	decorations, _ := s.RoomItems(acc.ID, api.CategoryDecoration)
	require.Len(t, decorations, 1)
	assert.True(t, decorations[0].IsOwned)
}

func TestHabitCompletion(t *testing.T) {
	s, acc := newTestStore(t)
	day := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return day }

	_, cErr := s.CreateHabit(acc.ID, api.HabitRequest{Title: "", StartAt: "2026-10-01"})
	require.NotNil(t, cErr)

	h, cErr := s.CreateHabit(acc.ID, api.HabitRequest{Title: "Run", StartAt: "2026-10-01", RepeatDays: []string{"MONDAY"}})
	require.Nil(t, cErr)

	c, cErr := s.CompleteHabit(acc.ID, h.ID, "5k")
	require.Nil(t, cErr)
	_, cErr = s.CompleteHabit(acc.ID, h.ID, "")
	require.NotNil(t, cErr)
	assert.Equal(t, http.StatusConflict, cErr.Status)

	today, _ := s.TodayCompletions(acc.ID)
	assert.Len(t, today, 1)

	rewards, _ := s.Rewards(acc.ID)
	require.Len(t, rewards, 1)
	assert.Equal(t, api.ReasonHabitCompletion, rewards[0].Reason)

	s.now = func() time.Time { return day.Add(24 * time.Hour) }
	today, _ = s.TodayCompletions(acc.ID)
	assert.Empty(t, today)

	s.now = func() time.Time { return day }
	require.Nil(t, s.UncompleteHabit(acc.ID, h.ID, c.ID))
	assert.NotNil(t, s.UncompleteHabit(acc.ID, h.ID, c.ID))

	require.Nil(t, s.DeleteHabit(acc.ID, h.ID))
	_, cErr = s.Habit(acc.ID, h.ID)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrHabitNotFound, cErr.Code)
}

func TestProfile(t *testing.T) {
	s, acc := newTestStore(t)

	p, cErr := s.Profile(acc.ID)
	require.Nil(t, cErr)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.Empty(t, p.NickName)
	assert.False(t, p.CreatedAt.IsZero())

	p, cErr = s.UpdateNickName(acc.ID, "  Annie ")
	require.Nil(t, cErr)
	assert.Equal(t, "Annie", p.NickName)

	_, cErr = s.UpdateNickName(acc.ID, "   ")
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInvalidParams, cErr.Code)

	_, cErr = s.Profile(999)
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrUnauthorized, cErr.Code)
}

func TestUpdatePassword(t *testing.T) {
	s, acc := newTestStore(t)

	cErr := s.UpdatePassword(acc.ID, api.PasswordUpdateRequest{CurrentPassword: "wrong1", NewPassword: "secret2"})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrIncorrectPassword, cErr.Code)

	cErr = s.UpdatePassword(acc.ID, api.PasswordUpdateRequest{CurrentPassword: "secret1", NewPassword: "short"})
	require.NotNil(t, cErr)
	assert.Equal(t, errs.ErrInvalidParams, cErr.Code)

	cErr = s.UpdatePassword(acc.ID, api.PasswordUpdateRequest{CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret3"})
	require.NotNil(t, cErr)

	require.Nil(t, s.UpdatePassword(acc.ID, api.PasswordUpdateRequest{CurrentPassword: "secret1", NewPassword: "secret2", ConfirmPassword: "secret2"}))

	_, cErr = s.Login(api.LoginRequest{Email: acc.Email, Password: "secret1"})
	assert.NotNil(t, cErr)
	_, cErr = s.Login(api.LoginRequest{Email: acc.Email, Password: "secret2"})
	assert.Nil(t, cErr)

	version, _ := s.SessionVersion(acc.ID)
	assert.Equal(t, acc.Version, version)
}
