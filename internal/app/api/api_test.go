package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitpet/internal/app/transport"
)

// fakeDoer records requests and answers with a canned payload.
type fakeDoer struct {
	requests []*transport.Request
	reply    any
	err      error
}

func (f *fakeDoer) Do(_ context.Context, req *transport.Request, out any) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	if out != nil && f.reply != nil {
		raw, _ := json.Marshal(f.reply)
		return json.Unmarshal(raw, out)
	}
	return nil
}

func (f *fakeDoer) last(t *testing.T) *transport.Request {
	t.Helper()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestSessionEndpointsSkipAuthFailure(t *testing.T) {
	ctx := context.Background()
	d := &fakeDoer{reply: AuthResponse{ID: 1, AccessToken: "a"}}
	c := NewClient(d)

	res, err := c.Login(ctx, LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "a", res.AccessToken)
	assert.Equal(t, "/login", d.last(t).Path)
	assert.True(t, d.last(t).SkipsAuthFailure())

	_, _ = c.SignUp(ctx, SignUpRequest{})
	assert.Equal(t, "/signup", d.last(t).Path)
	assert.True(t, d.last(t).SkipsAuthFailure())

	_, _ = c.LoginWithGoogle(ctx, GoogleLoginRequest{IDToken: "x"})
	assert.Equal(t, "/oauth2/google", d.last(t).Path)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, http.MethodPost, d.last(t).Method)
	assert.True(t, d.last(t).SkipsAuthFailure())
}

func TestInitialFetchesAllowNotFound(t *testing.T) {
	ctx := context.Background()
	d := &fakeDoer{}
	c := NewClient(d)

	_, _ = c.GameData(ctx)
	assert.True(t, d.last(t).AllowsNotFound())

	_, _ = c.Room(ctx)
	assert.True(t, d.last(t).AllowsNotFound())

	_, _ = c.CreateRoom(ctx)
	assert.False(t, d.last(t).AllowsNotFound())

	_, _ = c.UserCharacters(ctx)
	assert.False(t, d.last(t).AllowsNotFound())
}

func TestPaths(t *testing.T) {
	ctx := context.Background()
	d := &fakeDoer{}
	c := NewClient(d)

	tests := []struct {
		call   func()
		method string
		path   string
	}{
		{func() { _ = c.PurchaseCharacter(ctx, 3) }, http.MethodPost, "/game/characters/3/purchase"},
		{func() { _, _ = c.SetCharacterActive(ctx, 4, true) }, http.MethodPatch, "/game/user-characters/4/activation"},
		{func() { _, _ = c.UpdateCharacterNickname(ctx, 4, "Momo") }, http.MethodPatch, "/game/user-characters/4"},
		{func() { _ = c.FeedCharacter(ctx, 4, FoodBasic) }, http.MethodPost, "/game/user-characters/4/feeding"},
		{func() { _ = c.PlayWithCharacter(ctx, 4, ActivityWalk) }, http.MethodPost, "/game/user-characters/4/playing"},
		{func() { _, _ = c.PlaceItem(ctx, 9, PlaceItemRequest{ItemID: 1}) }, http.MethodPost, "/game/user-rooms/9/items"},
		{func() { _, _ = c.MoveItem(ctx, 9, 12, MoveItemRequest{}) }, http.MethodPut, "/game/user-rooms/9/items/12"},
		{func() { _ = c.RemoveItem(ctx, 9, 12) }, http.MethodDelete, "/game/user-rooms/9/items/12"},
		{func() { _, _ = c.RoomItem(ctx, 5) }, http.MethodGet, "/game/room-items/5"},
		{func() { _ = c.BuyItem(ctx, 5) }, http.MethodPost, "/game/user-items"},
		{func() { _, _ = c.CheckLevelUp(ctx) }, http.MethodPost, "/game/user-data/level-up"},
		{func() { _, _ = c.CompleteHabit(ctx, 2, "") }, http.MethodPost, "/api/habits/2/complete"},
		{func() { _ = c.UncompleteHabit(ctx, 2, 8) }, http.MethodDelete, "/api/habits/2/complete/8"},
		{func() { _, _ = c.TodayCompletions(ctx) }, http.MethodGet, "/api/habits/completions/today"},
		{func() { _, _ = c.Profile(ctx) }, http.MethodGet, "/users/profile"},
		{func() { _, _ = c.UpdateProfileNickname(ctx, ProfileNicknameRequest{NickName: "Ann"}) }, http.MethodPut, "/users/profile/updateNickname"},
		{func() { _ = c.UpdatePassword(ctx, PasswordUpdateRequest{}) }, http.MethodPatch, "/users/profile/updatePassword"},
	}

	for _, tt := range tests {
		tt.call()
		req := d.last(t)
		assert.Equal(t, tt.method, req.Method, tt.path)
		assert.Equal(t, tt.path, req.Path)
	}
}

func TestRoomItemsCategoryQuery(t *testing.T) {
	d := &fakeDoer{reply: Page[RoomItem]{Content: []RoomItem{{ID: 1}}}}
	c := NewClient(d)

	items, err := c.RoomItems(context.Background(), CategoryFurniture)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "FURNITURE", d.last(t).Query.Get("category"))

	_, _ = c.RoomItems(context.Background(), "")
	assert.Empty(t, d.last(t).Query.Get("category"))
}

func TestNewPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := NewPage(items, 0, 2)
	assert.Equal(t, []int{1, 2}, p.Content)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.First)
	assert.False(t, p.Last)

	p = NewPage(items, 2, 2)
	assert.Equal(t, []int{5}, p.Content)
	assert.True(t, p.Last)

	p = NewPage(items, 7, 2)
	assert.Empty(t, p.Content)
	assert.Equal(t, 5, p.TotalElements)

	p = NewPage([]int{}, 0, 20)
	assert.Empty(t, p.Content)
	assert.True(t, p.Last)
}
