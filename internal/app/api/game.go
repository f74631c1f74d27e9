package api

import (
	"context"
	"net/http"

	"habitpet/internal/app/transport"
)

// GameData fetches the account's economy state. A missing record reaches the
// caller as a not-found error.
func (c *Client) GameData(ctx context.Context) (GameData, error) {
	return call[GameData](ctx, c, http.MethodGet, "/game/user-data", nil, nil, transport.AllowNotFound())
}

func (c *Client) CreateGameData(ctx context.Context) (GameData, error) {
	return call[GameData](ctx, c, http.MethodPost, "/game/user-data", nil, nil)
}

func (c *Client) UpdateGameData(ctx context.Context, req UpdateGameDataRequest) (GameData, error) {
	return call[GameData](ctx, c, http.MethodPatch, "/game/user-data", nil, req)
}

// CheckLevelUp asks the backend to recompute the level from the experience.
func (c *Client) CheckLevelUp(ctx context.Context) (LevelUpResult, error) {
	return call[LevelUpResult](ctx, c, http.MethodPost, "/game/user-data/level-up", nil, nil)
}

func (c *Client) Rewards(ctx context.Context, page, size int) (Page[Reward], error) {
	return call[Page[Reward]](ctx, c, http.MethodGet, "/game/rewards", pageQuery(page, size), nil)
}
