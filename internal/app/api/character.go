package api

import (
	"context"
	"net/http"
)

// rosterPageSize is large enough to return every owned character in one page.
const rosterPageSize = 100

// Characters lists the shop definitions with ownership for the account.
func (c *Client) Characters(ctx context.Context) ([]Character, error) {
	return call[[]Character](ctx, c, http.MethodGet, "/game/characters", nil, nil)
}

func (c *Client) PurchaseCharacter(ctx context.Context, characterID int64) error {
	return exec(ctx, c, http.MethodPost, idPath("/game/characters", characterID, "/purchase"), nil)
}

func (c *Client) UserCharacters(ctx context.Context) ([]UserCharacter, error) {
	page, err := call[Page[UserCharacter]](ctx, c, http.MethodGet, "/game/user-characters", pageQuery(0, rosterPageSize), nil)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) UserCharacter(ctx context.Context, id int64) (UserCharacter, error) {
	return call[UserCharacter](ctx, c, http.MethodGet, idPath("/game/user-characters", id, ""), nil, nil)
}

func (c *Client) SetCharacterActive(ctx context.Context, id int64, active bool) (UserCharacter, error) {
	return call[UserCharacter](ctx, c, http.MethodPatch, idPath("/game/user-characters", id, "/activation"), nil, ActivationRequest{IsActive: active})
}

func (c *Client) UpdateCharacterNickname(ctx context.Context, id int64, nickname string) (UserCharacter, error) {
	return call[UserCharacter](ctx, c, http.MethodPatch, idPath("/game/user-characters", id, ""), nil, NicknameRequest{Nickname: nickname})
}

func (c *Client) FeedCharacter(ctx context.Context, id int64, foodType string) error {
	return exec(ctx, c, http.MethodPost, idPath("/game/user-characters", id, "/feeding"), FeedRequest{FoodType: foodType})
}

func (c *Client) PlayWithCharacter(ctx context.Context, id int64, activity string) error {
	return exec(ctx, c, http.MethodPost, idPath("/game/user-characters", id, "/playing"), PlayRequest{ActivityType: activity})
}
