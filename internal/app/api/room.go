package api

import (
	"context"
	"net/http"

	"habitpet/internal/app/transport"
)

const catalogPageSize = 100

// Room fetches the account's room. A missing room reaches the caller as a
// not-found error.
func (c *Client) Room(ctx context.Context) (Room, error) {
	return call[Room](ctx, c, http.MethodGet, "/game/user-rooms", nil, nil, transport.AllowNotFound())
}

func (c *Client) CreateRoom(ctx context.Context) (Room, error) {
	return call[Room](ctx, c, http.MethodPost, "/game/user-rooms", nil, nil)
}

func (c *Client) PlaceItem(ctx context.Context, roomID int64, req PlaceItemRequest) (PlacedItem, error) {
	return call[PlacedItem](ctx, c, http.MethodPost, idPath("/game/user-rooms", roomID, "/items"), nil, req)
}

func (c *Client) MoveItem(ctx context.Context, roomID, placedItemID int64, req MoveItemRequest) (PlacedItem, error) {
	path := idPath(idPath("/game/user-rooms", roomID, "/items"), placedItemID, "")
	return call[PlacedItem](ctx, c, http.MethodPut, path, nil, req)
}

func (c *Client) RemoveItem(ctx context.Context, roomID, placedItemID int64) error {
	path := idPath(idPath("/game/user-rooms", roomID, "/items"), placedItemID, "")
	return exec(ctx, c, http.MethodDelete, path, nil)
}

// RoomItems lists shop definitions, optionally filtered by category.
func (c *Client) RoomItems(ctx context.Context, category ItemCategory) ([]RoomItem, error) {
	q := pageQuery(0, catalogPageSize)
	if category != "" {
		q.Set("category", string(category))
	}
	page, err := call[Page[RoomItem]](ctx, c, http.MethodGet, "/game/room-items", q, nil)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) RoomItem(ctx context.Context, id int64) (RoomItem, error) {
	return call[RoomItem](ctx, c, http.MethodGet, idPath("/game/room-items", id, ""), nil, nil)
}

func (c *Client) UserItems(ctx context.Context) ([]UserItem, error) {
	page, err := call[Page[UserItem]](ctx, c, http.MethodGet, "/game/user-items", pageQuery(0, catalogPageSize), nil)
	if err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (c *Client) BuyItem(ctx context.Context, itemID int64) error {
	return exec(ctx, c, http.MethodPost, "/game/user-items", BuyItemRequest{ItemID: itemID})
}
