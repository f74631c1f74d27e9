package backend

import (
	"habitpet/internal/app/api"
	"habitpet/internal/pkg/errs"
)

func (s *Store) itemDef(id int64) (api.RoomItem, bool) {
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return api.RoomItem{}, false
}

func ownsItem(a *account, itemID int64) bool {
	for _, it := range a.items {
		if it.ItemID == itemID {
			return true
		}
	}
	return false
}

// Room returns the account's room. It is ErrRoomNotFound (404) until CreateRoom runs.
func (s *Store) Room(userID int64) (api.Room, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Room{}, cErr
	}
	if a.room == nil {
		return api.Room{}, errs.NewError(errs.ErrRoomNotFound)
	}
	return copyRoom(a.room), nil
}

func copyRoom(r *api.Room) api.Room {
	out := *r
	out.Items = append([]api.PlacedItem{}, r.Items...)
	return out
}

// CreateRoom creates the account's empty room.
func (s *Store) CreateRoom(userID int64) (api.Room, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.Room{}, cErr
	}
	if a.room != nil {
		return api.Room{}, errs.NewError(errs.ErrRoomExists)
	}

	a.room = &api.Room{ID: s.id(), UserID: userID, Items: []api.PlacedItem{}}
	return copyRoom(a.room), nil
}

// roomLocked returns the account's room if roomID names it. A foreign or
// missing room is a validation error, not a 404.
func (s *Store) roomLocked(userID, roomID int64) (*account, *errs.CustomError) {
	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}
	if a.room == nil || a.room.ID != roomID {
		return nil, errs.NewError(errs.ErrInvalidParams, "roomId")
	}
	return a, nil
}

// PlaceItem puts an owned, unplaced item into the room.
func (s *Store) PlaceItem(userID, roomID int64, req api.PlaceItemRequest) (api.PlacedItem, *errs.CustomError) {
	if req.X < 0 || req.Y < 0 {
		return api.PlacedItem{}, errs.NewError(errs.ErrInvalidParams, "position must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.roomLocked(userID, roomID)
	if cErr != nil {
		return api.PlacedItem{}, cErr
	}

	owned := -1
	for i, it := range a.items {
		if it.ItemID == req.ItemID {
			owned = i
			break
		}
	}
	if owned < 0 {
		return api.PlacedItem{}, errs.NewError(errs.ErrRoomItemNotOwned)
	}
	if a.items[owned].IsPlaced {
		return api.PlacedItem{}, errs.NewError(errs.ErrRoomItemPlaced)
	}

	placed := api.PlacedItem{ID: s.id(), ItemID: req.ItemID, X: req.X, Y: req.Y, Rotation: req.Rotation}
	a.room.Items = append(a.room.Items, placed)
	a.items[owned].IsPlaced = true
	return placed, nil
}

// MoveItem repositions a placed item.
func (s *Store) MoveItem(userID, roomID, placedItemID int64, req api.MoveItemRequest) (api.PlacedItem, *errs.CustomError) {
	if req.X < 0 || req.Y < 0 {
		return api.PlacedItem{}, errs.NewError(errs.ErrInvalidParams, "position must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.roomLocked(userID, roomID)
	if cErr != nil {
		return api.PlacedItem{}, cErr
	}

	for i := range a.room.Items {
		p := &a.room.Items[i]
		if p.ID == placedItemID {
			p.X, p.Y, p.Rotation = req.X, req.Y, req.Rotation
			return *p, nil
		}
	}
	return api.PlacedItem{}, errs.NewError(errs.ErrRoomItemNotFound)
}

// RemoveItem takes a placed item out of the room. The owned item stays.
func (s *Store) RemoveItem(userID, roomID, placedItemID int64) *errs.CustomError {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.roomLocked(userID, roomID)
	if cErr != nil {
		return cErr
	}

	for i, p := range a.room.Items {
		if p.ID != placedItemID {
			continue
		}
		a.room.Items = append(a.room.Items[:i], a.room.Items[i+1:]...)
		for j := range a.items {
			if a.items[j].ItemID == p.ItemID {
				a.items[j].IsPlaced = false
			}
		}
		return nil
	}
	return errs.NewError(errs.ErrRoomItemNotFound)
}

// RoomItems returns the item catalogue, optionally filtered by category, with
// IsOwned set for the account.
func (s *Store) RoomItems(userID int64, category api.ItemCategory) ([]api.RoomItem, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}

	out := []api.RoomItem{}
	for _, it := range s.items {
		if category != "" && it.Category != category {
			continue
		}
		it.IsOwned = ownsItem(a, it.ID)
		out = append(out, it)
	}
	return out, nil
}

// RoomItem returns one item definition.
func (s *Store) RoomItem(userID, itemID int64) (api.RoomItem, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.RoomItem{}, cErr
	}
	it, ok := s.itemDef(itemID)
	if !ok {
		return api.RoomItem{}, errs.NewError(errs.ErrRoomItemNotFound)
	}
	it.IsOwned = ownsItem(a, itemID)
	return it, nil
}

// UserItems returns the account's owned items.
func (s *Store) UserItems(userID int64) ([]api.UserItem, *errs.CustomError) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return nil, cErr
	}
	return append([]api.UserItem{}, a.items...), nil
}

// BuyItem deducts the price and adds the item to the inventory.
func (s *Store) BuyItem(userID, itemID int64) (api.UserItem, *errs.CustomError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, cErr := s.account(userID)
	if cErr != nil {
		return api.UserItem{}, cErr
	}

	def, ok := s.itemDef(itemID)
	if !ok {
		return api.UserItem{}, errs.NewError(errs.ErrRoomItemNotFound)
	}
	if ownsItem(a, itemID) {
		return api.UserItem{}, errs.NewError(errs.ErrRoomItemOwned)
	}
	if cErr := s.spendLocked(a, def.Price); cErr != nil {
		return api.UserItem{}, cErr
	}

	ui := api.UserItem{
		ID:       s.id(),
		ItemID:   itemID,
		ItemName: def.Name,
		Category: def.Category,
		ImageURL: def.ImageURL,
	}
	a.items = append(a.items, ui)

	s.logger.Info().Int64("user_id", userID).Int64("item_id", itemID).Int("price", def.Price).Msg("Item purchased")
	return ui, nil
}
