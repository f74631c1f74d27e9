/*
Package room caches the account's room layout, its item inventory and the item shop.

Layout and inventory are fetched together and re-fetched together after every
place, move or remove, so the placed inventory entries and the layout never
drift apart for longer than one call.
*/
package room

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"habitpet/internal/app/api"
	"habitpet/internal/app/lifecycle"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
)

var (
	errEconomyNotLoaded = errs.Rejected("Game data is still loading.")
	errRoomNotLoaded    = errs.Rejected("Your room is still loading.")
	errAlreadyOwned     = errs.Rejected("You already own this item.")
	errNotEnoughCoins   = errs.Rejected("Not enough coins.")
	errNotPlaced        = errs.Rejected("This item is not in your room.")
	errNotInInventory   = errs.Rejected("You do not own this item.")
)

// Backend is the subset of the API client used by the room domain.
type Backend interface {
	Room(ctx context.Context) (api.Room, error)
	CreateRoom(ctx context.Context) (api.Room, error)
	PlaceItem(ctx context.Context, roomID int64, req api.PlaceItemRequest) (api.PlacedItem, error)
	MoveItem(ctx context.Context, roomID, placedItemID int64, req api.MoveItemRequest) (api.PlacedItem, error)
	RemoveItem(ctx context.Context, roomID, placedItemID int64) error
	RoomItems(ctx context.Context, category api.ItemCategory) ([]api.RoomItem, error)
	RoomItem(ctx context.Context, id int64) (api.RoomItem, error)
	UserItems(ctx context.Context) ([]api.UserItem, error)
	BuyItem(ctx context.Context, itemID int64) error
}

// Wallet is the economy view used for local coin checks.
type Wallet interface {
	State() (api.GameData, bool)
	Refresh(ctx context.Context) bool
}

// State is the room layout together with the owned items.
type State struct {
	Layout    api.Room
	Inventory []api.UserItem
}

type Service struct {
	state *lifecycle.Cache[State]
	shop  *lifecycle.Cache[[]api.RoomItem]

	backend Backend
	wallet  Wallet
	outcome lifecycle.Outcome
	logger  zerolog.Logger

	mu      sync.Mutex
	details map[int64]api.RoomItem
}

func New(source lifecycle.Source, backend Backend, wallet Wallet) *Service {
	s := &Service{
		backend: backend,
		wallet:  wallet,
		logger:  logx.Component("room"),
		details: make(map[int64]api.RoomItem),
	}

	s.state = lifecycle.New(source, lifecycle.Options[State]{
		Name: "room",
		Fetch: func(ctx context.Context) (State, error) {
			layout, err := backend.Room(ctx)
			if err != nil {
				return State{}, err
			}
			items, err := backend.UserItems(ctx)
			if err != nil {
				return State{}, err
			}
			return State{Layout: layout, Inventory: items}, nil
		},
		Create: func(ctx context.Context) error {
			_, err := backend.CreateRoom(ctx)
			return err
		},
	})
	s.shop = lifecycle.New(source, lifecycle.Options[[]api.RoomItem]{
		Name: "room_shop",
		Fetch: func(ctx context.Context) ([]api.RoomItem, error) {
			return backend.RoomItems(ctx, "")
		},
	})
	return s
}

// OnIdentityChange implements lifecycle.Listener.
func (s *Service) OnIdentityChange(snap lifecycle.Snapshot) {
	s.mu.Lock()
	clear(s.details)
	s.mu.Unlock()

	s.state.OnIdentityChange(snap)
	s.shop.OnIdentityChange(snap)
}

// State returns the cached layout and inventory.
func (s *Service) State() (State, bool) {
	return s.state.Get()
}

// Layout returns the cached room layout.
func (s *Service) Layout() (api.Room, bool) {
	st, ok := s.state.Get()
	return st.Layout, ok
}

// PlaceableItems returns the owned items that are not placed yet.
func (s *Service) PlaceableItems() []api.UserItem {
	st, ok := s.state.Get()
	if !ok {
		return nil
	}
	var out []api.UserItem
	for _, it := range st.Inventory {
		if !it.IsPlaced {
			out = append(out, it)
		}
	}
	return out
}

// Shop returns the cached catalogue, filtered by category unless it is empty.
func (s *Service) Shop(category api.ItemCategory) ([]api.RoomItem, bool) {
	all, ok := s.shop.Get()
	if !ok || category == "" {
		return all, ok
	}
	var out []api.RoomItem
	for _, it := range all {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, true
}

// Refresh re-fetches layout and inventory.
func (s *Service) Refresh(ctx context.Context) bool {
	return s.state.Refresh(ctx)
}

// RefreshShop re-fetches the item catalogue.
func (s *Service) RefreshShop(ctx context.Context) bool {
	return s.shop.Refresh(ctx)
}

func (s *Service) Loading() bool {
	return s.state.Loading() || s.shop.Loading()
}

func (s *Service) Wait() {
	s.state.Wait()
	s.shop.Wait()
}

// LoadError joins the errors of the last failed loads for this session, or is nil.
func (s *Service) LoadError() error {
	return errors.Join(s.state.LastError(), s.shop.LastError())
}

// LastError returns the message of the last failed operation, or "".
func (s *Service) LastError() string {
	return s.outcome.Message("Something went wrong. Please try again.")
}

// ItemDetail returns an item definition, from the shop cache when possible.
func (s *Service) ItemDetail(ctx context.Context, itemID int64) (api.RoomItem, bool) {
	if shop, ok := s.shop.Get(); ok {
		for _, it := range shop {
			if it.ID == itemID {
				return it, true
			}
		}
	}

	s.mu.Lock()
	it, ok := s.details[itemID]
	s.mu.Unlock()
	if ok {
		return it, true
	}

	var fetched api.RoomItem
	ok = lifecycle.Attempt(ctx, s.logger, &s.outcome, "item_detail", func(ctx context.Context) error {
		var err error
		fetched, err = s.backend.RoomItem(ctx, itemID)
		return err
	})
	if !ok {
		return api.RoomItem{}, false
	}

	s.mu.Lock()
	s.details[itemID] = fetched
	s.mu.Unlock()
	return fetched, true
}

func (s *Service) roomID() (int64, error) {
	st, ok := s.state.Get()
	if !ok {
		return 0, errRoomNotLoaded
	}
	return st.Layout.ID, nil
}

// Purchase buys an item definition. Owned items and unaffordable prices are
// refused without a network call.
func (s *Service) Purchase(ctx context.Context, itemID int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "purchase_item", func(ctx context.Context) error {
		wallet, ok := s.wallet.State()
		if !ok {
			return errEconomyNotLoaded
		}

		if shop, ok := s.shop.Get(); ok {
			i := slices.IndexFunc(shop, func(it api.RoomItem) bool { return it.ID == itemID })
			if i >= 0 {
				if shop[i].IsOwned {
					return errAlreadyOwned
				}
				if wallet.Coins < shop[i].Price {
					return errNotEnoughCoins
				}
			}
		}

		if err := s.backend.BuyItem(ctx, itemID); err != nil {
			return err
		}

		s.shop.Patch(func(list []api.RoomItem) []api.RoomItem {
			out := slices.Clone(list)
			for i := range out {
				if out[i].ID == itemID {
					out[i].IsOwned = true
				}
			}
			return out
		})
		s.state.Refresh(ctx)
		s.wallet.Refresh(ctx)
		return nil
	})
}

// Place puts an owned item into the room at (x, y).
func (s *Service) Place(ctx context.Context, itemID int64, x, y float64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "place", func(ctx context.Context) error {
		st, ok := s.state.Get()
		if !ok {
			return errRoomNotLoaded
		}
		if !slices.ContainsFunc(st.Inventory, func(it api.UserItem) bool { return it.ItemID == itemID }) {
			return errNotInInventory
		}

		req := api.PlaceItemRequest{ItemID: itemID, X: x, Y: y}
		if _, err := s.backend.PlaceItem(ctx, st.Layout.ID, req); err != nil {
			return err
		}

		s.state.Refresh(ctx)
		return nil
	})
}

// Move commits a new position for a placed item. The rotation is kept.
func (s *Service) Move(ctx context.Context, placedItemID int64, x, y float64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "move", func(ctx context.Context) error {
		layout, ok := s.Layout()
		if !ok {
			return errRoomNotLoaded
		}
		placed, found := layout.Find(placedItemID)
		if !found {
			return errNotPlaced
		}

		req := api.MoveItemRequest{X: x, Y: y, Rotation: placed.Rotation}
		if _, err := s.backend.MoveItem(ctx, layout.ID, placedItemID, req); err != nil {
			return err
		}

		s.state.Refresh(ctx)
		return nil
	})
}

// Remove takes a placed item out of the room. It stays in the inventory.
func (s *Service) Remove(ctx context.Context, placedItemID int64) bool {
	return lifecycle.Attempt(ctx, s.logger, &s.outcome, "remove", func(ctx context.Context) error {
		roomID, err := s.roomID()
		if err != nil {
			return err
		}

		if err := s.backend.RemoveItem(ctx, roomID, placedItemID); err != nil {
			return err
		}

		s.state.Refresh(ctx)
		return nil
	})
}

// PlacementFor returns a drag controller for a placed item. A drag end commits
// through Move; when that fails the layout is re-fetched to restore the
// authoritative position. onTap may be nil.
func (s *Service) PlacementFor(ctx context.Context, item api.PlacedItem, bounds Bounds, onTap func(placedItemID int64)) *Placement {
	return NewPlacement(item, bounds, func(x, y float64) {
		if !s.Move(ctx, item.ID, x, y) {
			s.Refresh(ctx)
		}
	}, onTap)
}
