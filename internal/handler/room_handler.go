/*
Package handler provides HTTP handler functions for the account's room, its items
and the item shop.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		room, cErr := deps.Store.Room(uid)
		respond(w, r, room, cErr)
	}
}

func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		room, cErr := deps.Store.CreateRoom(uid)
		respond(w, r, room, cErr)
	}
}

func HandlePlaceItem(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		roomID, customErr := req.PathID(r, "roomId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input api.PlaceItemRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		placed, cErr := deps.Store.PlaceItem(uid, roomID, input)
		respond(w, r, placed, cErr)
	}
}

func HandleMoveItem(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		roomID, customErr := req.PathID(r, "roomId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		placedItemID, customErr := req.PathID(r, "placedItemId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input api.MoveItemRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		placed, cErr := deps.Store.MoveItem(uid, roomID, placedItemID, input)
		respond(w, r, placed, cErr)
	}
}

func HandleRemoveItem(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		roomID, customErr := req.PathID(r, "roomId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		placedItemID, customErr := req.PathID(r, "placedItemId")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if cErr := deps.Store.RemoveItem(uid, roomID, placedItemID); cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		resp.RespondSuccess(w, r, nil)
	}
}

func HandleListRoomItems(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		category := api.ItemCategory(r.URL.Query().Get("category"))
		list, cErr := deps.Store.RoomItems(uid, category)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		page, size := req.Paging(r)
		resp.RespondSuccess(w, r, api.NewPage(deps.roomItemViews(r.Context(), list), page, size))
	}
}

func HandleGetRoomItem(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		item, cErr := deps.Store.RoomItem(uid, id)
		item.ImageURL = deps.assetURL(r.Context(), item.ImageURL)
		respond(w, r, item, cErr)
	}
}

func HandleListUserItems(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, cErr := deps.Store.UserItems(uid)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		page, size := req.Paging(r)
		resp.RespondSuccess(w, r, api.NewPage(deps.userItemViews(r.Context(), list), page, size))
	}
}

func HandleBuyItem(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input api.BuyItemRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		item, cErr := deps.Store.BuyItem(uid, input.ItemID)
		item.ImageURL = deps.assetURL(r.Context(), item.ImageURL)
		respond(w, r, item, cErr)
	}
}
