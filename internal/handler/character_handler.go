/*
Package handler provides HTTP handler functions for the character shop and roster.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

func HandleListCharacters(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, cErr := deps.Store.Characters(uid)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		resp.RespondSuccess(w, r, deps.characterViews(r.Context(), list))
	}
}

func HandlePurchaseCharacter(deps *AppDeps) http.HandlerFunc {
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

		uc, cErr := deps.Store.PurchaseCharacter(uid, id)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}

func HandleListUserCharacters(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		list, cErr := deps.Store.UserCharacters(uid)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		page, size := req.Paging(r)
		resp.RespondSuccess(w, r, api.NewPage(deps.userCharacterViews(r.Context(), list), page, size))
	}
}

func HandleGetUserCharacter(deps *AppDeps) http.HandlerFunc {
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

		uc, cErr := deps.Store.UserCharacter(uid, id)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}

func HandleUpdateUserCharacter(deps *AppDeps) http.HandlerFunc {
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

		var input api.NicknameRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		uc, cErr := deps.Store.UpdateCharacterNickname(uid, id, input.Nickname)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}

func HandleSetCharacterActive(deps *AppDeps) http.HandlerFunc {
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

		var input api.ActivationRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		uc, cErr := deps.Store.SetCharacterActive(uid, id, input.IsActive)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}

func HandleFeedCharacter(deps *AppDeps) http.HandlerFunc {
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

		var input api.FeedRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		uc, cErr := deps.Store.FeedCharacter(uid, id, input.FoodType)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}

func HandlePlayWithCharacter(deps *AppDeps) http.HandlerFunc {
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

		var input api.PlayRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		uc, cErr := deps.Store.PlayWithCharacter(uid, id, input.ActivityType)
		respond(w, r, deps.userCharacterView(r.Context(), uc), cErr)
	}
}
