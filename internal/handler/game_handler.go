/*
Package handler provides HTTP handler functions for the account's game data.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

func HandleGetGameData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		data, cErr := deps.Store.GameData(uid)
		respond(w, r, data, cErr)
	}
}

func HandleCreateGameData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		data, cErr := deps.Store.CreateGameData(uid)
		respond(w, r, data, cErr)
	}
}

func HandleUpdateGameData(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input api.UpdateGameDataRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		data, cErr := deps.Store.UpdateGameData(uid, input)
		respond(w, r, data, cErr)
	}
}

func HandleCheckLevelUp(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		result, cErr := deps.Store.CheckLevelUp(uid)
		respond(w, r, result, cErr)
	}
}

func HandleRewards(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		rewards, cErr := deps.Store.Rewards(uid)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		page, size := req.Paging(r)
		resp.RespondSuccess(w, r, api.NewPage(rewards, page, size))
	}
}
