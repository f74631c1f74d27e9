/*
Package handler provides HTTP handler functions for the account profile.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}
		profile, cErr := deps.Store.Profile(uid)
		respond(w, r, profile, cErr)
	}
}

func HandleUpdateNickName(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input api.ProfileNicknameRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		profile, cErr := deps.Store.UpdateNickName(uid, input.NickName)
		respond(w, r, profile, cErr)
	}
}

// HandleUpdatePassword changes the password. Issued tokens are not revoked.
func HandleUpdatePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := currentUser(w, r)
		if !ok {
			return
		}

		var input api.PasswordUpdateRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if cErr := deps.Store.UpdatePassword(uid, input); cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		resp.RespondSuccess(w, r, nil)
	}
}
