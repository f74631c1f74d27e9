/*
Package handler provides HTTP handler functions for account sessions.
*/
package handler

import (
	"net/http"

	"habitpet/internal/app/api"
	"habitpet/internal/backend"
	"habitpet/internal/pkg/auth/jwt"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
	"habitpet/internal/pkg/req"
	"habitpet/internal/pkg/resp"
)

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// issue answers with the account and a fresh token pair.
func issue(w http.ResponseWriter, r *http.Request, deps *AppDeps, acc backend.Account) {
	access, refresh, err := jwt.GeneratePair(acc.ID, acc.Email, acc.Role, acc.Version, deps.Config.JWTSecret)
	if err != nil {
		logx.Error(err, "jwt generation failed", "user_id", acc.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, api.AuthResponse{
		ID:           acc.ID,
		Email:        acc.Email,
		Name:         acc.Name,
		Role:         acc.Role,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}

// HandleSignUp creates an account. It does not sign in; the client logs in next.
func HandleSignUp(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input api.SignUpRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		acc, cErr := deps.Store.SignUp(input)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}

		resp.RespondSuccess(w, r, api.AuthResponse{ID: acc.ID, Email: acc.Email, Name: acc.Name, Role: acc.Role})
	}
}

// HandleLogin verifies the credentials and issues a token pair.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input api.LoginRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		acc, cErr := deps.Store.Login(input)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		issue(w, r, deps, acc)
	}
}

// HandleGoogleLogin signs in with a Google ID token.
func HandleGoogleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input api.GoogleLoginRequest
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		acc, cErr := deps.Store.GoogleLogin(input)
		if cErr != nil {
			resp.RespondError(w, r, cErr)
			return
		}
		issue(w, r, deps, acc)
	}
}

// HandleLogout revokes the caller's tokens when the bearer is valid. It always
// succeeds so that clients can clear their session unconditionally.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := jwt.BearerToken(r); ok {
			if payload, err := jwt.ParseToken(token, deps.Config.JWTSecret); err == nil && payload.Kind == jwt.KindAccess {
				if current, exists := deps.Store.SessionVersion(payload.UserID); exists && current == payload.Version {
					deps.Store.RevokeSessions(payload.UserID)
				}
			}
		}
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleRefresh trades a valid refresh token for a new pair.
func HandleRefresh(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RefreshInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		payload, err := jwt.ParseToken(input.RefreshToken, deps.Config.JWTSecret)
		if err != nil || payload.Kind != jwt.KindRefresh {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidRefreshToken))
			return
		}

		acc, cErr := deps.Store.Account(payload.UserID)
		if cErr != nil || acc.Version != payload.Version {
			logx.Warn("refresh: revoked token", "user_id", payload.UserID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidRefreshToken))
			return
		}

		access, refresh, err := jwt.GeneratePair(acc.ID, acc.Email, acc.Role, acc.Version, deps.Config.JWTSecret)
		if err != nil {
			logx.Error(err, "refresh: jwt generation failed", "user_id", acc.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		resp.RespondSuccess(w, r, TokenPair{AccessToken: access, RefreshToken: refresh})
	}
}
