package handler

import (
	"net/http"

	"habitpet/internal/backend"
	"habitpet/internal/backend/storage"
	"habitpet/internal/configs"
	"habitpet/internal/pkg/auth/jwt"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/resp"
)

type AppDeps struct {
	Config *configs.ServerConfig
	Store  *backend.Store
	Assets storage.AssetResolver
}

// currentUser returns the authenticated account ID, answering 401 when the
// request did not pass RequireAuth.
func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return 0, false
	}
	return payload.UserID, true
}

// respond writes data, or cErr when it is set.
func respond[T any](w http.ResponseWriter, r *http.Request, data T, cErr *errs.CustomError) {
	if cErr != nil {
		resp.RespondError(w, r, cErr)
		return
	}
	resp.RespondSuccess(w, r, data)
}
