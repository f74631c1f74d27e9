package jwt

import (
	"context"
	"net/http"
	"strings"

	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
	"habitpet/internal/pkg/resp"
)

type contextKey string

const (
	// ContextAuthPayloadKey stores the parsed *Payload in the request context.
	ContextAuthPayloadKey contextKey = "auth_payload"
)

// VersionSource reports the current session version of an account.
// ok is false when the account does not exist.
type VersionSource interface {
	SessionVersion(userID int64) (version int, ok bool)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth rejects requests without a valid, unrevoked access token with 401.
// On success the Payload is injected into the request context.
func RequireAuth(secretKey string, versions VersionSource) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := BearerToken(r)
			if !ok {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			payload, err := ParseToken(tokenString, secretKey)
			if err != nil {
				logx.Warn("Rejected bearer token", "error", err.Error())
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if payload.Kind != KindAccess {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			current, exists := versions.SessionVersion(payload.UserID)
			if !exists || current != payload.Version {
				logx.Warn("Rejected revoked bearer token", "user_id", payload.UserID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext extracts the authenticated Payload from the request context.
// It returns nil outside RequireAuth.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
