package api

import (
	"context"
	"net/http"
)

func (c *Client) Profile(ctx context.Context) (Profile, error) {
	return call[Profile](ctx, c, http.MethodGet, "/users/profile", nil, nil)
}

func (c *Client) UpdateProfileNickname(ctx context.Context, req ProfileNicknameRequest) (Profile, error) {
	return call[Profile](ctx, c, http.MethodPut, "/users/profile/updateNickname", nil, req)
}

// UpdatePassword changes the password. A wrong current password is a plain
// validation failure, not an expired session.
func (c *Client) UpdatePassword(ctx context.Context, req PasswordUpdateRequest) error {
	return exec(ctx, c, http.MethodPatch, "/users/profile/updatePassword", req)
}
