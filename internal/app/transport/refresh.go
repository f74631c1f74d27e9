package transport

import (
	"context"
	"errors"
	"net/http"
)

var errNoRefreshToken = errors.New("no refresh token stored")

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// exchangeRefreshToken trades the stored refresh token for a new access token.
// Concurrent failures share one exchange. It reports whether a token newer than
// usedToken is now stored.
func (t *Transport) exchangeRefreshToken(ctx context.Context, usedToken string) bool {
	_, err, shared := t.refreshGroup.Do("refresh", func() (any, error) {
		current, err := t.session.AccessToken(ctx)
		if err != nil {
			return nil, err
		}
		if current != "" && current != usedToken {
			return nil, nil
		}

		refreshToken, err := t.session.RefreshToken(ctx)
		if err != nil {
			return nil, err
		}
		if refreshToken == "" {
			return nil, errNoRefreshToken
		}

		var out refreshResponse
		req := NewRequest(http.MethodPost, RefreshPath, nil, refreshRequest{RefreshToken: refreshToken}, SkipAuthFailure())
		if err := t.Do(ctx, req, &out); err != nil {
			return nil, err
		}
		if out.AccessToken == "" {
			return nil, errors.New("refresh answered without an access token")
		}

		if out.RefreshToken == "" {
			out.RefreshToken = refreshToken
		}
		return nil, t.session.SaveTokens(ctx, out.AccessToken, out.RefreshToken)
	})

	if err != nil {
		t.logger.Info().Err(err).Bool("shared", shared).Msg("Refresh-token exchange failed")
		return false
	}
	return true
}
