/*
Package api is the typed client of the backend REST surface.

Each method maps to one endpoint, sends it through the transport and returns the
unwrapped data. Session endpoints opt out of the auth-failure handling, and the
first fetch of per-account resources opts into handling not-found itself.
*/
package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"habitpet/internal/app/transport"
)

// Doer sends one request and decodes the envelope data into out.
type Doer interface {
	Do(ctx context.Context, req *transport.Request, out any) error
}

// Client is the endpoint client shared by the domain services.
type Client struct {
	t Doer
}

func NewClient(t Doer) *Client {
	return &Client{t: t}
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any, opts ...transport.Option) (T, error) {
	var out T
	err := c.t.Do(ctx, transport.NewRequest(method, path, query, body, opts...), &out)
	return out, err
}

func exec(ctx context.Context, c *Client, method, path string, body any, opts ...transport.Option) error {
	return c.t.Do(ctx, transport.NewRequest(method, path, nil, body, opts...), nil)
}

func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": {strconv.Itoa(page)},
		"size": {strconv.Itoa(size)},
	}
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

// --- Session ---

func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	return call[AuthResponse](ctx, c, http.MethodPost, "/login", nil, req, transport.SkipAuthFailure())
}

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (AuthResponse, error) {
	return call[AuthResponse](ctx, c, http.MethodPost, "/signup", nil, req, transport.SkipAuthFailure())
}

func (c *Client) LoginWithGoogle(ctx context.Context, req GoogleLoginRequest) (AuthResponse, error) {
	return call[AuthResponse](ctx, c, http.MethodPost, "/oauth2/google", nil, req, transport.SkipAuthFailure())
}

// Logout notifies the backend. A rejected token must not start another auto-logout.
func (c *Client) Logout(ctx context.Context) error {
	return exec(ctx, c, http.MethodPost, "/logout", nil, transport.SkipAuthFailure())
}
