/*
Package transport is the single HTTP client of the client core.

Every call goes to the configured base address with a fixed timeout, carries the
stored bearer token and an X-Request-ID, and has its {success, message, data}
envelope unwrapped. A 401, or a 404 on a request that did not opt into handling
not-found itself, is an auth failure: the request is marked retried, optionally
retried once after a refresh-token exchange, and otherwise the Coordinator is
triggered and the call fails with errs.ErrAuthExpired.
*/
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"habitpet/internal/app/store"
	"habitpet/internal/pkg/errs"
	"habitpet/internal/pkg/logx"
	"habitpet/internal/pkg/randx"
	"habitpet/internal/pkg/resp"
)

const (
	// RefreshPath is the refresh-token exchange endpoint.
	RefreshPath = "/api/auth/refresh"

	maxResponseBytes = 4 << 20
)

// Config configures a Transport.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// RefreshEnabled turns on the refresh-token exchange before auto-logout.
	RefreshEnabled bool

	// HTTPClient overrides the default client. Its Timeout is replaced by Timeout.
	HTTPClient *http.Client
}

// Request is one backend call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	allowNotFound   bool
	skipAuthFailure bool
	retried         bool
}

// Option adjusts how a Request treats auth failures.
type Option func(*Request)

// AllowNotFound lets a 404 reach the caller as an HTTPError instead of an auth failure.
// Used by fetches that recover from a missing resource by creating it.
func AllowNotFound() Option {
	return func(r *Request) { r.allowNotFound = true }
}

// SkipAuthFailure passes 401 and 404 through as HTTPError. Used by the session
// endpoints, where a 401 means wrong credentials rather than an expired session.
func SkipAuthFailure() Option {
	return func(r *Request) { r.skipAuthFailure = true }
}

// NewRequest builds a Request with the given options applied.
func NewRequest(method, path string, query url.Values, body any, opts ...Option) *Request {
	r := &Request{Method: method, Path: path, Query: query, Body: body}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AllowsNotFound reports whether a 404 is returned to the caller.
func (r *Request) AllowsNotFound() bool {
	return r.allowNotFound
}

// SkipsAuthFailure reports whether 401 and 404 bypass the auto-logout path.
func (r *Request) SkipsAuthFailure() bool {
	return r.skipAuthFailure
}

// Retried reports whether the request already went through the auth-failure path.
func (r *Request) Retried() bool {
	return r.retried
}

// Response is a raw backend answer.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transport sends requests to the backend.
type Transport struct {
	baseURL string
	client  *http.Client
	refresh bool

	session     *store.Session
	coordinator *Coordinator

	refreshGroup singleflight.Group
	logger       zerolog.Logger
}

func New(cfg Config, session *store.Session, coordinator *Coordinator) *Transport {
	client := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		client = &copied
	}
	client.Timeout = cfg.Timeout

	return &Transport{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		client:      client,
		refresh:     cfg.RefreshEnabled,
		session:     session,
		coordinator: coordinator,
		logger:      logx.Component("transport"),
	}
}

// Send dispatches req and returns the raw response. Non-2xx answers become
// *errs.HTTPError; auth failures become errs.ErrAuthExpired.
func (t *Transport) Send(ctx context.Context, req *Request) (*Response, error) {
	res, token, err := t.dispatch(ctx, req)
	if err != nil {
		return nil, err
	}

	if !t.isAuthFailure(req, res.Status) {
		return res, statusError(res)
	}

	if req.retried {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, errs.ErrAuthExpired)
	}
	req.retried = true

	if t.refresh && t.exchangeRefreshToken(ctx, token) {
		res, token, err = t.dispatch(ctx, req)
		if err != nil {
			return nil, err
		}
		if !t.isAuthFailure(req, res.Status) {
			return res, statusError(res)
		}
	}

	t.expire(ctx, req, token)
	return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, errs.ErrAuthExpired)
}

// Do sends req and decodes the envelope's data into out. out may be nil.
func (t *Transport) Do(ctx context.Context, req *Request, out any) error {
	res, err := t.Send(ctx, req)
	if err != nil {
		return err
	}

	var env resp.Raw
	if err := json.Unmarshal(res.Body, &env); err != nil {
		return fmt.Errorf("%s %s: decode envelope: %w", req.Method, req.Path, err)
	}
	if !env.Success {
		return &errs.HTTPError{Status: res.Status, Message: env.Message, Body: res.Body}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", req.Method, req.Path, err)
	}
	return nil
}

func (t *Transport) isAuthFailure(req *Request, status int) bool {
	if req.skipAuthFailure {
		return false
	}
	switch status {
	case http.StatusUnauthorized:
		return true
	case http.StatusNotFound:
		return !req.allowNotFound
	default:
		return false
	}
}

// expire triggers the auto-logout unless the rejected token was already replaced,
// in which case the failure belongs to a session that no longer exists.
func (t *Transport) expire(ctx context.Context, req *Request, usedToken string) {
	current, err := t.session.AccessToken(ctx)
	if err == nil && current != "" && current != usedToken {
		t.logger.Debug().Str("path", req.Path).Msg("Auth failure for a replaced token, ignoring")
		return
	}
	t.coordinator.Trigger(ctx)
}

func statusError(res *Response) error {
	if res.Status >= 200 && res.Status < 300 {
		return nil
	}

	httpErr := &errs.HTTPError{Status: res.Status, Body: res.Body}
	var env resp.Raw
	if json.Unmarshal(res.Body, &env) == nil {
		httpErr.Message = env.Message
	}
	return httpErr
}

// dispatch performs one HTTP exchange and returns the token it attached.
func (t *Transport) dispatch(ctx context.Context, req *Request) (*Response, string, error) {
	target := t.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%s %s: encode body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: build request: %w", req.Method, req.Path, err)
	}

	requestID := randx.RequestID()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	token, err := t.session.AccessToken(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("Failed to read access token, sending without credentials")
		token = ""
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	httpRes, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Warn().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Dur("latency", time.Since(start)).
			Msg("Request failed")
		return nil, token, errs.NewTransportError(err)
	}
	defer httpRes.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpRes.Body, maxResponseBytes))
	if err != nil {
		return nil, token, errs.NewTransportError(err)
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("request_id", requestID).
		Int("status", httpRes.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Request completed")

	return &Response{Status: httpRes.StatusCode, Header: httpRes.Header, Body: data}, token, nil
}
