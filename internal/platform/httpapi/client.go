// Package httpapi is the single outbound path to the lab-scheduler backend.
// Each call is one attempt: no retry, no backoff and no client-side timeout
// beyond what the caller's context imposes.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	apperrors "labsched/internal/platform/errors"
)

const BasePath = "/api/v1"

// TokenSource exposes the bearer token of the current session, or "".
type TokenSource interface {
	Token() string
}

// Hooks are the side effects of the failure paths. OnUnauthorized runs before
// the AuthenticationRequired error is returned; OnFailure runs before any
// error is returned unless the request is Quiet.
type Hooks struct {
	OnUnauthorized func(ctx context.Context)
	OnFailure      func(ctx context.Context, err error)
}

// Validator is implemented by response schemas that can check themselves.
type Validator interface {
	Validate() error
}

type Request struct {
	Method string
	// Endpoint is relative to BasePath and may carry a query string.
	Endpoint string
	Body     any
	Header   http.Header
	// Quiet suppresses the failure alert; 401 still invalidates the session.
	Quiet bool
	// AnonymousAuth treats 401 as an ordinary failure (used by login).
	AnonymousAuth bool
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  hclog.Logger

	mu    sync.RWMutex
	hooks Hooks
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(apiURL string, tokens TokenSource, logger hclog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	c := &Client{
		baseURL: strings.TrimRight(apiURL, "/") + BasePath,
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger.Named("httpapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetHooks installs the failure hooks. Bootstrap calls it once the session and
// notification modules exist, since both of them sit on top of this client.
func (c *Client) SetHooks(h Hooks) {
	c.mu.Lock()
	c.hooks = h
	c.mu.Unlock()
}

func (c *Client) currentHooks() Hooks {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hooks
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.Call(ctx, Request{Method: http.MethodGet, Endpoint: endpoint}, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Call(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body}, out)
}

// Call performs req and decodes a successful JSON body into out (nil discards
// it). Every failure is reported through the hooks and then returned.
func (c *Client) Call(ctx context.Context, req Request, out any) error {
	err := c.do(ctx, req, out)
	if err == nil {
		return nil
	}
	c.logger.Warn("api call failed", "method", req.method(), "endpoint", req.Endpoint, "error", err)
	if !req.Quiet {
		if h := c.currentHooks().OnFailure; h != nil {
			h(ctx, err)
		}
	}
	return err
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

func (c *Client) do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", httpReq.Method, req.Endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !req.AnonymousAuth {
		_, _ = io.Copy(io.Discard, resp.Body)
		if h := c.currentHooks().OnUnauthorized; h != nil {
			h(ctx)
		}
		return apperrors.ErrAuthenticationRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewRequestError(resp.StatusCode, errorDetail(resp.Body))
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", apperrors.ErrMalformedResponse, req.Endpoint, err)
	}
	if v, ok := out.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, req.Endpoint, err)
		}
	}
	return nil
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method(), c.baseURL+req.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return httpReq, nil
}

// errorDetail extracts {"detail": "..."} from an error body. FastAPI-style
// validation errors carry a list in detail; the first msg is used then.
func errorDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(payload.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &items); err == nil && len(items) > 0 {
		return items[0].Msg
	}
	return ""
}

// IsAuthFailure reports whether err forced the session out.
func IsAuthFailure(err error) bool {
	return errors.Is(err, apperrors.ErrAuthenticationRequired)
}
