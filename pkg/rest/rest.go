// Package rest provides the outbound client for the parts backend.
//
// Two configurations exist against one base address: an authenticated
// client that reads a TokenSource before every request and attaches the
// bearer header when a token is present, and a public client that never
// sends credentials (login and registration).
//
// Usage:
//
//	api := rest.New(config.APIBaseURL(), store)
//	resp, err := api.Get("/parts").WithContext(ctx).Send()
//	if err != nil { ... }                   // transport failure
//	if err := resp.Err("Failed to load parts"); err != nil { ... }
//	var parts []models.Part
//	err = resp.JSON(&parts)
//
// Failed requests are never retried and a 401 is surfaced to the caller
// as-is; redirecting to login is the caller's decision.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"strings"
	"time"
)

// defaultTransport is the connection-pooled transport shared by every
// client. Tests swap Client.HTTP instead of touching this.
var defaultTransport = &gohttp.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// TokenSource supplies the bearer token for authenticated requests.
// *session.Store satisfies it.
type TokenSource interface {
	Token() (string, bool)
}

// Observer receives the outcome of every completed backend request.
// Status is 0 when no response was received.
type Observer func(method, path string, status int, elapsed time.Duration)

// Client issues JSON requests against one base address.
type Client struct {
	base   string
	tokens TokenSource

	// HTTP is the underlying client; tests replace it to point at an
	// httptest server or inject a transport.
	HTTP *gohttp.Client

	// Observe, when set, is called after every request attempt.
	Observe Observer
}

// New returns an authenticated client. Requests carry
// "Authorization: Bearer <token>" whenever ts has a token; when it does
// not, the request is sent without credentials and the backend rejects it.
func New(base string, ts TokenSource) *Client {
	return &Client{
		base:   strings.TrimRight(base, "/"),
		tokens: ts,
		HTTP:   &gohttp.Client{Transport: defaultTransport},
	}
}

// NewPublic returns a client that never attaches credentials.
func NewPublic(base string) *Client {
	return New(base, nil)
}

// Get starts a GET request for path (e.g. "/parts").
func (c *Client) Get(path string) *Request { return c.newRequest(gohttp.MethodGet, path) }

// Post starts a POST request.
func (c *Client) Post(path string) *Request { return c.newRequest(gohttp.MethodPost, path) }

// Put starts a PUT request.
func (c *Client) Put(path string) *Request { return c.newRequest(gohttp.MethodPut, path) }

// Delete starts a DELETE request.
func (c *Client) Delete(path string) *Request { return c.newRequest(gohttp.MethodDelete, path) }

func (c *Client) newRequest(method, path string) *Request {
	return &Request{
		client:  c,
		method:  method,
		path:    path,
		headers: map[string]string{"Accept": "application/json"},
		timeout: 30 * time.Second,
		ctx:     context.Background(),
	}
}

// url joins the base address with path. An empty base leaves the path
// relative, mirroring the same-origin fallback of the original client.
func (c *Client) url(path string) string {
	if c.base == "" {
		return path
	}
	return c.base + path
}

// ─── Request ─────────────────────────────────────────────────────────────────

// Request is a fluent request builder.
type Request struct {
	client  *Client
	method  string
	path    string
	headers map[string]string
	body    interface{}
	timeout time.Duration
	ctx     context.Context
}

// Header adds a single header.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets the request body; v is marshalled to JSON.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// Timeout sets the request timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// WithContext sets a custom context.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Send executes the request once. A transport-level failure (no response
// received) is returned as an error; any received response — including
// non-2xx — is returned as a *Response for the caller to inspect.
func (r *Request) Send() (*Response, error) {
	start := time.Now()
	resp, err := r.do()

	if obs := r.client.Observe; obs != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		obs(r.method, r.path, status, time.Since(start))
	}
	return resp, err
}

func (r *Request) do() (*Response, error) {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("rest: marshal body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.client.url(r.path), body)
	if err != nil {
		return nil, fmt.Errorf("rest: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.client.tokens != nil {
		if token, ok := r.client.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.client.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: %s %s: %w", r.method, r.path, err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("rest: read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

// ─── Response ────────────────────────────────────────────────────────────────

// Response wraps a received backend response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("rest: decode JSON: %w", err)
	}
	return nil
}

// Err returns nil for a 2xx response; otherwise an *APIError carrying
// the status code and the backend's message — the body's "error" field,
// then "message", then fallback.
func (r *Response) Err(fallback string) error {
	if r.OK() {
		return nil
	}
	return &APIError{Status: r.StatusCode, Message: r.message(fallback)}
}

func (r *Response) message(fallback string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}

// ─── Errors ──────────────────────────────────────────────────────────────────

// APIError is a backend-reported failure: a received non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	return statusOf(err) == gohttp.StatusNotFound
}

// IsUnauthorized reports whether err is a backend 401.
func IsUnauthorized(err error) bool {
	return statusOf(err) == gohttp.StatusUnauthorized
}

// ErrorMessage extracts the user-facing message from err: the backend's
// message for an *APIError, fallback for anything else (transport
// failures carry wrapped network detail that is not for end users).
func ErrorMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return fallback
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
