// Package billing provides the HTTP client for the utility billing REST API.
// Every request goes through one configured Client that injects the bearer
// token, normalizes query parameters and payloads, and tears down the session
// on a 401.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://behiwot.com"
	DefaultTimeout = 10 * time.Second
)

// TokenSource yields the bearer token to attach to the next request.
// It is read once per request, when the request is built.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
}

type Option func(*Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUnauthorizedHandler registers the hook run on every 401 response,
// before the error is handed back to the caller.
func WithUnauthorizedHandler(f func()) Option {
	return func(c *Client) {
		c.onUnauthorized = f
	}
}

func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Response is a successful (2xx) API response.
type Response struct {
	Data   []byte
	Status int
	Header http.Header
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// RequestOption overrides request configuration for a single call.
type RequestOption func(*http.Request)

func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, nil, opts)
}

func (c *Client) GetWithParams(ctx context.Context, path string, params Params, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, params Params, body any, opts []RequestOption) (*Response, error) {
	resp, err := c.send(ctx, method, path, params, body, opts)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Message: err.Error(), Err: err}
	}

	if resp.StatusCode > 299 {
		return nil, c.statusError(resp.StatusCode, data)
	}

	return &Response{
		Data:   data,
		Status: resp.StatusCode,
		Header: resp.Header,
	}, nil
}

// send builds and executes the request. The caller owns the response body
// of a non-nil response.
func (c *Client) send(ctx context.Context, method, path string, params Params, body any, opts []RequestOption) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(NormalizePayload(body))
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, BuildURL(c.baseURL+path, params), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(err)
	}

	return resp, nil
}

func (c *Client) transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{
			Message: fmt.Sprintf("timeout of %dms exceeded", c.httpClient.Timeout.Milliseconds()),
			Err:     ErrTimeout,
		}
	}
	return &Error{Message: "Network Error", Err: err}
}

func (c *Client) statusError(status int, body []byte) error {
	apiErr := &Error{
		Status:        status,
		Message:       fmt.Sprintf("Request failed with status code %d", status),
		ServerMessage: serverMessage(body),
	}

	if status == http.StatusUnauthorized {
		apiErr.Err = ErrUnauthorized
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return apiErr
}
