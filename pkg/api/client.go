// Package api is the HTTP client of the storefront's remote REST backend.
//
// Read operations never fail: transport errors, non-2xx statuses and
// malformed bodies collapse into an empty result so browsing degrades to
// "no results". Write operations return an *Error carrying the server's
// message when it sent one.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront/pkg/logger"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://templo-dos-magos-api-80fee8432048.herokuapp.com"

// Error is a non-success response from a write operation.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api: unexpected status %d", e.StatusCode)
}

// MessageOf returns the server-supplied message carried by err, or fallback
// when there is none (transport failures, empty bodies).
func MessageOf(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Client talks to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the logger used for degraded read operations.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method  string
	path    string
	query   url.Values
	token   string
	body    any
	headers map[string]string
}

// do performs r and decodes a 2xx body into out (when non-nil). Non-2xx
// responses become *Error.
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

// errorBody covers the shapes the backend uses for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func decodeError(resp *http.Response) *Error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	var eb errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&eb); err != nil {
		return apiErr
	}
	switch {
	case eb.Message != "":
		apiErr.Message = eb.Message
	case len(eb.Errors) > 0 && eb.Errors[0].Message != "":
		apiErr.Message = eb.Errors[0].Message
	case eb.Error != "":
		apiErr.Message = eb.Error
	}
	return apiErr
}
