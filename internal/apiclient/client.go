// Package apiclient is the HTTP client for the AcademiaFlow REST API.
//
// Every call goes through an ordered chain of request hooks (run before the
// request is sent) and response hooks (run after any outcome, including
// transport failures). Authentication and session invalidation are hooks.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 10 << 20

	contentTypeJSON = "application/json"
)

var (
	// ErrBaseURLRequired is returned by New when no base URL is given.
	ErrBaseURLRequired = errors.New("base URL is required")
	// ErrInvalidBaseURL is returned by New when the base URL is not absolute.
	ErrInvalidBaseURL = errors.New("base URL must be an absolute http(s) URL")
)

// RequestHook inspects or modifies an outgoing request. Returning an error
// aborts the call before anything is sent.
type RequestHook func(req *http.Request) error

// Exchange is the outcome of one call, handed to response hooks.
// Response is nil when the transport failed; Err is the error the caller
// will receive (transport error or *APIError), nil on success.
type Exchange struct {
	Request  *http.Request
	Response *http.Response
	Err      error
	Duration time.Duration
}

// ResponseHook observes the outcome of a call. Hooks cannot change what the
// caller receives.
type ResponseHook func(ex *Exchange)

// Options configures a Client.
type Options struct {
	BaseURL       string
	HTTPClient    *http.Client
	RequestHooks  []RequestHook
	ResponseHooks []ResponseHook
}

// Client issues JSON requests against a fixed base URL.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	before  []RequestHook
	after   []ResponseHook
}

// NewHTTPClient creates an HTTP client with bounded dial and TLS timeouts.
// timeout caps the whole request; zero or negative leaves it unbounded so
// only the caller's context ends a slow response.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// New creates a Client. Hooks run in the order given.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, ErrBaseURLRequired
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}

	return &Client{
		baseURL: base,
		http:    httpClient,
		before:  append([]RequestHook(nil), opts.RequestHooks...),
		after:   append([]ResponseHook(nil), opts.ResponseHooks...),
	}, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do sends one request. path is appended to the base URL; query is encoded
// only when it has values; body, when non-nil, is sent as JSON; a 2xx body
// is decoded into out when out is non-nil.
//
// Transport errors are returned as-is. Non-2xx responses become *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	for _, hook := range c.before {
		if err := hook(req); err != nil {
			return fmt.Errorf("request hook: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	ex := &Exchange{Request: req, Response: resp, Duration: time.Since(start)}
	if err != nil {
		ex.Err = err
		c.runAfter(ex)
		return err
	}
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	ex.Duration = time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ex.Err = newAPIError(req, resp.StatusCode, raw)
		c.runAfter(ex)
		return ex.Err
	}

	if readErr != nil {
		ex.Err = fmt.Errorf("read response: %w", readErr)
		c.runAfter(ex)
		return ex.Err
	}

	c.runAfter(ex)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set("Accept", contentTypeJSON)
	return req, nil
}

func (c *Client) runAfter(ex *Exchange) {
	for _, hook := range c.after {
		hook(ex)
	}
}
