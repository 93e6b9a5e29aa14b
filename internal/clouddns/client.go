// Package clouddns is the client binding for the hosted Cloud DNS API.
//
// Mutating calls (create, update, delete, import, export) are executed by
// the service asynchronously: an accepted request answers HTTP 202 with a
// job handle, and the caller polls the status endpoint until the job
// reaches a terminal state. Client methods come in pairs: the bare method
// submits and returns a *Status, and the AndWait variant composes submit,
// WaitForResult, and payload mapping.
package clouddns

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
)

const (
	// DefaultEndpoint is the versioned API base URL used when no
	// endpoint override is configured.
	DefaultEndpoint = "https://dns.api.rackspacecloud.com/v1.0"

	defaultTimeout = 30 * time.Second
)

// Client issues authorized requests against the Cloud DNS API. It attaches
// credentials and resolves the account-scoped endpoint; callers never
// build URLs or headers themselves.
//
// A Client is safe for concurrent use. Each in-flight operation owns its
// own Status snapshots; the Client holds no per-operation state.
type Client struct {
	username string
	apiKey   string
	account  string
	endpoint string
	client   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API base URL (including the version segment).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New returns a Client for the given account using the supplied credentials.
func New(username, apiKey, account string, opts ...Option) *Client {
	c := &Client{
		username: username,
		apiKey:   apiKey,
		account:  account,
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes one call against the API. The path is relative to the
// account scope, e.g. "/domains".
type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do performs an authorized request and returns the HTTP status code and
// the raw response body. A non-nil error means the call never produced a
// response (transport failure); HTTP-level failures are left to the
// caller to interpret.
func (c *Client) do(ctx context.Context, r request) (int, []byte, error) {
	u := c.endpoint + "/" + c.account + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var payload io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return 0, nil, fmt.Errorf("clouddns: failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("clouddns: failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Auth-User", c.username)
	req.Header.Set("X-Auth-Key", c.apiKey)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("clouddns: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("clouddns: failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// get performs a synchronous read, expecting 200 and decoding into out.
func (c *Client) get(ctx context.Context, r request, out any) error {
	code, body, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return &UnexpectedStatusError{StatusCode: code, Body: body}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("clouddns: failed to decode response: %w", err)
	}
	return nil
}

// submit performs an asynchronous mutation, expecting 202, and constructs
// the job's initial Status snapshot from the response body.
//
// On a transport failure the error is propagated and no Status is
// constructed. Any HTTP status other than 202 is a semantic failure: the
// full body is surfaced via UnexpectedStatusError and, again, no Status
// is constructed.
func (c *Client) submit(ctx context.Context, r request) (*Status, error) {
	code, body, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if code != http.StatusAccepted {
		return nil, &UnexpectedStatusError{StatusCode: code, Body: body}
	}

	st, err := decodeStatus(body)
	if err != nil {
		return nil, fmt.Errorf("clouddns: accepted response: %w", err)
	}
	return st, nil
}
