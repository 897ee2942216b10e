// Package client is the HTTP client for a running "buddy serve" relay.
// It implements chat.Transport so terminal sessions talk to the same
// endpoint as web clients.
package client

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

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/llm"
	"github.com/globalbuddy/buddy/pkg/reply"
	"github.com/globalbuddy/buddy/pkg/scenario"
	"github.com/globalbuddy/buddy/pkg/storage"
)

// DefaultTimeout bounds a single request. Replies can be slow.
const DefaultTimeout = 5 * time.Minute

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the relay's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New creates a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Reply posts the conversation to /api/chat and returns the raw reply.
func (c *Client) Reply(ctx context.Context, req chat.Request) (string, error) {
	var out chatResponse
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

// Ping checks that the server is up.
func (c *Client) Ping(ctx context.Context) error {
	var pong string
	return c.do(ctx, http.MethodGet, "/ping", nil, &pong)
}

// Scenarios lists the server's scenario cards.
func (c *Client) Scenarios(ctx context.Context) ([]scenario.Scenario, error) {
	var out []scenario.Scenario
	if err := c.do(ctx, http.MethodGet, "/api/scenarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode asks the server to decode raw reply text.
func (c *Client) Decode(ctx context.Context, text string) (reply.Decoded, error) {
	var out reply.Decoded
	err := c.do(ctx, http.MethodPost, "/api/decode", map[string]string{"text": text}, &out)
	return out, err
}

// Sessions lists stored sessions.
func (c *Client) Sessions(ctx context.Context) ([]storage.Session, error) {
	var out []storage.Session
	if err := c.do(ctx, http.MethodGet, "/api/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Turns lists the stored turns of a session.
func (c *Client) Turns(ctx context.Context, sessionID string) ([]*storage.Record, error) {
	var out []*storage.Record
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/turns"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var e llm.ErrorResponse
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

var _ chat.Transport = (*Client)(nil)
