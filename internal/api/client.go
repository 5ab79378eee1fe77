// Package api provides the HTTP client for the AstroWorld REST backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/pubsub"
)

const defaultTimeout = 30 * time.Second

// ErrUnauthorized is returned when a request fails authentication even
// after a token refresh.
var ErrUnauthorized = errors.New("authentication required")

// RemoteError represents a failed backend call: a non-2xx response or a
// transport failure.
type RemoteError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Body)
}

// Unwrap returns the underlying transport error, if any.
func (e *RemoteError) Unwrap() error {
	return e.Err
}

// TokenSource supplies and persists the JWT pair used for authentication.
// *config.Config satisfies it.
type TokenSource interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(access string) error
}

// Client talks to the AstroWorld backend. All methods issue exactly one
// request (plus at most one retry after a token refresh) and report
// failures as *RemoteError.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	authEvents pubsub.Publisher[events.AuthEvent]
}

// NewClient creates a client for the given base URL. tokens may be nil for
// unauthenticated use (login).
func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		tokens:  tokens,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetAuthEvents attaches a publisher notified of auth lifecycle changes:
// login, logout, token refresh, and expiry.
func (c *Client) SetAuthEvents(p pubsub.Publisher[events.AuthEvent]) {
	c.authEvents = p
}

func (c *Client) publishAuth(eventType pubsub.EventType, event events.AuthEvent) {
	if c.authEvents != nil {
		c.authEvents.Publish(eventType, event)
	}
}

// do issues a JSON request and decodes the response into out (when non-nil).
// A 401 triggers a single token refresh and retry; a second 401 surfaces as
// ErrUnauthorized wrapped in *RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	resp, raw, err := c.roundTrip(ctx, op, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil && c.tokens.RefreshToken() != "" {
		if err := c.refreshAccessToken(ctx); err != nil {
			c.publishAuth(pubsub.EventFailed, events.NewAuthLoggedOutEvent(""))
			return &RemoteError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnauthorized, err)}
		}
		c.publishAuth(pubsub.EventUpdated, events.NewAuthTokenRefreshedEvent())
		resp, raw, err = c.roundTrip(ctx, op, method, path, body)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.publishAuth(pubsub.EventFailed, events.NewAuthLoggedOutEvent(""))
			return &RemoteError{Op: op, Status: resp.StatusCode, Body: snippet(raw), Err: ErrUnauthorized}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RemoteError{Op: op, Status: resp.StatusCode, Body: snippet(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
		}
	}

	return nil
}

// roundTrip performs one HTTP exchange and drains the body.
func (c *Client) roundTrip(ctx context.Context, op, method, path string, body any) (*http.Response, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, &RemoteError{Op: op, Err: fmt.Errorf("encoding request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, nil, &RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil && c.tokens.AccessToken() != "" {
		req.Header.Set("Authorization", "Bearer "+c.tokens.AccessToken())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	return resp, raw, nil
}

// refreshAccessToken exchanges the refresh token for a new access token and
// persists it before any further use.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	payload := map[string]string{"refresh": c.tokens.RefreshToken()}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/token/refresh/", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("token refresh returned %d", resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decoding refresh response: %w", err)
	}
	if result.Access == "" {
		return fmt.Errorf("token refresh returned empty access token")
	}

	// Persist before using; the old token is already invalid.
	if err := c.tokens.SetAccessToken(result.Access); err != nil {
		return fmt.Errorf("persisting refreshed token: %w", err)
	}

	return nil
}

func snippet(body []byte) string {
	const maxLen = 200
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
