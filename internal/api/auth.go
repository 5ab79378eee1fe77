package api

import (
	"context"
	"net/http"

	"github.com/astroworld-labs/murph/internal/events"
	"github.com/astroworld-labs/murph/internal/pubsub"
)

// User is the backend's account representation.
type User struct {
	ID         int    `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Bio        string `json:"bio,omitempty"`
	DateJoined string `json:"date_joined,omitempty"`
}

// LoginResult is the token pair returned by a successful login.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login exchanges credentials for a JWT pair. It does not store the tokens;
// that's the caller's job.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}

	var result LoginResult
	if err := c.do(ctx, "logging in", http.MethodPost, "/users/login/", body, &result); err != nil {
		return nil, err
	}

	c.publishAuth(pubsub.EventCreated, events.NewAuthLoggedInEvent(username))
	return &result, nil
}

// Logout invalidates the given refresh token server-side.
func (c *Client) Logout(ctx context.Context, refresh string) error {
	body := map[string]string{"refresh": refresh}
	if err := c.do(ctx, "logging out", http.MethodPost, "/users/logout/", body, nil); err != nil {
		return err
	}

	c.publishAuth(pubsub.EventDeleted, events.NewAuthLoggedOutEvent(""))
	return nil
}

// CurrentUser fetches the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, "fetching current user", http.MethodGet, "/users/user/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
