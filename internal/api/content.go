package api

import (
	"context"
	"fmt"
	"net/http"
)

// ContentType identifies the kind of celestial content an item refers to.
type ContentType string

// Content type constants.
const (
	ContentAPOD         ContentType = "apod"
	ContentMarsPhoto    ContentType = "mars_photo"
	ContentEPIC         ContentType = "epic"
	ContentNEO          ContentType = "neo"
	ContentExoplanet    ContentType = "exoplanet"
	ContentSpaceWeather ContentType = "space_weather"
	ContentNews         ContentType = "news"
	ContentCelestial    ContentType = "celestial"
	ContentEvent        ContentType = "event"
)

// SavedContent is a piece of platform content the user has saved.
type SavedContent struct {
	ID          int            `json:"id"`
	ContentType ContentType    `json:"content_type"`
	ContentID   string         `json:"content_id"`
	Title       string         `json:"title"`
	Notes       string         `json:"notes,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	IsFavorite  bool           `json:"is_favorite"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// SaveContentData is the payload for saving a content item.
type SaveContentData struct {
	ContentType ContentType    `json:"content_type"`
	ContentID   string         `json:"content_id"`
	Title       string         `json:"title"`
	Notes       string         `json:"notes,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	IsFavorite  bool           `json:"is_favorite,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ListContent returns all of the user's saved content.
func (c *Client) ListContent(ctx context.Context) ([]SavedContent, error) {
	var items []SavedContent
	if err := c.do(ctx, "listing saved content", http.MethodGet, "/users/content/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListFavorites returns the user's favorited content.
func (c *Client) ListFavorites(ctx context.Context) ([]SavedContent, error) {
	var items []SavedContent
	if err := c.do(ctx, "listing favorites", http.MethodGet, "/users/content/favorites/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// SaveContent saves a content item to the user's collection.
func (c *Client) SaveContent(ctx context.Context, data SaveContentData) (*SavedContent, error) {
	var item SavedContent
	if err := c.do(ctx, "saving content", http.MethodPost, "/users/content/", data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteContent removes a saved content item.
func (c *Client) DeleteContent(ctx context.Context, id int) error {
	path := fmt.Sprintf("/users/content/%d/", id)
	return c.do(ctx, "deleting saved content", http.MethodDelete, path, nil, nil)
}

// ToggleFavorite flips the favorite flag on a saved item.
func (c *Client) ToggleFavorite(ctx context.Context, id int) (*SavedContent, error) {
	path := fmt.Sprintf("/users/content/%d/toggle_favorite/", id)

	var item SavedContent
	if err := c.do(ctx, "toggling favorite", http.MethodPost, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
