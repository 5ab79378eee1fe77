package api

import (
	"context"
	"fmt"
	"net/http"
)

// JournalType distinguishes the kinds of entries a user keeps.
type JournalType string

// Journal type constants.
const (
	JournalNote           JournalType = "note"
	JournalObservation    JournalType = "observation"
	JournalAIConversation JournalType = "ai_conversation"
	JournalDiscovery      JournalType = "discovery"
)

// Coordinates pins an observation to a sky position.
type Coordinates struct {
	RA  string `json:"ra,omitempty"`
	Dec string `json:"dec,omitempty"`
	Alt string `json:"alt,omitempty"`
	Az  string `json:"az,omitempty"`
}

// Journal is a user journal entry.
type Journal struct {
	ID          int          `json:"id"`
	JournalType JournalType  `json:"journal_type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	IsPublic    bool         `json:"is_public"`
	CreatedAt   string       `json:"created_at"`
	UpdatedAt   string       `json:"updated_at"`
}

// CreateJournalData is the payload for creating a journal entry.
type CreateJournalData struct {
	JournalType JournalType  `json:"journal_type"`
	Title       string       `json:"title"`
	Content     string       `json:"content"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	IsPublic    bool         `json:"is_public,omitempty"`
}

// ListJournals returns the caller's journal entries.
func (c *Client) ListJournals(ctx context.Context) ([]Journal, error) {
	var journals []Journal
	if err := c.do(ctx, "listing journals", http.MethodGet, "/users/journals/", nil, &journals); err != nil {
		return nil, err
	}
	return journals, nil
}

// ListObservations returns only observation-type entries.
func (c *Client) ListObservations(ctx context.Context) ([]Journal, error) {
	var journals []Journal
	if err := c.do(ctx, "listing observations", http.MethodGet, "/users/journals/observations/", nil, &journals); err != nil {
		return nil, err
	}
	return journals, nil
}

// CreateJournal adds a new journal entry.
func (c *Client) CreateJournal(ctx context.Context, data CreateJournalData) (*Journal, error) {
	var journal Journal
	if err := c.do(ctx, "creating journal", http.MethodPost, "/users/journals/", data, &journal); err != nil {
		return nil, err
	}
	return &journal, nil
}

// UpdateJournal patches fields of an existing entry.
func (c *Client) UpdateJournal(ctx context.Context, id int, fields map[string]any) (*Journal, error) {
	path := fmt.Sprintf("/users/journals/%d/", id)

	var journal Journal
	if err := c.do(ctx, "updating journal", http.MethodPatch, path, fields, &journal); err != nil {
		return nil, err
	}
	return &journal, nil
}

// DeleteJournal removes a journal entry.
func (c *Client) DeleteJournal(ctx context.Context, id int) error {
	path := fmt.Sprintf("/users/journals/%d/", id)
	return c.do(ctx, "deleting journal", http.MethodDelete, path, nil, nil)
}
