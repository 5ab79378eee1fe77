package api

import (
	"context"
	"fmt"
	"net/http"
)

// UserMessage is a direct message between two users.
type UserMessage struct {
	ID        int    `json:"id"`
	Sender    User   `json:"sender"`
	Recipient User   `json:"recipient"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	ReadAt    string `json:"read_at,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// MessageThread is a two-user conversation summary.
type MessageThread struct {
	ID           int          `json:"id"`
	OtherUser    User         `json:"other_user"`
	LastMessage  *UserMessage `json:"last_message,omitempty"`
	LastActivity string       `json:"last_activity"`
	UnreadCount  int          `json:"unread_count"`
	CreatedAt    string       `json:"created_at"`
}

// ThreadMessages pairs a thread with its full message history.
type ThreadMessages struct {
	Thread   MessageThread `json:"thread"`
	Messages []UserMessage `json:"messages"`
}

// ListThreads returns the caller's message threads.
func (c *Client) ListThreads(ctx context.Context) ([]MessageThread, error) {
	var threads []MessageThread
	if err := c.do(ctx, "listing message threads", http.MethodGet, "/users/messages/threads/", nil, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

// GetThreadMessages returns a thread and its messages.
func (c *Client) GetThreadMessages(ctx context.Context, threadID int) (*ThreadMessages, error) {
	path := fmt.Sprintf("/users/messages/threads/%d/", threadID)

	var result ThreadMessages
	if err := c.do(ctx, "fetching thread messages", http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMessagesWithUser returns the message history with a single user,
// regardless of which thread it belongs to.
func (c *Client) GetMessagesWithUser(ctx context.Context, userID int) ([]UserMessage, error) {
	path := fmt.Sprintf("/users/messages/with/%d/", userID)

	var messages []UserMessage
	if err := c.do(ctx, "fetching messages with user", http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// SendUserMessage sends a direct message to another user.
func (c *Client) SendUserMessage(ctx context.Context, recipientID int, message string) (*UserMessage, error) {
	body := map[string]any{"recipient_id": recipientID, "message": message}

	var sent UserMessage
	if err := c.do(ctx, "sending user message", http.MethodPost, "/users/messages/send/", body, &sent); err != nil {
		return nil, err
	}
	return &sent, nil
}
