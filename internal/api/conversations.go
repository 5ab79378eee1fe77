package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// UnexpectedResponse is returned by SendChat when the backend answers with
// a body that doesn't carry a reply. It is surfaced as the assistant's text
// rather than as an error; this soft failure is specific to the chat call.
const UnexpectedResponse = "Error: Unexpected response format"

// CreateConversation registers a new conversation under the client-generated id.
func (c *Client) CreateConversation(ctx context.Context, id, title string) error {
	body := map[string]string{"conversation_id": id, "title": title}
	return c.do(ctx, "creating conversation", http.MethodPost, "/murphai/conversations/", body, nil)
}

// DeleteConversation removes a conversation and its server-side history.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	path := fmt.Sprintf("/murphai/conversations/%s/", id)
	return c.do(ctx, "deleting conversation", http.MethodDelete, path, nil, nil)
}

// ClearConversation wipes the message history of a conversation, keeping
// the conversation itself.
func (c *Client) ClearConversation(ctx context.Context, id string) error {
	path := fmt.Sprintf("/murphai/conversations/%s/clear/", id)
	return c.do(ctx, "clearing conversation", http.MethodDelete, path, nil, nil)
}

// ClearAllConversations wipes every conversation owned by the caller.
func (c *Client) ClearAllConversations(ctx context.Context) error {
	return c.do(ctx, "clearing all conversations", http.MethodDelete, "/murphai/conversations/clear-all/", nil, nil)
}

// RenameConversation changes a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, id, title string) error {
	path := fmt.Sprintf("/murphai/conversations/%s/rename/", id)
	body := map[string]string{"title": title}
	return c.do(ctx, "renaming conversation", http.MethodPatch, path, body, nil)
}

// SendChat submits a prompt to the assistant within the given conversation
// and returns the reply text. A well-formed error (non-2xx, transport)
// surfaces as *RemoteError; a 2xx response without the expected shape
// yields UnexpectedResponse with a nil error.
func (c *Client) SendChat(ctx context.Context, prompt, conversationID string) (string, error) {
	body := map[string]string{"prompt": prompt, "conversation_id": conversationID}

	var result struct {
		Response json.RawMessage `json:"response"`
	}
	if err := c.do(ctx, "sending chat message", http.MethodPost, "/murphai/chat/", body, &result); err != nil {
		return "", err
	}

	var reply string
	if len(result.Response) > 0 && json.Unmarshal(result.Response, &reply) == nil && reply != "" {
		return reply, nil
	}
	return UnexpectedResponse, nil
}
