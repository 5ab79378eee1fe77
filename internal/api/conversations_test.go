package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// recorder captures the last request the test server saw.
type recorder struct {
	method string
	path   string
	body   map[string]any
}

func newRecordingServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.body = nil
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			json.Unmarshal(data, &rec.body)
		}
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func TestConversationEndpoints(t *testing.T) {
	ctx := context.Background()

	t.Run("create", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusCreated, "")
		client := NewClient(srv.URL, nil)

		if err := client.CreateConversation(ctx, "conv-1", "New chat"); err != nil {
			t.Fatalf("CreateConversation failed: %v", err)
		}
		if rec.method != http.MethodPost || rec.path != "/murphai/conversations/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
		if rec.body["conversation_id"] != "conv-1" || rec.body["title"] != "New chat" {
			t.Errorf("unexpected body: %v", rec.body)
		}
	})

	t.Run("delete", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusNoContent, "")
		client := NewClient(srv.URL, nil)

		if err := client.DeleteConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("DeleteConversation failed: %v", err)
		}
		if rec.method != http.MethodDelete || rec.path != "/murphai/conversations/conv-1/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
	})

	t.Run("clear", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusNoContent, "")
		client := NewClient(srv.URL, nil)

		if err := client.ClearConversation(ctx, "conv-1"); err != nil {
			t.Fatalf("ClearConversation failed: %v", err)
		}
		if rec.method != http.MethodDelete || rec.path != "/murphai/conversations/conv-1/clear/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
	})

	t.Run("clear all", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusNoContent, "")
		client := NewClient(srv.URL, nil)

		if err := client.ClearAllConversations(ctx); err != nil {
			t.Fatalf("ClearAllConversations failed: %v", err)
		}
		if rec.method != http.MethodDelete || rec.path != "/murphai/conversations/clear-all/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
	})

	t.Run("rename", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusOK, "")
		client := NewClient(srv.URL, nil)

		if err := client.RenameConversation(ctx, "conv-1", "Jupiter moons"); err != nil {
			t.Fatalf("RenameConversation failed: %v", err)
		}
		if rec.method != http.MethodPatch || rec.path != "/murphai/conversations/conv-1/rename/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
		if rec.body["title"] != "Jupiter moons" {
			t.Errorf("unexpected body: %v", rec.body)
		}
	})
}

func TestSendChat(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the reply text", func(t *testing.T) {
		srv, rec := newRecordingServer(t, http.StatusOK, `{"response":"Saturn has 146 moons."}`)
		client := NewClient(srv.URL, nil)

		reply, err := client.SendChat(ctx, "How many moons does Saturn have?", "conv-1")
		if err != nil {
			t.Fatalf("SendChat failed: %v", err)
		}
		if reply != "Saturn has 146 moons." {
			t.Errorf("unexpected reply: %q", reply)
		}
		if rec.method != http.MethodPost || rec.path != "/murphai/chat/" {
			t.Errorf("unexpected request: %s %s", rec.method, rec.path)
		}
		if rec.body["prompt"] != "How many moons does Saturn have?" || rec.body["conversation_id"] != "conv-1" {
			t.Errorf("unexpected body: %v", rec.body)
		}
	})

	t.Run("missing response field yields the placeholder text", func(t *testing.T) {
		srv, _ := newRecordingServer(t, http.StatusOK, `{"detail":"ok"}`)
		client := NewClient(srv.URL, nil)

		reply, err := client.SendChat(ctx, "ping", "conv-1")
		if err != nil {
			t.Fatalf("SendChat failed: %v", err)
		}
		if reply != UnexpectedResponse {
			t.Errorf("expected placeholder, got %q", reply)
		}
	})

	t.Run("non-string response field yields the placeholder text", func(t *testing.T) {
		srv, _ := newRecordingServer(t, http.StatusOK, `{"response":{"nested":true}}`)
		client := NewClient(srv.URL, nil)

		reply, err := client.SendChat(ctx, "ping", "conv-1")
		if err != nil {
			t.Fatalf("SendChat failed: %v", err)
		}
		if reply != UnexpectedResponse {
			t.Errorf("expected placeholder, got %q", reply)
		}
	})

	t.Run("server error surfaces as an error", func(t *testing.T) {
		srv, _ := newRecordingServer(t, http.StatusBadGateway, "upstream timeout")
		client := NewClient(srv.URL, nil)

		if _, err := client.SendChat(ctx, "ping", "conv-1"); err == nil {
			t.Fatal("expected error for 502 response")
		}
	})
}
