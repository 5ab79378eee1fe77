package api

import (
	"context"
	"net/http"
	"testing"
)

func TestLogin(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK, `{"access":"a-tok","refresh":"r-tok"}`)
	client := NewClient(srv.URL, nil)

	result, err := client.Login(context.Background(), "carl", "billions")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/users/login/" {
		t.Errorf("unexpected request: %s %s", rec.method, rec.path)
	}
	if rec.body["username"] != "carl" || rec.body["password"] != "billions" {
		t.Errorf("unexpected body: %v", rec.body)
	}
	if result.Access != "a-tok" || result.Refresh != "r-tok" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv, _ := newRecordingServer(t, http.StatusUnauthorized, `{"detail":"No active account found"}`)
	client := NewClient(srv.URL, nil)

	if _, err := client.Login(context.Background(), "carl", "wrong"); err == nil {
		t.Fatal("expected error for rejected credentials")
	}
}

func TestCurrentUser(t *testing.T) {
	srv, rec := newRecordingServer(t, http.StatusOK,
		`{"id":7,"username":"vera","email":"vera@example.com","first_name":"Vera"}`)
	client := NewClient(srv.URL, &stubTokens{access: "tok"})

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}

	if rec.method != http.MethodGet || rec.path != "/users/user/" {
		t.Errorf("unexpected request: %s %s", rec.method, rec.path)
	}
	if user.ID != 7 || user.Username != "vera" || user.FirstName != "Vera" {
		t.Errorf("unexpected user: %+v", user)
	}
}
