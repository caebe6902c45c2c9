package unifiedpass

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mcauth/mcauth/internals/minecraft"
)

const testServerID = "b1946ac92492d2347c6235b4d2611184"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewWithClient(server.Client(), testServerID)
	c.BaseURL = server.URL
	return c
}

func TestAuthenticate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+testServerID+"/authserver/authenticate", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username    string `json:"username"`
			Password    string `json:"password"`
			ClientToken string `json:"clientToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Username != "steve" || req.Password != "hunter2" {
			t.Errorf("credentials = %q / %q", req.Username, req.Password)
		}
		// the server assigns the client token
		if req.ClientToken != "" {
			t.Errorf("clientToken = %q, want empty", req.ClientToken)
		}

		w.Write([]byte(`{
			"accessToken": "up-access",
			"clientToken": "up-client",
			"availableProfiles": [{"id": "33333333333333333333333333333333", "name": "Steve"}],
			"selectedProfile": {"id": "33333333333333333333333333333333", "name": "Steve"}
		}`))
	})

	c := newTestClient(t, mux)
	res, err := c.Authenticate(context.Background(), "steve", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if res.AccessToken != "up-access" || res.ClientToken != "up-client" {
		t.Errorf("unexpected tokens: %+v", res)
	}
}

func TestAuthenticateWrongCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+testServerID+"/authserver/authenticate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "ForbiddenOperationException"}`))
	})

	c := newTestClient(t, mux)
	_, err := c.Authenticate(context.Background(), "steve", "wrong")

	var authErr *minecraft.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+testServerID+"/authserver/refresh", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccessToken string `json:"accessToken"`
			ClientToken string `json:"clientToken"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.AccessToken != "up-access" || req.ClientToken != "up-client" {
			t.Errorf("token pair = %+v", req)
		}
		w.Write([]byte(`{
			"accessToken": "up-access-2",
			"clientToken": "up-client",
			"selectedProfile": {"id": "33333333333333333333333333333333", "name": "Steve"}
		}`))
	})

	c := newTestClient(t, mux)
	res, err := c.Refresh(context.Background(), "up-access", "up-client")
	if err != nil {
		t.Fatal(err)
	}
	if res.AccessToken != "up-access-2" {
		t.Errorf("AccessToken = %q", res.AccessToken)
	}
	if res.ClientToken != "up-client" {
		t.Errorf("ClientToken = %q", res.ClientToken)
	}
}

func TestMissingServerID(t *testing.T) {
	c := New("")
	_, err := c.Authenticate(context.Background(), "steve", "hunter2")

	var configErr *minecraft.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestSignout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+testServerID+"/authserver/signout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := newTestClient(t, mux)
	ok, err := c.Signout(context.Background(), "steve", "hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("Signout() = false, want true")
	}
}
