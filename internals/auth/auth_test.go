package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/microsoft"
	"github.com/mcauth/mcauth/internals/minecraft/unifiedpass"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
)

func yggdrasilStub(t *testing.T, response string, status int) *yggdrasil.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/authserver/authenticate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(response))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return yggdrasil.NewWithClient(server.Client(), server.URL)
}

func TestYggdrasilMultiAccount(t *testing.T) {
	client := yggdrasilStub(t, `{
		"accessToken": "ygg-access",
		"clientToken": "ygg-client",
		"availableProfiles": [
			{"id": "11111111111111111111111111111111", "name": "Steve"},
			{"id": "22222222222222222222222222222222", "name": "SteveAlt"},
			{"id": "33333333333333333333333333333333", "name": "SteveBuilds"}
		]
	}`, http.StatusOK)

	authenticator := &Yggdrasil{Client: client, Email: "steve@example.com", Password: "hunter2"}
	accounts, err := authenticator.Auth()
	if err != nil {
		t.Fatal(err)
	}

	// one account per linked profile, all sharing the token pair
	if len(accounts) != 3 {
		t.Fatalf("got %d accounts, want 3", len(accounts))
	}
	seen := map[string]bool{}
	for _, account := range accounts {
		if account.AccessToken != "ygg-access" || account.ClientToken != "ygg-client" {
			t.Errorf("account %s has unexpected tokens", account.Name)
		}
		if account.Type != minecraft.AccountTypeYggdrasil {
			t.Errorf("account %s has type %s", account.Name, account.Type)
		}
		if account.Yggdrasil == nil || account.Yggdrasil.Email != "steve@example.com" {
			t.Errorf("account %s is missing the yggdrasil payload", account.Name)
		}
		if seen[account.UUID] {
			t.Errorf("duplicate uuid %s", account.UUID)
		}
		seen[account.UUID] = true
	}
}

func TestYggdrasilWrongCredentials(t *testing.T) {
	client := yggdrasilStub(t, `{"error": "ForbiddenOperationException"}`, http.StatusForbidden)

	authenticator := &Yggdrasil{Client: client, Email: "steve@example.com", Password: "wrong"}
	accounts, err := authenticator.Auth()
	if accounts != nil {
		t.Error("accounts were produced for wrong credentials")
	}

	var authErr *minecraft.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestYggdrasilMissingCredentials(t *testing.T) {
	authenticator := NewYggdrasil("", "", "")
	_, err := authenticator.Auth()

	var configErr *minecraft.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestProgressReporting(t *testing.T) {
	client := yggdrasilStub(t, `{
		"accessToken": "a",
		"clientToken": "c",
		"availableProfiles": [{"id": "1", "name": "Steve"}]
	}`, http.StatusOK)

	authenticator := &Yggdrasil{Client: client, Email: "e", Password: "p"}

	var messages []string
	_, err := authenticator.AuthAsync(context.Background(), func(message string) {
		messages = append(messages, message)
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Signing in with Yggdrasil",
		"Yggdrasil sign-in complete (1 profiles)",
	}
	if !reflect.DeepEqual(messages, want) {
		t.Errorf("messages = %v, want %v", messages, want)
	}
}

func TestPanickingProgressSink(t *testing.T) {
	client := yggdrasilStub(t, `{
		"accessToken": "a",
		"clientToken": "c",
		"availableProfiles": [{"id": "1", "name": "Steve"}]
	}`, http.StatusOK)

	authenticator := &Yggdrasil{Client: client, Email: "e", Password: "p"}
	accounts, err := authenticator.AuthAsync(context.Background(), func(string) {
		panic("broken sink")
	})
	if err != nil {
		t.Fatalf("a panicking sink aborted the login: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
}

func TestMicrosoftRefreshWithoutToken(t *testing.T) {
	authenticator := NewMicrosoftRefresh(microsoft.New(nil, "client-id"), "")
	_, err := authenticator.Auth()

	var configErr *minecraft.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func microsoftChainStub(t *testing.T) *microsoft.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token_type": "Bearer", "access_token": "ms-token", "refresh_token": "new-refresh", "expires_in": 3600}`))
	})
	mux.HandleFunc("/xbl", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token": "xbl-token", "DisplayClaims": {"xui": [{"uhs": "user-hash"}]}}`))
	})
	mux.HandleFunc("/xsts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Token": "xsts-token", "DisplayClaims": {"xui": [{"uhs": "user-hash"}]}}`))
	})
	mux.HandleFunc("/mclogin", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access_token": "mc-token", "token_type": "Bearer", "expires_in": 86400}`))
	})
	mux.HandleFunc("/entitlements", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items": [{"name": "game_minecraft"}]}`))
	})
	mux.HandleFunc("/profile", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "069a79f444e94726a5befca90e38aaf5", "name": "Notch"}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := microsoft.New(server.Client(), "client-id")
	client.Endpoints = microsoft.Endpoints{
		RefreshToken:   server.URL + "/refresh",
		XBLAuth:        server.URL + "/xbl",
		XSTSAuth:       server.URL + "/xsts",
		MinecraftLogin: server.URL + "/mclogin",
		Entitlements:   server.URL + "/entitlements",
		Profile:        server.URL + "/profile",
	}
	return client
}

func TestMicrosoftRefreshProducesAccount(t *testing.T) {
	authenticator := NewMicrosoftRefresh(microsoftChainStub(t), "old-refresh")
	accounts, err := authenticator.Auth()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}

	account := accounts[0]
	if account.Type != minecraft.AccountTypeMicrosoft {
		t.Errorf("Type = %s", account.Type)
	}
	if account.AccessToken != "mc-token" {
		t.Errorf("AccessToken = %q", account.AccessToken)
	}
	if account.Name != "Notch" || account.UUID != "069a79f444e94726a5befca90e38aaf5" {
		t.Errorf("profile = %s / %s", account.Name, account.UUID)
	}
	if account.Microsoft == nil || account.Microsoft.RefreshToken != "new-refresh" {
		t.Error("refresh token was not carried into the account")
	}
	// the stored refresh token rotates on success
	if authenticator.RefreshToken != "new-refresh" {
		t.Errorf("authenticator.RefreshToken = %q", authenticator.RefreshToken)
	}
}

func TestMicrosoftClientTokenStableAcrossRefresh(t *testing.T) {
	authenticator := NewMicrosoftRefresh(microsoftChainStub(t), "old-refresh")

	first, err := authenticator.Auth()
	if err != nil {
		t.Fatal(err)
	}
	second, err := authenticator.Auth()
	if err != nil {
		t.Fatal(err)
	}

	if first[0].ClientToken == "" {
		t.Fatal("empty client token")
	}
	if first[0].ClientToken != second[0].ClientToken {
		t.Errorf("client token changed across refresh: %q != %q", first[0].ClientToken, second[0].ClientToken)
	}
}

func TestUnifiedPassRefreshRoundTrip(t *testing.T) {
	serverID := "b1946ac92492d2347c6235b4d2611184"

	mux := http.NewServeMux()
	mux.HandleFunc("/"+serverID+"/authserver/authenticate", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accessToken": "up-access",
			"clientToken": "up-client",
			"availableProfiles": [{"id": "33333333333333333333333333333333", "name": "Steve"}]
		}`))
	})
	mux.HandleFunc("/"+serverID+"/authserver/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"accessToken": "up-access-2", "clientToken": "up-client"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := unifiedpass.NewWithClient(server.Client(), serverID)
	client.BaseURL = server.URL
	authenticator := &UnifiedPass{Client: client, Username: "steve", Password: "hunter2"}

	accounts, err := authenticator.Auth()
	if err != nil {
		t.Fatal(err)
	}
	account := accounts[0]
	if account.UnifiedPass == nil || account.UnifiedPass.ServerID != serverID {
		t.Fatalf("account is missing the server id: %+v", account)
	}

	refreshed, err := authenticator.RefreshAsync(context.Background(), account)
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.AccessToken == "" || refreshed.AccessToken == account.AccessToken {
		t.Errorf("AccessToken = %q, want a fresh one", refreshed.AccessToken)
	}
	if refreshed.UnifiedPass.ServerID != serverID {
		t.Errorf("ServerID changed: %q", refreshed.UnifiedPass.ServerID)
	}
	if refreshed.ClientToken != account.ClientToken {
		t.Errorf("ClientToken changed: %q", refreshed.ClientToken)
	}
}
