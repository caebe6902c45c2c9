// Package yggdrasil talks the classic username/password authentication
// server protocol, against Mojang's (gone but not forgotten) server or
// any third party server implementing it.
package yggdrasil

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/mcauth/mcauth/internals/minecraft"
)

const (
	// DefaultServerURL is Mojang's authentication server
	DefaultServerURL = "https://authserver.mojang.com"
	// LittleSkinServerURL is the well-known LittleSkin yggdrasil root
	LittleSkinServerURL = "https://littleskin.cn/api/yggdrasil"
)

// Client talks to one yggdrasil authentication server
type Client struct {
	// HTTP is the internal http client
	HTTP *http.Client
	// ServerURL is the server root. Empty means Mojang's server.
	// Third party servers get the /authserver prefix, Mojang does not.
	ServerURL string
}

// New returns a Client for the Mojang authentication server
func New() *Client {
	return &Client{HTTP: http.DefaultClient}
}

// NewWithClient returns a Client for a custom server using a custom
// http client
func NewWithClient(httpClient *http.Client, serverURL string) *Client {
	return &Client{
		HTTP:      httpClient,
		ServerURL: strings.TrimSuffix(serverURL, "/"),
	}
}

// Authenticate performs the username/password login. The response may
// list multiple in-game profiles linked to one credential pair.
func (c *Client) Authenticate(ctx context.Context, username string, password string, clientToken string) (*AuthResponse, error) {
	payload := authenticateRequest{
		Agent:       defaultAgent,
		Username:    username,
		Password:    password,
		ClientToken: clientToken,
		RequestUser: true,
	}
	return c.tokenRequest(ctx, "authenticate", payload)
}

// Refresh exchanges a still registered access/client token pair for a
// fresh access token
func (c *Client) Refresh(ctx context.Context, accessToken string, clientToken string) (*AuthResponse, error) {
	payload := tokenPairRequest{AccessToken: accessToken, ClientToken: clientToken}
	return c.tokenRequest(ctx, "refresh", payload)
}

// Validate reports whether the access token is still usable. The
// answer comes from the HTTP status alone, the body is not parsed.
func (c *Client) Validate(ctx context.Context, accessToken string, clientToken string) (bool, error) {
	payload := tokenPairRequest{AccessToken: accessToken, ClientToken: clientToken}
	res, err := c.postJSON(ctx, c.endpoint("validate"), payload)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	return res.StatusCode >= 200 && res.StatusCode < 300, nil
}

// Signout invalidates all sessions of the credential pair. Status-only
// result, like Validate.
func (c *Client) Signout(ctx context.Context, username string, password string) (bool, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}
	res, err := c.postJSON(ctx, c.endpoint("signout"), payload)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	return res.StatusCode >= 200 && res.StatusCode < 300, nil
}

// EnsureToken validates the given token pair and refreshes it if the
// server no longer accepts it
func (c *Client) EnsureToken(ctx context.Context, accessToken string, clientToken string) (*AuthResponse, error) {
	ok, _ := c.Validate(ctx, accessToken, clientToken)
	if ok {
		return &AuthResponse{AccessToken: accessToken, ClientToken: clientToken}, nil
	}
	return c.Refresh(ctx, accessToken, clientToken)
}

// tokenRequest runs one of the token-returning operations. Wrong
// credentials are terminal – retrying risks an account lockout, so the
// raw response is handed to the caller instead.
func (c *Client) tokenRequest(ctx context.Context, route string, payload interface{}) (*AuthResponse, error) {
	op := "yggdrasil " + route
	res, err := c.postJSON(ctx, c.endpoint(route), payload)
	if err != nil {
		return nil, err
	}
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: op, Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: op, StatusCode: res.StatusCode, Raw: body}
	}

	authRes := AuthResponse{}
	if err := json.Unmarshal(body, &authRes); err != nil || authRes.AccessToken == "" {
		return nil, &minecraft.AuthError{Op: op, StatusCode: res.StatusCode, Raw: body}
	}
	return &authRes, nil
}

func (c *Client) endpoint(route string) string {
	if c.ServerURL == "" {
		return DefaultServerURL + "/" + route
	}
	return strings.TrimSuffix(c.ServerURL, "/") + "/authserver/" + route
}

func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "POST " + url, Err: err}
	}
	return res, nil
}

func readBody(res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}
