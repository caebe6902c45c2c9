// Package unifiedpass talks the Unified-Pass variant of the yggdrasil
// protocol: a fixed base url with a 32 char server id route segment
// selecting the tenant.
package unifiedpass

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
)

// BaseAPI is the fixed Unified-Pass endpoint root
const BaseAPI = "https://auth.mc-user.com:233/"

// Client talks to one Unified-Pass tenant
type Client struct {
	// HTTP is the internal http client
	HTTP *http.Client
	// BaseURL defaults to BaseAPI, overridable for tests
	BaseURL string
	// ServerID is the 32 char id of the backing server
	ServerID string
}

// New returns a Client for the given server id
func New(serverID string) *Client {
	return &Client{HTTP: http.DefaultClient, ServerID: serverID}
}

// NewWithClient returns a Client using a custom http client
func NewWithClient(httpClient *http.Client, serverID string) *Client {
	return &Client{HTTP: httpClient, ServerID: serverID}
}

// Authenticate performs the username/password login. The wire format
// is yggdrasil's, only the routing differs – the server picks the
// client token, so an empty one is sent.
func (c *Client) Authenticate(ctx context.Context, username string, password string) (*yggdrasil.AuthResponse, error) {
	payload := struct {
		Agent struct {
			Name    string `json:"name"`
			Version uint8  `json:"version"`
		} `json:"agent"`
		Username    string `json:"username"`
		Password    string `json:"password"`
		ClientToken string `json:"clientToken"`
		RequestUser bool   `json:"requestUser"`
	}{}
	payload.Agent.Name = "Minecraft"
	payload.Agent.Version = 1
	payload.Username = username
	payload.Password = password
	payload.RequestUser = true

	return c.tokenRequest(ctx, "authenticate", payload)
}

// Refresh exchanges a still registered access/client token pair for a
// new access token, preserving server and account identity
func (c *Client) Refresh(ctx context.Context, accessToken string, clientToken string) (*yggdrasil.AuthResponse, error) {
	payload := struct {
		AccessToken string `json:"accessToken"`
		ClientToken string `json:"clientToken"`
	}{accessToken, clientToken}
	return c.tokenRequest(ctx, "refresh", payload)
}

// Validate is an existence check for the token pair. The answer comes
// from the HTTP status alone, the body is not parsed.
func (c *Client) Validate(ctx context.Context, accessToken string, clientToken string) (bool, error) {
	payload := struct {
		AccessToken string `json:"accessToken"`
		ClientToken string `json:"clientToken"`
	}{accessToken, clientToken}
	return c.statusRequest(ctx, "validate", payload)
}

// Signout invalidates all sessions of the credential pair
func (c *Client) Signout(ctx context.Context, username string, password string) (bool, error) {
	payload := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password}
	return c.statusRequest(ctx, "signout", payload)
}

func (c *Client) tokenRequest(ctx context.Context, route string, payload interface{}) (*yggdrasil.AuthResponse, error) {
	op := "unified-pass " + route
	res, err := c.postJSON(ctx, route, payload)
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

	authRes := yggdrasil.AuthResponse{}
	if err := json.Unmarshal(body, &authRes); err != nil || authRes.AccessToken == "" {
		return nil, &minecraft.AuthError{Op: op, StatusCode: res.StatusCode, Raw: body}
	}
	return &authRes, nil
}

func (c *Client) statusRequest(ctx context.Context, route string, payload interface{}) (bool, error) {
	res, err := c.postJSON(ctx, route, payload)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	return res.StatusCode >= 200 && res.StatusCode < 300, nil
}

func (c *Client) endpoint(route string) (string, error) {
	if c.ServerID == "" {
		return "", &minecraft.ConfigError{Reason: "unified-pass server id is not set"}
	}
	base := c.BaseURL
	if base == "" {
		base = BaseAPI
	}
	return strings.TrimSuffix(base, "/") + "/" + c.ServerID + "/authserver/" + route, nil
}

func (c *Client) postJSON(ctx context.Context, route string, payload interface{}) (*http.Response, error) {
	url, err := c.endpoint(route)
	if err != nil {
		return nil, err
	}
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
