package microsoft

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcauth/mcauth/internals/minecraft"
	"golang.org/x/oauth2"
)

// DeviceCodeGrant is a one-shot grant from the devicecode endpoint.
// It is consumed by PollForToken and useless after success, denial or
// expiry – never persist it.
type DeviceCodeGrant struct {
	// DeviceCode is sent with every poll request. Not for display.
	DeviceCode string `json:"device_code"`
	// UserCode is the short code the user types in at VerificationURI
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	// ExpiresIn is the grant lifetime in seconds from issuance
	ExpiresIn int `json:"expires_in"`
	// Interval is the minimum number of seconds between polls
	Interval int `json:"interval"`
	// Message is a ready-made "go to … and enter …" sentence
	Message string `json:"message"`

	issuedAt time.Time
}

// ExpiresAt returns the wall clock deadline of the grant
func (g *DeviceCodeGrant) ExpiresAt() time.Time {
	return g.issuedAt.Add(time.Duration(g.ExpiresIn) * time.Second)
}

type tokenResponse struct {
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	ExpiresIn        int    `json:"expires_in"`
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	IDToken          string `json:"id_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (t *tokenResponse) oauthToken(now time.Time) *oauth2.Token {
	return &oauth2.Token{
		TokenType:    t.TokenType,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       now.Add(time.Duration(t.ExpiresIn) * time.Second),
	}
}

// RequestDeviceCode asks the identity provider for a new device code.
// This is a single call – a failure here is terminal for the attempt.
func (c *Client) RequestDeviceCode(ctx context.Context) (*DeviceCodeGrant, error) {
	if c.ClientID == "" {
		return nil, &minecraft.ConfigError{Reason: "client id is not set"}
	}

	form := url.Values{
		"client_id": {c.ClientID},
		"tenant":    {"/" + c.Tenant},
		"scope":     {strings.Join(c.Scopes, " ")},
	}
	res, err := c.postForm(ctx, c.Endpoints.DeviceCode, form)
	if err != nil {
		return nil, err
	}
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "device code request", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: "device code request", StatusCode: res.StatusCode, Raw: body}
	}

	grant := DeviceCodeGrant{}
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, &minecraft.AuthError{Op: "device code request", StatusCode: res.StatusCode, Raw: body}
	}
	if grant.DeviceCode == "" {
		return nil, &minecraft.AuthError{Op: "device code request", StatusCode: res.StatusCode, Raw: body}
	}
	grant.issuedAt = c.now()
	return &grant, nil
}

// PollForToken polls the token endpoint until the user completed the
// browser step, the grant expired or the context got canceled.
//
// The loop strictly honors the server supplied interval – no backoff.
// Device code flows are user paced (the user has to finish a browser
// step), so a fixed interval bounded by the server declared expiry is
// both correct and simple. Any well-formed non-bearer response
// (authorization_pending, slow_down, access_denied) keeps the loop
// going; only transport failures abort it early.
func (c *Client) PollForToken(ctx context.Context, grant *DeviceCodeGrant) (*oauth2.Token, error) {
	if c.ClientID == "" {
		return nil, &minecraft.ConfigError{Reason: "client id is not set"}
	}
	if grant == nil || grant.DeviceCode == "" {
		return nil, &minecraft.ConfigError{Reason: "no device code grant"}
	}

	interval := time.Duration(grant.Interval) * time.Second
	if grant.issuedAt.IsZero() {
		grant.issuedAt = c.now()
	}
	deadline := grant.ExpiresAt()

	form := url.Values{
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		"device_code": {grant.DeviceCode},
		"client_id":   {c.ClientID},
		"tenant":      {"/" + c.Tenant},
	}

	polls := 0
	for remaining := deadline.Sub(c.now()); remaining > 0; remaining = deadline.Sub(c.now()) {
		res, err := c.postForm(ctx, c.Endpoints.Token, form)
		if err != nil {
			return nil, err
		}
		body, err := readBody(res)
		if err != nil {
			return nil, &minecraft.TransportError{Op: "device code poll", Err: err}
		}
		polls++

		tokenRes := tokenResponse{}
		if err := json.Unmarshal(body, &tokenRes); err != nil {
			return nil, &minecraft.AuthError{Op: "device code poll", StatusCode: res.StatusCode, Raw: body}
		}

		if tokenRes.TokenType == "Bearer" {
			token := tokenRes.oauthToken(c.now())
			c.Token = token
			return token, nil
		}

		// authorization still pending (or denied) – poll again until
		// the grant expires
		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}

	return nil, &minecraft.TimeoutError{Polls: polls}
}
