// Package microsoft drives the Microsoft side of a Minecraft login:
// the OAuth2 device-code flow and the token exchange chain that turns
// the resulting bearer token into a playable session
// (XBL → XSTS → Minecraft services → entitlement → profile).
package microsoft

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mcauth/mcauth/internals/minecraft"
	"golang.org/x/oauth2"
)

const (
	DEVICE_CODE_URL    = "https://login.microsoftonline.com/consumers/oauth2/v2.0/devicecode"
	TOKEN_URL          = "https://login.microsoftonline.com/consumers/oauth2/v2.0/token"
	REFRESH_TOKEN_URL  = "https://login.live.com/oauth20_token.srf"
	XBL_AUTHENTICATE   = "https://user.auth.xboxlive.com/user/authenticate"
	XBL_XSTS_AUTHORIZE = "https://xsts.auth.xboxlive.com/xsts/authorize"
	MC_API_XBOX_LOGIN  = "https://api.minecraftservices.com/authentication/login_with_xbox"
	MC_API_ENTITLEMENT = "https://api.minecraftservices.com/entitlements/mcstore"
	MC_API_PROFILE     = "https://api.minecraftservices.com/minecraft/profile"
)

// Endpoints are the remote urls the client talks to. They only deviate
// from the defaults in tests.
type Endpoints struct {
	DeviceCode     string
	Token          string
	RefreshToken   string
	XBLAuth        string
	XSTSAuth       string
	MinecraftLogin string
	Entitlements   string
	Profile        string
}

// DefaultEndpoints returns the production endpoints
func DefaultEndpoints() Endpoints {
	return Endpoints{
		DeviceCode:     DEVICE_CODE_URL,
		Token:          TOKEN_URL,
		RefreshToken:   REFRESH_TOKEN_URL,
		XBLAuth:        XBL_AUTHENTICATE,
		XSTSAuth:       XBL_XSTS_AUTHORIZE,
		MinecraftLogin: MC_API_XBOX_LOGIN,
		Entitlements:   MC_API_ENTITLEMENT,
		Profile:        MC_API_PROFILE,
	}
}

// Client exchanges Microsoft credentials for Minecraft ones.
// One Client serves one login attempt at a time – concurrent reuse
// is not supported.
type Client struct {
	*http.Client
	// xblClient is a separate client because we need the horrifying
	// Renegotiation option for the xboxlive endpoints (see `New`)
	xblClient *http.Client

	ClientID  string
	Tenant    string
	Scopes    []string
	Endpoints Endpoints

	// Token is the current Microsoft OAuth token (the chain input)
	Token *oauth2.Token

	// overridable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a Client for the given OAuth app client id
func New(httpClient *http.Client, clientID string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	// shallow copy the http client so we don't modify the original
	lessSecureClient := *httpClient
	// we need this cause MS API
	// https://stackoverflow.com/questions/57420833/tls-no-renegotiation-error-on-http-request
	lessSecureClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{Renegotiation: tls.RenegotiateOnceAsClient},
	}

	return &Client{
		Client:    httpClient,
		xblClient: &lessSecureClient,
		ClientID:  clientID,
		Tenant:    "consumers",
		Scopes:    []string{"XboxLive.signin", "offline_access"},
		Endpoints: DefaultEndpoints(),
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// Credentials is everything a successful chain run produces
type Credentials struct {
	MicrosoftAuth    oauth2.Token
	MinecraftAuth    *XboxLoginResponse
	MinecraftProfile *GetProfileResponse
	ExpiresAt        time.Time
}

func (c *Credentials) GetAccessToken() string { return c.MinecraftAuth.AccessToken }
func (c *Credentials) GetPlayerName() string  { return c.MinecraftProfile.Name }
func (c *Credentials) GetUUID() string        { return c.MinecraftProfile.ID }

func (c *Credentials) IsExpired() bool {
	// add a minute to the current time for clock skew and stuff
	return c.ExpiresAt.Before(time.Now().Add(time.Minute))
}

// GetMinecraftCredentials runs the token exchange chain with the
// currently set Token. The hops are strictly sequential, each needs the
// previous one's output; the first failing hop aborts the rest.
// report (may be nil) receives one human readable message per hop.
func (c *Client) GetMinecraftCredentials(ctx context.Context, report func(string)) (*Credentials, error) {
	if c.Token == nil || c.Token.AccessToken == "" {
		return nil, &minecraft.ConfigError{Reason: "no bearer token set, sign in first"}
	}

	// 1. Authenticate with XBL
	progress(report, "Requesting Xbox Live token")
	xblAuth, err := c.xblAuth(ctx, c.Token.AccessToken)
	if err != nil {
		return nil, err
	}

	// 2. Get XSTS token
	progress(report, "Requesting XSTS token")
	xstsAuth, err := c.xstsAuth(ctx, xblAuth.Token)
	if err != nil {
		return nil, err
	}
	if len(xstsAuth.DisplayClaims.Xui) == 0 {
		return nil, &minecraft.AuthError{Op: "XSTS auth", StatusCode: http.StatusOK, Raw: []byte("response contains no XUI claim")}
	}
	userHash := xstsAuth.DisplayClaims.Xui[0].Uhs

	// 3. Get Minecraft token
	progress(report, "Signing in to Minecraft services")
	minecraftAuth, err := c.loginWithXbox(ctx, userHash, xstsAuth.Token)
	if err != nil {
		return nil, err
	}

	// 4. Check game ownership
	progress(report, "Checking game ownership")
	if err := c.checkEntitlements(ctx, minecraftAuth.AccessToken); err != nil {
		return nil, err
	}

	// 5. Get Minecraft profile
	progress(report, "Fetching player profile")
	profile, err := c.getProfile(ctx, minecraftAuth.AccessToken)
	if err != nil {
		return nil, err
	}

	return &Credentials{
		MicrosoftAuth:    *c.Token,
		MinecraftAuth:    minecraftAuth,
		MinecraftProfile: profile,
		ExpiresAt:        c.now().Add(time.Duration(minecraftAuth.ExpiresIn) * time.Second),
	}, nil
}

// RefreshAccessToken exchanges a refresh token for a fresh Microsoft
// bearer token and sets it as the chain input
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, &minecraft.ConfigError{Reason: "no refresh token set"}
	}
	if c.ClientID == "" {
		return nil, &minecraft.ConfigError{Reason: "client id is not set"}
	}

	form := url.Values{
		"client_id":     {c.ClientID},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}
	res, err := c.postForm(ctx, c.Endpoints.RefreshToken, form)
	if err != nil {
		return nil, err
	}
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "token refresh", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: "token refresh", StatusCode: res.StatusCode, Raw: body}
	}

	tokenRes := tokenResponse{}
	if err := json.Unmarshal(body, &tokenRes); err != nil {
		return nil, &minecraft.AuthError{Op: "token refresh", StatusCode: res.StatusCode, Raw: body}
	}
	if tokenRes.AccessToken == "" {
		return nil, &minecraft.AuthError{Op: "token refresh", StatusCode: res.StatusCode, Raw: body}
	}

	token := tokenRes.oauthToken(c.now())
	c.Token = token
	return token, nil
}

// progress reports a chain step. A nil or panicking sink must never
// abort an otherwise successful login.
func progress(report func(string), message string) {
	if report == nil {
		return
	}
	defer func() { _ = recover() }()
	report(message)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	res, err := c.Do(req)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "POST " + endpoint, Err: err}
	}
	return res, nil
}

func (c *Client) postJSON(ctx context.Context, client *http.Client, endpoint string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := client.Do(req)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "POST " + endpoint, Err: err}
	}
	return res, nil
}

func (c *Client) getWithAuth(ctx context.Context, endpoint string, token string) (*http.Response, error) {
	if token == "" {
		return nil, &minecraft.ConfigError{Reason: "no token provided"}
	}
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := c.Do(req)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "GET " + endpoint, Err: err}
	}
	return res, nil
}

func readBody(res *http.Response) ([]byte, error) {
	defer res.Body.Close()
	return ioutil.ReadAll(res.Body)
}
