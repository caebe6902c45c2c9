package microsoft

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/mcauth/mcauth/internals/minecraft"
)

// XboxLoginResponse is the answer of the login_with_xbox endpoint
type XboxLoginResponse struct {
	// Username is not the Minecraft username!
	Username string        `json:"username"`
	Roles    []interface{} `json:"roles"`
	// AccessToken should be used for all future requests
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// GetProfileResponse is the players profile (the Name also appears in game)
type GetProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Skins []struct {
		ID      string `json:"id"`
		State   string `json:"state"`
		URL     string `json:"url"`
		Variant string `json:"variant"`
		Alias   string `json:"alias"`
	} `json:"skins"`
	Capes []interface{} `json:"capes"`
}

type entitlementsResponse struct {
	Items []struct {
		Name      string `json:"name"`
		Signature string `json:"signature"`
	} `json:"items"`
	Signature string `json:"signature"`
	KeyID     string `json:"keyId"`
}

// loginWithXbox trades the user hash and XSTS token for a Minecraft
// session token. The composite identity credential is the only place
// both values meet.
func (c *Client) loginWithXbox(ctx context.Context, userHash string, xstsToken string) (*XboxLoginResponse, error) {
	payload := struct {
		IdentityToken string `json:"identityToken"`
	}{fmt.Sprintf("XBL3.0 x=%s;%s", userHash, xstsToken)}

	res, err := c.postJSON(ctx, c.Client, c.Endpoints.MinecraftLogin, payload)
	if err != nil {
		return nil, err
	}
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "minecraft login", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: "minecraft login", StatusCode: res.StatusCode, Raw: body}
	}

	authRes := XboxLoginResponse{}
	if err := json.Unmarshal(body, &authRes); err != nil || authRes.AccessToken == "" {
		return nil, &minecraft.AuthError{Op: "minecraft login", StatusCode: res.StatusCode, Raw: body}
	}
	return &authRes, nil
}

// checkEntitlements queries game ownership. The check fails open: some
// valid accounts (gamepass, migration edge cases) return an empty but
// successful entitlement document, and a network hiccup here should not
// block an otherwise working login. Only an authoritative non-success
// answer counts as "does not own the game".
func (c *Client) checkEntitlements(ctx context.Context, token string) error {
	res, err := c.getWithAuth(ctx, c.Endpoints.Entitlements, token)
	if err != nil {
		log.Printf("entitlement check did not complete, continuing anyway: %v", err)
		return nil
	}
	body, err := readBody(res)
	if err != nil {
		log.Printf("entitlement check did not complete, continuing anyway: %v", err)
		return nil
	}

	if res.StatusCode != http.StatusOK {
		return &minecraft.EntitlementError{}
	}

	// the item list is not authoritative – an empty but successful
	// document still counts as entitled
	entitlements := entitlementsResponse{}
	if err := json.Unmarshal(body, &entitlements); err != nil {
		log.Printf("could not parse entitlement document, continuing anyway: %v", err)
	}
	return nil
}

func (c *Client) getProfile(ctx context.Context, token string) (*GetProfileResponse, error) {
	res, err := c.getWithAuth(ctx, c.Endpoints.Profile, token)
	if err != nil {
		return nil, err
	}
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: "profile fetch", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: "profile fetch", StatusCode: res.StatusCode, Raw: body}
	}

	profile := GetProfileResponse{}
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &minecraft.AuthError{Op: "profile fetch", StatusCode: res.StatusCode, Raw: body}
	}
	return &profile, nil
}
