package microsoft

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mcauth/mcauth/internals/minecraft"
)

type xblAuthRequest struct {
	Properties   xblAuthProperties `json:"Properties"`
	RelyingParty string            `json:"RelyingParty"`
	TokenType    string            `json:"TokenType"`
}

type xblAuthProperties struct {
	AuthMethod string `json:"AuthMethod"`
	SiteName   string `json:"SiteName"`
	RpsTicket  string `json:"RpsTicket"`
}

type xstsAuthRequest struct {
	Properties   xstsAuthProperties `json:"Properties"`
	RelyingParty string             `json:"RelyingParty"`
	TokenType    string             `json:"TokenType"`
}

type xstsAuthProperties struct {
	SandboxID  string   `json:"SandboxId"`
	UserTokens []string `json:"UserTokens"`
}

type xblAuthResponse struct {
	IssueInstant  time.Time `json:"IssueInstant"`
	NotAfter      time.Time `json:"NotAfter"`
	Token         string    `json:"Token"`
	DisplayClaims struct {
		Xui []struct {
			Uhs string `json:"uhs"`
		} `json:"xui"`
	} `json:"DisplayClaims"`
}

// xblAuth exchanges the Microsoft bearer token for an Xbox Live ticket
func (c *Client) xblAuth(ctx context.Context, token string) (*xblAuthResponse, error) {
	payload := xblAuthRequest{
		Properties: xblAuthProperties{
			AuthMethod: "RPS",
			SiteName:   "user.auth.xboxlive.com",
			RpsTicket:  "d=" + token,
		},
		RelyingParty: "http://auth.xboxlive.com",
		TokenType:    "JWT",
	}
	res, err := c.postJSON(ctx, c.xblClient, c.Endpoints.XBLAuth, payload)
	if err != nil {
		return nil, err
	}
	return parseXblResponse(res, "XBL auth")
}

// xstsAuth exchanges the Xbox Live ticket for a security token scoped
// to the minecraftservices audience
func (c *Client) xstsAuth(ctx context.Context, xblToken string) (*xblAuthResponse, error) {
	payload := xstsAuthRequest{
		Properties: xstsAuthProperties{
			SandboxID:  "RETAIL",
			UserTokens: []string{xblToken},
		},
		RelyingParty: "rp://api.minecraftservices.com/",
		TokenType:    "JWT",
	}
	res, err := c.postJSON(ctx, c.xblClient, c.Endpoints.XSTSAuth, payload)
	if err != nil {
		return nil, err
	}
	return parseXblResponse(res, "XSTS auth")
}

func parseXblResponse(res *http.Response, op string) (*xblAuthResponse, error) {
	body, err := readBody(res)
	if err != nil {
		return nil, &minecraft.TransportError{Op: op, Err: err}
	}
	// error bodies carry an XErr code and message, keep them raw for
	// the caller
	if res.StatusCode != http.StatusOK {
		return nil, &minecraft.AuthError{Op: op, StatusCode: res.StatusCode, Raw: body}
	}

	authResponse := xblAuthResponse{}
	if err := json.Unmarshal(body, &authResponse); err != nil || authResponse.Token == "" {
		return nil, &minecraft.AuthError{Op: op, StatusCode: res.StatusCode, Raw: body}
	}
	return &authResponse, nil
}
