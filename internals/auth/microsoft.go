package auth

import (
	"context"
	"time"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/microsoft"
)

// Mode selects how the Microsoft authenticator enters the token
// exchange chain
type Mode string

const (
	// ModeAccess starts the chain with a bearer token already obtained
	// (eg. through the device code flow)
	ModeAccess Mode = "access"
	// ModeRefresh first exchanges a stored refresh token for a fresh
	// bearer token, then runs the chain
	ModeRefresh Mode = "refresh"
)

// Microsoft authenticates a Microsoft account through the Xbox token
// exchange chain. One instance serves one logical session; concurrent
// use for two logins at once is not supported.
type Microsoft struct {
	Client *microsoft.Client
	Mode   Mode
	// RefreshToken is only consulted in ModeRefresh. It is updated
	// together with clientToken after a fully successful chain run.
	RefreshToken string

	clientToken string
}

// NewMicrosoft returns an authenticator that expects the Client to
// already hold a bearer token
func NewMicrosoft(client *microsoft.Client) *Microsoft {
	return &Microsoft{Client: client, Mode: ModeAccess}
}

// NewMicrosoftRefresh returns an authenticator that re-enters the
// chain with a stored refresh token
func NewMicrosoftRefresh(client *microsoft.Client, refreshToken string) *Microsoft {
	return &Microsoft{Client: client, Mode: ModeRefresh, RefreshToken: refreshToken}
}

// Auth is the blocking form of AuthAsync
func (m *Microsoft) Auth() ([]minecraft.Account, error) {
	return m.AuthAsync(context.Background(), nil)
}

// AuthAsync runs the refresh exchange (in ModeRefresh) and the token
// exchange chain, producing exactly one account
func (m *Microsoft) AuthAsync(ctx context.Context, progress ProgressFunc) ([]minecraft.Account, error) {
	if m.Mode == ModeRefresh {
		// a missing refresh token can not produce anything useful
		// down the chain, fail right here
		if m.RefreshToken == "" {
			return nil, &minecraft.ConfigError{Reason: "refresh requires a stored refresh token"}
		}
		report(progress, "Refreshing access token")
		if _, err := m.Client.RefreshAccessToken(ctx, m.RefreshToken); err != nil {
			return nil, err
		}
	}

	creds, err := m.Client.GetMinecraftCredentials(ctx, func(message string) {
		report(progress, message)
	})
	if err != nil {
		return nil, err
	}

	// the client token stays stable across refreshes of this session
	if m.clientToken == "" {
		m.clientToken = newClientToken()
	}
	m.RefreshToken = creds.MicrosoftAuth.RefreshToken

	report(progress, "Microsoft sign-in complete")
	return []minecraft.Account{{
		Type:        minecraft.AccountTypeMicrosoft,
		AccessToken: creds.MinecraftAuth.AccessToken,
		ClientToken: m.clientToken,
		Name:        creds.MinecraftProfile.Name,
		UUID:        creds.MinecraftProfile.ID,
		Microsoft: &minecraft.MicrosoftData{
			RefreshToken: creds.MicrosoftAuth.RefreshToken,
			AcquiredAt:   time.Now(),
		},
	}}, nil
}
