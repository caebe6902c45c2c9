// Package minecraft holds the account model shared by all authenticators
// and the error taxonomy of the credential-exchange pipeline.
package minecraft

import "time"

// AccountType tags which protocol produced an Account
type AccountType string

const (
	// AccountTypeMicrosoft is a microsoft (msa) account
	AccountTypeMicrosoft AccountType = "Microsoft"
	// AccountTypeYggdrasil is an account from a yggdrasil-protocol server
	AccountTypeYggdrasil AccountType = "Yggdrasil"
	// AccountTypeUnifiedPass is an account from a unified-pass server
	AccountTypeUnifiedPass AccountType = "UnifiedPass"
)

// Account is an authenticated game identity. The shared fields are always
// set, exactly one of the variant payloads (matching Type) is non-nil.
type Account struct {
	Type AccountType `json:"type"`
	// AccessToken is the session bearer token used to launch the game
	AccessToken string `json:"accessToken"`
	// ClientToken is a client-chosen correlation id. It stays stable
	// across token refreshes of the same logical session
	ClientToken string `json:"clientToken"`
	// Name is the in-game player name
	Name string `json:"name"`
	// UUID is the game profile id (32 hex chars, no dashes)
	UUID string `json:"uuid"`

	Microsoft   *MicrosoftData   `json:"microsoft,omitempty"`
	Yggdrasil   *YggdrasilData   `json:"yggdrasil,omitempty"`
	UnifiedPass *UnifiedPassData `json:"unifiedPass,omitempty"`
}

// MicrosoftData is the microsoft-only part of an Account
type MicrosoftData struct {
	// RefreshToken allows re-entry into the token exchange chain
	// without user interaction
	RefreshToken string `json:"refreshToken"`
	// AcquiredAt is the time the session token was obtained
	AcquiredAt time.Time `json:"acquiredAt"`
}

// YggdrasilData is the yggdrasil-only part of an Account.
// Email and password are retained because the protocol has no usable
// refresh primitive on servers that omit it – re-authentication is the
// only way back in.
type YggdrasilData struct {
	ServerURL string `json:"serverUrl"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UnifiedPassData is the unified-pass-only part of an Account
type UnifiedPassData struct {
	// ServerID is the 32 char route segment identifying the backing server
	ServerID string `json:"serverId"`
}

// GetAccessToken returns the access token (strictly required to launch)
func (a *Account) GetAccessToken() string { return a.AccessToken }

// GetUUID returns the users UUID (strictly required to launch)
func (a *Account) GetUUID() string { return a.UUID }

// GetPlayerName returns the in-game player name
func (a *Account) GetPlayerName() string { return a.Name }

// GetUserType returns the launcher user type ("msa" or "mojang")
func (a *Account) GetUserType() string {
	if a.Type == AccountTypeMicrosoft {
		return "msa"
	}
	return "mojang"
}
