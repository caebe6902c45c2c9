package auth

import (
	"context"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/unifiedpass"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
)

// UnifiedPass authenticates against a Unified-Pass server. The server
// id routes to the tenant and travels with the produced account.
type UnifiedPass struct {
	Client   *unifiedpass.Client
	Username string
	Password string
}

// NewUnifiedPass returns an authenticator for the given server id
func NewUnifiedPass(serverID string, username string, password string) *UnifiedPass {
	return &UnifiedPass{
		Client:   unifiedpass.New(serverID),
		Username: username,
		Password: password,
	}
}

// Auth is the blocking form of AuthAsync
func (u *UnifiedPass) Auth() ([]minecraft.Account, error) {
	return u.AuthAsync(context.Background(), nil)
}

// AuthAsync performs the login. Unified-Pass servers link exactly one
// profile, so the result is a single account.
func (u *UnifiedPass) AuthAsync(ctx context.Context, progress ProgressFunc) ([]minecraft.Account, error) {
	if u.Client.ServerID == "" {
		return nil, &minecraft.ConfigError{Reason: "unified-pass server id is not set"}
	}
	if u.Username == "" || u.Password == "" {
		return nil, &minecraft.ConfigError{Reason: "unified-pass login requires username and password"}
	}

	report(progress, "Signing in with Unified-Pass")
	res, err := u.Client.Authenticate(ctx, u.Username, u.Password)
	if err != nil {
		return nil, err
	}

	profiles := res.Profiles()
	if len(profiles) == 0 {
		return nil, &minecraft.AuthError{Op: "unified-pass authenticate", StatusCode: 200, Raw: []byte("response contains no profiles")}
	}

	report(progress, "Unified-Pass sign-in complete")
	return []minecraft.Account{u.account(res.AccessToken, res.ClientToken, profiles[0])}, nil
}

// RefreshAsync exchanges the account's still registered token pair for
// a new access token. Server id and client token are preserved.
func (u *UnifiedPass) RefreshAsync(ctx context.Context, account minecraft.Account) (*minecraft.Account, error) {
	res, err := u.Client.Refresh(ctx, account.AccessToken, account.ClientToken)
	if err != nil {
		return nil, err
	}

	refreshed := account
	refreshed.AccessToken = res.AccessToken
	if res.ClientToken != "" {
		refreshed.ClientToken = res.ClientToken
	}
	if selected := res.SelectedProfile; selected != nil {
		refreshed.Name = selected.Name
		refreshed.UUID = selected.ID
	}
	return &refreshed, nil
}

// ValidateAsync is an existence check for the token pair
func (u *UnifiedPass) ValidateAsync(ctx context.Context, accessToken string, clientToken string) (bool, error) {
	return u.Client.Validate(ctx, accessToken, clientToken)
}

// SignoutAsync invalidates all sessions of the credential pair
func (u *UnifiedPass) SignoutAsync(ctx context.Context) (bool, error) {
	return u.Client.Signout(ctx, u.Username, u.Password)
}

func (u *UnifiedPass) account(accessToken string, clientToken string, profile yggdrasil.Profile) minecraft.Account {
	return minecraft.Account{
		Type:        minecraft.AccountTypeUnifiedPass,
		AccessToken: accessToken,
		ClientToken: clientToken,
		Name:        profile.Name,
		UUID:        profile.ID,
		UnifiedPass: &minecraft.UnifiedPassData{ServerID: u.Client.ServerID},
	}
}
