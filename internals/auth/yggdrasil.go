package auth

import (
	"context"
	"fmt"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
)

// Yggdrasil authenticates against a yggdrasil-protocol server with
// email and password. One credential pair may be linked to several
// in-game profiles, so a login can return more than one account.
type Yggdrasil struct {
	Client   *yggdrasil.Client
	Email    string
	Password string

	clientToken string
}

// NewYggdrasil returns an authenticator for the given server.
// An empty serverURL means Mojang's authentication server.
func NewYggdrasil(serverURL string, email string, password string) *Yggdrasil {
	return &Yggdrasil{
		Client:   &yggdrasil.Client{ServerURL: serverURL},
		Email:    email,
		Password: password,
	}
}

// NewLittleSkin returns an authenticator for the LittleSkin server
func NewLittleSkin(email string, password string) *Yggdrasil {
	return NewYggdrasil(yggdrasil.LittleSkinServerURL, email, password)
}

// Auth is the blocking form of AuthAsync
func (y *Yggdrasil) Auth() ([]minecraft.Account, error) {
	return y.AuthAsync(context.Background(), nil)
}

// AuthAsync performs the login and returns one account per linked
// profile. All returned accounts share the access and client token,
// the caller has to pick one profile to play with.
func (y *Yggdrasil) AuthAsync(ctx context.Context, progress ProgressFunc) ([]minecraft.Account, error) {
	if y.Email == "" || y.Password == "" {
		return nil, &minecraft.ConfigError{Reason: "yggdrasil login requires email and password"}
	}

	report(progress, "Signing in with Yggdrasil")
	if y.clientToken == "" {
		y.clientToken = newClientToken()
	}

	res, err := y.Client.Authenticate(ctx, y.Email, y.Password, y.clientToken)
	if err != nil {
		return nil, err
	}

	profiles := res.Profiles()
	if len(profiles) == 0 {
		return nil, &minecraft.AuthError{Op: "yggdrasil authenticate", StatusCode: 200, Raw: []byte("response contains no profiles")}
	}

	accounts := make([]minecraft.Account, 0, len(profiles))
	for _, profile := range profiles {
		accounts = append(accounts, minecraft.Account{
			Type:        minecraft.AccountTypeYggdrasil,
			AccessToken: res.AccessToken,
			ClientToken: res.ClientToken,
			Name:        profile.Name,
			UUID:        profile.ID,
			Yggdrasil: &minecraft.YggdrasilData{
				ServerURL: y.Client.ServerURL,
				Email:     y.Email,
				Password:  y.Password,
			},
		})
	}

	report(progress, fmt.Sprintf("Yggdrasil sign-in complete (%d profiles)", len(accounts)))
	return accounts, nil
}

// ValidateAsync reports whether the access token is still usable on
// the same server
func (y *Yggdrasil) ValidateAsync(ctx context.Context, accessToken string) (bool, error) {
	return y.Client.Validate(ctx, accessToken, y.clientToken)
}
