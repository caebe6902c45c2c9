package cmd

import (
	"context"

	"github.com/mcauth/mcauth/internals/auth"
	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/microsoft"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
	"github.com/mcauth/mcauth/internals/ownhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the session tokens of all stored accounts",
	Run: func(cmd *cobra.Command, args []string) {
		refreshAccounts()
	},
}

func refreshAccounts() {
	if len(credStore.Accounts) == 0 {
		logger.Fail("No stored accounts. Run mcauth login first.")
	}

	ctx := context.Background()
	for _, account := range credStore.Accounts {
		refreshed, err := refreshAccount(ctx, account)
		if err != nil {
			logger.Warn("Could not refresh " + account.Name + ": " + err.Error())
			continue
		}
		if err := credStore.Set(*refreshed); err != nil {
			logger.Warn("Could not save " + refreshed.Name + ": " + err.Error())
			continue
		}
		logger.Info("Refreshed " + refreshed.Name)
	}
}

func refreshAccount(ctx context.Context, account minecraft.Account) (*minecraft.Account, error) {
	if err := checkPayload(account); err != nil {
		return nil, err
	}

	switch account.Type {
	case minecraft.AccountTypeMicrosoft:
		client := microsoft.New(ownhttp.NewThrottled(2), viper.GetString("client-id"))
		authenticator := auth.NewMicrosoftRefresh(client, account.Microsoft.RefreshToken)
		accounts, err := authenticator.AuthAsync(ctx, nil)
		if err != nil {
			return nil, err
		}
		refreshed := accounts[0]
		// keep the correlation id of the stored session
		refreshed.ClientToken = account.ClientToken
		return &refreshed, nil

	case minecraft.AccountTypeYggdrasil:
		// try the cheap path first: keep or refresh the registered
		// token pair without bothering the user's credentials
		client := &yggdrasil.Client{ServerURL: account.Yggdrasil.ServerURL}
		if res, err := client.EnsureToken(ctx, account.AccessToken, account.ClientToken); err == nil {
			refreshed := account
			refreshed.AccessToken = res.AccessToken
			if res.ClientToken != "" {
				refreshed.ClientToken = res.ClientToken
			}
			return &refreshed, nil
		}

		// the token pair is no longer registered, re-authenticate with
		// the retained credentials
		authenticator := auth.NewYggdrasil(
			account.Yggdrasil.ServerURL,
			account.Yggdrasil.Email,
			account.Yggdrasil.Password,
		)
		accounts, err := authenticator.AuthAsync(ctx, nil)
		if err != nil {
			return nil, err
		}
		for _, candidate := range accounts {
			if candidate.UUID == account.UUID {
				return &candidate, nil
			}
		}
		return &accounts[0], nil

	case minecraft.AccountTypeUnifiedPass:
		authenticator := auth.NewUnifiedPass(account.UnifiedPass.ServerID, "", "")
		return authenticator.RefreshAsync(ctx, account)
	}

	return nil, &minecraft.ConfigError{Reason: "unknown account type " + string(account.Type)}
}
