package cmd

import (
	"context"
	"time"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/microsoft"
	"github.com/mcauth/mcauth/internals/minecraft/unifiedpass"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check which stored accounts still have a usable session",
	Run: func(cmd *cobra.Command, args []string) {
		validateAccounts()
	},
}

func validateAccounts() {
	if len(credStore.Accounts) == 0 {
		logger.Fail("No stored accounts. Run mcauth login first.")
	}

	ctx := context.Background()
	for _, account := range credStore.Accounts {
		ok, err := validateAccount(ctx, account)
		switch {
		case err != nil:
			logger.Warn(account.Name + ": check failed: " + err.Error())
		case ok:
			logger.Info(account.Name + ": session is valid")
		default:
			logger.Warn(account.Name + ": session expired, run mcauth refresh")
		}
	}
}

func validateAccount(ctx context.Context, account minecraft.Account) (bool, error) {
	if err := checkPayload(account); err != nil {
		return false, err
	}

	switch account.Type {
	case minecraft.AccountTypeMicrosoft:
		// Minecraft services have no validate endpoint, go by the
		// session token lifetime (24h) instead
		creds := microsoft.Credentials{ExpiresAt: account.Microsoft.AcquiredAt.Add(24 * time.Hour)}
		return !creds.IsExpired(), nil

	case minecraft.AccountTypeYggdrasil:
		client := &yggdrasil.Client{ServerURL: account.Yggdrasil.ServerURL}
		return client.Validate(ctx, account.AccessToken, account.ClientToken)

	case minecraft.AccountTypeUnifiedPass:
		client := unifiedpass.New(account.UnifiedPass.ServerID)
		return client.Validate(ctx, account.AccessToken, account.ClientToken)
	}

	return false, &minecraft.ConfigError{Reason: "unknown account type " + string(account.Type)}
}
