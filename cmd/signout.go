package cmd

import (
	"context"

	"github.com/manifoldco/promptui"
	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/mcauth/mcauth/internals/minecraft/unifiedpass"
	"github.com/mcauth/mcauth/internals/minecraft/yggdrasil"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(signoutCmd)
}

var signoutCmd = &cobra.Command{
	Use:     "signout",
	Aliases: []string{"logout"},
	Short:   "Forget a stored account and invalidate its sessions",
	Run: func(cmd *cobra.Command, args []string) {
		signout()
	},
}

func signout() {
	if len(credStore.Accounts) == 0 {
		logger.Fail("No stored accounts.")
	}

	names := make([]string, len(credStore.Accounts))
	for i, account := range credStore.Accounts {
		names[i] = account.Name + " (" + string(account.Type) + ")"
	}
	accountSelect := promptui.Select{Label: "Which account", Items: names}
	index, _, err := accountSelect.Run()
	if err != nil {
		logger.Fail("Aborting")
	}
	account := credStore.Accounts[index]

	// legacy protocols can invalidate every session server side
	ctx := context.Background()
	switch {
	case checkPayload(account) != nil:
		logger.Warn("Stored account data is incomplete, removing the account locally only")
	case account.Type == minecraft.AccountTypeYggdrasil:
		client := &yggdrasil.Client{ServerURL: account.Yggdrasil.ServerURL}
		ok, err := client.Signout(ctx, account.Yggdrasil.Email, account.Yggdrasil.Password)
		if err != nil || !ok {
			logger.Warn("Server side signout did not complete, removing the account locally anyway")
		}
	case account.Type == minecraft.AccountTypeUnifiedPass:
		// the login username is not retained, ask for it again
		uPrompt := promptui.Prompt{
			Label:    "Please enter your Unified-Pass username",
			Validate: basicValidation,
		}
		username, uErr := uPrompt.Run()
		pPrompt := promptui.Prompt{
			Label:    "Please enter your password to invalidate all sessions",
			Validate: basicValidation,
			Mask:     '■',
		}
		password, pErr := pPrompt.Run()
		if uErr == nil && pErr == nil {
			client := unifiedpass.New(account.UnifiedPass.ServerID)
			ok, err := client.Signout(ctx, username, password)
			if err != nil || !ok {
				logger.Warn("Server side signout did not complete, removing the account locally anyway")
			}
		}
	}

	if err := credStore.Remove(account.Type, account.UUID); err != nil {
		logger.Fail("Could not update the credential store: " + err.Error())
	}
	logger.Info("Signed out " + account.Name)
}
