package cmd

import (
	"context"
	"fmt"

	"github.com/gookit/color"
	"github.com/mcauth/mcauth/internals/auth"
	"github.com/mcauth/mcauth/internals/minecraft/microsoft"
	"github.com/mcauth/mcauth/internals/ownhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.AddCommand(loginYggdrasilCmd)
	loginCmd.AddCommand(loginUnifiedPassCmd)
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with your Microsoft account (device code flow)",
	Run: func(cmd *cobra.Command, args []string) {
		loginMicrosoft()
	},
}

func loginMicrosoft() {
	clientID := viper.GetString("client-id")
	if clientID == "" {
		logger.Fail("No OAuth client id set. Set MCAUTH_CLIENT_ID or client-id in your config file.")
	}

	ctx := context.Background()
	// the identity provider rate limits pushy clients, stay well below
	client := microsoft.New(ownhttp.NewThrottled(2), clientID)

	grant, err := client.RequestDeviceCode(ctx)
	if err != nil {
		logger.Fail("Could not start the sign-in: " + err.Error())
	}

	logger.Headline("Microsoft sign-in")
	fmt.Printf(
		"Open %s and enter the code %s\n",
		color.Cyan.Sprint(grant.VerificationURI),
		color.Style{color.FgGreen, color.OpBold}.Sprint(grant.UserCode),
	)

	waiting := NewMaybeSpinner()
	waiting.Update("Waiting for you to finish the browser step …")
	waiting.Start()
	_, err = client.PollForToken(ctx, grant)
	waiting.Stop()
	if err != nil {
		logger.Fail("Sign-in did not complete: " + err.Error())
	}

	account := runAuth(auth.NewMicrosoft(client))
	logger.Info("Signed in as " + account.Name)
}
