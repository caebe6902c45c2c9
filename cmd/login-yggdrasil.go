package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mcauth/mcauth/internals/auth"
	"github.com/spf13/cobra"
)

var yggdrasilServer string

func init() {
	loginYggdrasilCmd.Flags().StringVar(&yggdrasilServer, "server", "", "yggdrasil server root (empty = Mojang)")
}

var loginYggdrasilCmd = &cobra.Command{
	Use:     "yggdrasil",
	Aliases: []string{"mojang", "littleskin"},
	Short:   "Sign in with email & password against a yggdrasil server",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.CalledAs() == "littleskin" {
			loginYggdrasil(authForLittleSkin)
		} else {
			loginYggdrasil(auth.NewYggdrasil)
		}
	},
}

func authForLittleSkin(_ string, email string, password string) *auth.Yggdrasil {
	return auth.NewLittleSkin(email, password)
}

func loginYggdrasil(newAuth func(server string, email string, password string) *auth.Yggdrasil) {
	fmt.Println("Please sign in with your Minecraft credentials")
	fmt.Println("Your password is sent encrypted to the auth server directly and NOT saved anywhere.")

	uPrompt := promptui.Prompt{
		Label:    "Please enter your email",
		Validate: basicValidation,
	}
	email, err := uPrompt.Run()
	if err != nil {
		fmt.Println("Aborting")
		os.Exit(0)
	}

	pPrompt := promptui.Prompt{
		Label:    "Please enter your password",
		Validate: basicValidation,
		Mask:     '■',
	}
	password, err := pPrompt.Run()
	if err != nil {
		fmt.Println("Aborting")
		os.Exit(0)
	}

	account := runAuth(newAuth(yggdrasilServer, email, password))
	logger.Info("Signed in as " + account.Name)
}
