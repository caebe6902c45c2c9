package cmd

import (
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mcauth/mcauth/internals/auth"
	"github.com/spf13/cobra"
)

var unifiedPassServerID string

func init() {
	loginUnifiedPassCmd.Flags().StringVar(&unifiedPassServerID, "server-id", "", "32 char Unified-Pass server id")
}

var loginUnifiedPassCmd = &cobra.Command{
	Use:     "unified-pass",
	Aliases: []string{"unifiedpass", "up"},
	Short:   "Sign in with a Unified-Pass account",
	Run: func(cmd *cobra.Command, args []string) {
		loginUnifiedPass()
	},
}

func loginUnifiedPass() {
	serverID := unifiedPassServerID
	if serverID == "" {
		sPrompt := promptui.Prompt{
			Label:    "Please enter the Unified-Pass server id",
			Validate: basicValidation,
		}
		id, err := sPrompt.Run()
		if err != nil {
			fmt.Println("Aborting")
			os.Exit(0)
		}
		serverID = id
	}

	uPrompt := promptui.Prompt{
		Label:    "Please enter your username",
		Validate: basicValidation,
	}
	username, err := uPrompt.Run()
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

	account := runAuth(auth.NewUnifiedPass(serverID, username, password))
	logger.Info("Signed in as " + account.Name)
}
