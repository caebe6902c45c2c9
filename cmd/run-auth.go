package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/mcauth/mcauth/internals/auth"
	"github.com/mcauth/mcauth/internals/minecraft"
)

// runAuth drives an authenticator with spinner progress, persists the
// outcome and returns the account to use. When a login yields several
// linked profiles the user picks one.
func runAuth(authenticator auth.Authenticator) *minecraft.Account {
	spin := NewMaybeSpinner()
	spin.Start()
	accounts, err := authenticator.AuthAsync(context.Background(), func(message string) {
		spin.Update(message)
	})
	spin.Stop()
	if err != nil {
		var entitlement *minecraft.EntitlementError
		if errors.As(err, &entitlement) {
			logger.Fail("This account does not own Minecraft. Buy the game on minecraft.net first.")
		}
		logger.Fail("Sign-in failed: " + err.Error())
	}

	account := accounts[0]
	if len(accounts) > 1 {
		names := make([]string, len(accounts))
		for i, a := range accounts {
			names[i] = a.Name
		}
		prompt := promptui.Select{
			Label: "This login has multiple profiles, pick one",
			Items: names,
		}
		index, _, err := prompt.Run()
		if err != nil {
			logger.Fail("Aborting")
		}
		account = accounts[index]
	}

	// all returned accounts are valid, remember every one of them
	for _, a := range accounts {
		if err := credStore.Set(a); err != nil {
			logger.Warn("Could not save the account: " + err.Error())
			break
		}
	}

	return &account
}

func basicValidation(input string) error {
	if len(input) == 0 {
		return errors.New("you have to enter something …")
	}
	return nil
}

// checkPayload guards against a stored account whose variant payload
// does not match its type (eg. a hand-edited credentials file)
func checkPayload(account minecraft.Account) error {
	switch account.Type {
	case minecraft.AccountTypeMicrosoft:
		if account.Microsoft == nil {
			return &minecraft.ConfigError{Reason: "stored account " + account.Name + " is missing its microsoft data"}
		}
	case minecraft.AccountTypeYggdrasil:
		if account.Yggdrasil == nil {
			return &minecraft.ConfigError{Reason: "stored account " + account.Name + " is missing its yggdrasil data"}
		}
	case minecraft.AccountTypeUnifiedPass:
		if account.UnifiedPass == nil {
			return &minecraft.ConfigError{Reason: "stored account " + account.Name + " is missing its unified-pass data"}
		}
	default:
		return &minecraft.ConfigError{Reason: "unknown account type " + string(account.Type)}
	}
	return nil
}
