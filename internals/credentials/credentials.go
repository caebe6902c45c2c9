// Package credentials persists authenticated accounts for the CLI.
// The core authenticators never touch storage – persistence is a
// caller concern, and the CLI is that caller.
package credentials

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/mcauth/mcauth/internals/minecraft"
	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

var (
	authService = "mcauth"
	authUser    = "mcauth_accounts"

	credentialsFile = "credentials.json"
)

// Store keeps the signed-in accounts, in the system keyring when
// available and as a plain file otherwise
type Store struct {
	globalDir     string
	NoKeyRingMode bool
	Accounts      []minecraft.Account
}

// New creates a Store and loads existing credentials
func New(globalDir string) (*Store, error) {
	store := &Store{globalDir: globalDir}
	if err := store.Find(); err != nil {
		return nil, err
	}
	return store, nil
}

// Find tries to find existing accounts
func (s *Store) Find() error {
	blob, err := keyring.Get(authService, authUser)
	switch err {
	case nil:
		return json.Unmarshal([]byte(blob), &s.Accounts)
	case keyring.ErrNotFound:
		// no accounts (yet) is fine
		return nil
	default:
		// no usable key store, fall back to a plain file
		s.NoKeyRingMode = true
		return s.findFromFile()
	}
}

// Set adds or replaces an account and persists the store. Accounts are
// keyed by type and uuid, a re-login replaces the old entry.
func (s *Store) Set(account minecraft.Account) error {
	replaced := false
	for i, existing := range s.Accounts {
		if existing.Type == account.Type && existing.UUID == account.UUID {
			s.Accounts[i] = account
			replaced = true
			break
		}
	}
	if !replaced {
		s.Accounts = append(s.Accounts, account)
	}
	return s.save()
}

// Remove deletes an account from the store
func (s *Store) Remove(accountType minecraft.AccountType, uuid string) error {
	kept := s.Accounts[:0]
	for _, existing := range s.Accounts {
		if existing.Type != accountType || existing.UUID != uuid {
			kept = append(kept, existing)
		}
	}
	s.Accounts = kept
	return s.save()
}

// Get returns the first account of the given type, or nil
func (s *Store) Get(accountType minecraft.AccountType) *minecraft.Account {
	for i := range s.Accounts {
		if s.Accounts[i].Type == accountType {
			return &s.Accounts[i]
		}
	}
	return nil
}

func (s *Store) save() error {
	blob, err := json.Marshal(s.Accounts)
	if err != nil {
		return err
	}
	if s.NoKeyRingMode {
		return s.writeCredentialFile(blob)
	}
	if err := keyring.Set(authService, authUser, string(blob)); err != nil {
		return errors.Wrap(err, "could not write accounts to the system keyring")
	}
	return nil
}

func (s *Store) findFromFile() error {
	file := filepath.Join(s.globalDir, credentialsFile)
	raw, err := ioutil.ReadFile(file)
	switch {
	case err == nil:
		return json.Unmarshal(raw, &s.Accounts)
	case os.IsNotExist(err):
		// no file is fine
		return nil
	default:
		return errors.Wrap(err, "could not read credentials file")
	}
}

func (s *Store) writeCredentialFile(content []byte) error {
	if err := os.MkdirAll(s.globalDir, os.ModePerm); err != nil {
		return err
	}
	credFile := filepath.Join(s.globalDir, credentialsFile)
	if err := ioutil.WriteFile(credFile, content, 0600); err != nil {
		return errors.Wrap(err, "could not write credentials file")
	}
	return nil
}
