// Package auth provides the authenticator capability contract and its
// three implementations (Microsoft, Yggdrasil, Unified-Pass). A caller
// can hold one Authenticator reference and sign in without knowing
// which protocol produced the accounts.
package auth

import (
	"context"

	"github.com/dchest/uniuri"
	"github.com/mcauth/mcauth/internals/minecraft"
)

// ProgressFunc receives human readable step messages during a login
// attempt. It is called synchronously, in order, never concurrently.
type ProgressFunc func(message string)

// Authenticator is the shared operation set of all protocols.
// Microsoft and Unified-Pass return a single account, Yggdrasil may
// return several – one per in-game profile linked to the credentials.
type Authenticator interface {
	// Auth is the blocking form of AuthAsync without progress reporting
	Auth() ([]minecraft.Account, error)
	// AuthAsync drives the protocol chain and reports each step to
	// progress (may be nil)
	AuthAsync(ctx context.Context, progress ProgressFunc) ([]minecraft.Account, error)
}

var (
	_ Authenticator = (*Microsoft)(nil)
	_ Authenticator = (*Yggdrasil)(nil)
	_ Authenticator = (*UnifiedPass)(nil)
)

// report invokes the progress sink. A nil or panicking sink must never
// abort an otherwise successful authentication.
func report(progress ProgressFunc, message string) {
	if progress == nil {
		return
	}
	defer func() { _ = recover() }()
	progress(message)
}

// newClientToken generates a client correlation id (32 chars like the
// dashless uuid the official launcher sends)
func newClientToken() string {
	return uniuri.NewLen(32)
}
