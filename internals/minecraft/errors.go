package minecraft

import "fmt"

// ConfigError is a missing or invalid caller input (eg. an empty client
// id). Retrying can not help.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Reason
}

// TransportError wraps a network level failure. The core never retries
// these – retry policy is a caller concern.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AuthError is a non-success status or malformed credential response.
// The raw server payload is kept for diagnostics.
type AuthError struct {
	Op         string
	StatusCode int
	Raw        []byte
}

func (e *AuthError) Error() string {
	if len(e.Raw) != 0 {
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Raw)
	}
	return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
}

// TimeoutError means the device code expired before the user completed
// the sign-in. The grant is useless afterwards.
type TimeoutError struct {
	// Polls is the number of token requests made before giving up
	Polls int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("sign-in timed out after %d polls, the device code expired", e.Polls)
}

// EntitlementError means the identity authenticated fine but does not
// own the game. Callers should show a purchase hint, not a retry hint.
type EntitlementError struct {
	Name string
}

func (e *EntitlementError) Error() string {
	if e.Name != "" {
		return e.Name + " does not own Minecraft"
	}
	return "this account does not own Minecraft"
}
