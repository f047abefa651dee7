// package services implements the authenticated HTTP clients for the
// Spotify Web API and the ReccoBeats audio-feature API.
//
// Remote responses are flattened into internal/models value types at this
// boundary; every failure resolves to one of the error kinds declared in
// internal/shared (ErrUnauthorized, ErrRemote, ErrInsufficientScope).
package services

import (
	"time"
)

// Credential is the caller-owned token triple. The client reads it at the
// start of an operation and mutates it only when a refresh occurs; the
// caller checks Refreshed and persists the new triple however it likes.
// Nothing in this package holds a credential across requests.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	refreshed bool
}

// Refreshed reports whether the triple was replaced during an operation and
// must be persisted by the caller.
func (c *Credential) Refreshed() bool {
	return c.refreshed
}

// expiringWithin reports whether the access token is absent or will expire
// within the given margin.
func (c *Credential) expiringWithin(margin time.Duration, now time.Time) bool {
	if c.AccessToken == "" {
		return true
	}
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !c.ExpiresAt.After(now.Add(margin))
}
