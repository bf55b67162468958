// Package auth gates the privileged chat commands.
package auth

import "crypto/subtle"

// Authorizer compares caller supplied secrets against the configured ones.
// Kick and log clearing hold separate secrets from the same configuration source.
type Authorizer struct {
	kickSecret  string
	clearSecret string
}

// NewAuthorizer falls back to the kick secret when no clear secret is configured.
func NewAuthorizer(kickSecret, clearSecret string) Authorizer {
	if clearSecret == "" {
		clearSecret = kickSecret
	}
	return Authorizer{kickSecret: kickSecret, clearSecret: clearSecret}
}

func (a Authorizer) AuthorizeKick(secret string) bool {
	return equal(secret, a.kickSecret)
}

func (a Authorizer) AuthorizeClear(secret string) bool {
	return equal(secret, a.clearSecret)
}

// SharedSecret reports whether both operations are gated by the same value.
func (a Authorizer) SharedSecret() bool {
	return a.kickSecret == a.clearSecret
}

func equal(given, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
