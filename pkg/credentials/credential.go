// Package credentials provides the authentication strategies for the
// HubSpot API: a static API key and a refreshable OAuth2 token, both
// behind a single Provider interface, plus a Store that maps provider
// names to registered instances.
//
// The operation layer depends only on the Provider capability, never on a
// concrete strategy, so a fake provider can stand in during tests.
package credentials

import (
	"time"
)

// Credential is a bearer credential for the HubSpot API: either a static
// API key (no expiry) or an OAuth2 access token with its refresh token and
// expiry.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the credential expires within the given margin.
// A zero ExpiresAt means the credential never expires.
func (c Credential) Expired(margin time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !time.Now().Add(margin).Before(c.ExpiresAt)
}

// Redacted returns a display-safe form of the access token. Full secrets
// are never logged or serialized; this is the only printable form.
func (c Credential) Redacted() string {
	token := c.AccessToken
	// Short tokens are hidden entirely; keeping 8 characters of a short
	// secret would leave too little of it secret.
	if len(token) < 12 {
		return "****"
	}
	return token[:4] + "…" + token[len(token)-4:]
}

// String implements fmt.Stringer so accidental %v/%s formatting never
// leaks the secret.
func (c Credential) String() string {
	return c.Redacted()
}
