package credentials

import (
	"context"
)

// Provider yields a usable bearer credential on demand, refreshing it
// first when the strategy requires that.
type Provider interface {
	// Name is the key the provider registers under in a Store.
	Name() string

	// Resolve returns a valid credential. Implementations that cache an
	// expiring token refresh it here; the refreshed state must be visible
	// to subsequent Resolve calls on the same instance.
	Resolve(ctx context.Context) (Credential, error)
}

// StaticKeyProvider wraps a fixed API key. The key never expires and
// Resolve never mutates state.
type StaticKeyProvider struct {
	name string
	key  string
}

func NewStaticKeyProvider(name, key string) *StaticKeyProvider {
	return &StaticKeyProvider{name: name, key: key}
}

func (p *StaticKeyProvider) Name() string {
	return p.name
}

func (p *StaticKeyProvider) Resolve(_ context.Context) (Credential, error) {
	if p.key == "" {
		return Credential{}, &AuthError{Reason: ReasonMissingKey}
	}
	return Credential{AccessToken: p.key}, nil
}
