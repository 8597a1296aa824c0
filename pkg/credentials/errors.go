package credentials

import "fmt"

// AuthReason classifies why a provider could not produce a credential.
type AuthReason string

const (
	// ReasonMissingKey means a static provider was built without a key.
	ReasonMissingKey AuthReason = "missing_key"
	// ReasonRefreshFailed means the remote rejected the refresh exchange.
	ReasonRefreshFailed AuthReason = "refresh_failed"
	// ReasonNotConfigured means the token expired and no refresh token is
	// available to renew it.
	ReasonNotConfigured AuthReason = "not_configured"
)

// AuthError is returned by Provider.Resolve when a usable credential
// cannot be produced.
type AuthError struct {
	Reason AuthReason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth error (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("auth error (%s)", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// LookupError is returned by Store.Get when no provider is registered
// under the requested name.
type LookupError struct {
	Name string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("no credential provider registered under %q", e.Name)
}
