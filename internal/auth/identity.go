package auth

import (
	"errors"

	"oauth-backend/internal/user"
)

// ErrProviderDenied reports that the provider or the callback flow refused
// the authentication. Callers redirect to the login page.
var ErrProviderDenied = errors.New("auth: provider denied authentication")

// ExternalIdentity represents a normalized identity asserted by an OAuth
// provider. It contains facts only, no decisions.
type ExternalIdentity struct {
	Provider      user.Provider
	SubjectID     string // provider-scoped stable identifier
	DisplayName   string // optional
	Handle        string // provider handle used when DisplayName is empty
	Email         string // optional
	EmailVerified bool
}

// Name returns the best-effort display name.
func (i ExternalIdentity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Handle
}

// LocalRegistration is a password-based sign-up request.
type LocalRegistration struct {
	Name     string
	Email    string
	Password string
}
