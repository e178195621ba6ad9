package auth

import (
	"context"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
)

// SessionAuthenticator resolves a session token to a user. The production
// implementation lives with the identity provider; this service only depends
// on the interface.
type SessionAuthenticator interface {
	// CurrentUser returns the user ID owning the session token
	CurrentUser(ctx context.Context, sessionToken string) (string, error)
}

// HeaderAuthenticator treats the bearer token itself as the user ID. It
// stands in for a real identity provider in development and tests.
type HeaderAuthenticator struct{}

// NewHeaderAuthenticator creates a new header authenticator
func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

func (a *HeaderAuthenticator) CurrentUser(ctx context.Context, sessionToken string) (string, error) {
	if sessionToken == "" {
		return "", ierr.NewError("missing session token").
			WithHint("Authentication required").
			Mark(ierr.ErrPermissionDenied)
	}
	return sessionToken, nil
}
