package auth

import (
	"context"

	"github.com/mmynk/splitvault/internal/models"
)

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new account with the given email and credential and
	// assigns it a fresh address.
	Register(ctx context.Context, email, displayName, credential string) (*models.Account, error)

	// Authenticate verifies the account's credentials and returns the account if successful.
	Authenticate(ctx context.Context, email, credential string) (*models.Account, error)

	// Lookup returns the account owning address.
	Lookup(ctx context.Context, address string) (*models.Account, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
