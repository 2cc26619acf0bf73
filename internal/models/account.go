package models

// Account represents a registered account. Its Address is the caller
// identity used by every split operation.
type Account struct {
	// Address is the public identity of the account (0x-prefixed, 40 hex chars).
	Address string

	// Email is the login name (unique).
	Email string

	// DisplayName is shown to other participants.
	DisplayName string

	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}
