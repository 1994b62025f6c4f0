package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing accounts, movies and tenant stores alike.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is deliberately generic: login must not reveal
	// whether the email or the password was the wrong half.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError rejects malformed input before any storage access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Conflict fields. Both uniqueness constraints share one insert, so the
// violated field has to be identified from the constraint error itself.
const (
	ConflictUsername = "username"
	ConflictEmail    = "email"
)

// ConflictError is a uniqueness violation on a specific field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s is already taken", e.Field)
}

// ProvisioningError means the account row was committed but the tenant store
// was not created. That is a critical inconsistency, not an ordinary request
// failure, and callers are expected to log it as such.
type ProvisioningError struct {
	Username string
	Err      error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provisioning tenant store for %q: %v", e.Username, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
