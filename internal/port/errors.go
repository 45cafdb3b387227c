package port

import (
	"errors"
	"strings"
)

// Sentinel errors used across ports. Handlers map these to HTTP statuses
// at the operation boundary.
var (
	ErrUserExists            = errors.New("user already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAccountDeactivated    = errors.New("user account is deactivated")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrStepNotFound          = errors.New("step not found, create it first")
	ErrEmailSend             = errors.New("email could not be sent")
)

// ValidationError carries every violated field rule, not just the first.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

// Validation builds a ValidationError from the given reasons.
func Validation(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

// UpstreamError wraps a third-party API failure so it surfaces as a
// gateway error rather than an internal one.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error { return e.Err }
