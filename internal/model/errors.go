package model

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict signals a unique-key collision (email, submission).
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is a generic denial. It deliberately carries no
	// detail about which check failed.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials hides whether the account or the password
	// was wrong, to resist enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDeactivated means the token or credentials resolved to a user
	// whose account has been deactivated.
	ErrDeactivated = errors.New("account deactivated")
	// ErrTokenInvalid covers missing, expired and already-consumed
	// credential tokens. All three surface identically.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrEventNotOpen is returned for submission mutations against an
	// event that is not in the open state.
	ErrEventNotOpen = errors.New("event is not open")
	// ErrInvalidTransition is returned for an illegal event state change.
	ErrInvalidTransition = errors.New("invalid event state transition")
)

var (
	ErrSessionRevoked  = errors.New("refresh token revoked")
	ErrSessionExpired  = errors.New("refresh token expired")
	ErrSessionMismatch = errors.New("refresh token mismatch")
)

// ValidationError describes malformed or illegal input. Unlike the
// sentinels above it keeps the specific reason, which is safe to show
// to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
