package application

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrGuestNotFound      = errors.New("guest not found")
	ErrUserCreateFailed   = errors.New("failed to create user")
)

// ValidationError is a user-correctable rejection raised by a validator.
// Reason is rendered to the client verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NewValidationError wraps a reason string into a ValidationError.
func NewValidationError(reason string) error {
	return &ValidationError{Reason: reason}
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
