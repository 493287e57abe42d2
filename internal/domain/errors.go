package domain

import "errors"

// Error kinds. Every error a service returns either wraps one of these or is unexpected.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("not authorized")
	ErrNotFound        = errors.New("not found")
)

// Error carries a caller-facing message together with its kind
type Error struct {
	Kind    error
	Message string
}

// NewError builds an *Error of the given kind
func NewError(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Message returns the caller-facing message of err
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
