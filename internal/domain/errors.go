package domain

import "errors"

// Error kinds. Every error returned by the service layer matches exactly one
// of these through errors.Is.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrDuplicateVote = errors.New("already voted in this category")
	ErrStore         = errors.New("store error")
	ErrStoreTimeout  = errors.New("store timeout")
	ErrIdentityStore = errors.New("identity store error")
)

// Error carries a caller-facing message for one of the error kinds
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Invalid builds a validation error with the given message
func Invalid(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// NotFound builds a not-found error with the given message
func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// Message returns the caller-facing text of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}
