package errors

import (
	"errors"
	"fmt"
)

// Error kinds. Business errors unwrap to one of these, so callers can
// classify them with errors.Is without matching on message text.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrUniqueness     = errors.New("uniqueness error")
)

// BusinessError is a recoverable rule violation whose message is meant to
// reach the client verbatim.
type BusinessError struct {
	Kind    error
	Message string
}

func (e *BusinessError) Error() string {
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Kind
}

func newBusinessError(kind error, message string) *BusinessError {
	return &BusinessError{Kind: kind, Message: message}
}

var (
	ErrInvalidDescription = newBusinessError(ErrValidation, "invalid description")
	ErrInvalidMonth       = newBusinessError(ErrValidation, "invalid month")
	ErrInvalidYear        = newBusinessError(ErrValidation, "invalid year")
	ErrMissingUser        = newBusinessError(ErrValidation, "missing user")
	ErrInvalidValue       = newBusinessError(ErrValidation, "invalid value")
	ErrMissingEntryType   = newBusinessError(ErrValidation, "missing entry type")

	ErrAuthUserNotFound   = newBusinessError(ErrAuthentication, "user not found")
	ErrPasswordMismatch   = newBusinessError(ErrAuthentication, "password mismatch")
	ErrEmailAlreadyExists = newBusinessError(ErrUniqueness, "email already registered")
)

// IsBusiness reports whether err is a client-facing rule violation.
func IsBusiness(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

var (
	ErrEntryNotPersisted = errors.New("entry has no id")
	ErrEntryNotFound     = errors.New("entry not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNilEntry          = errors.New("entry is nil")
	ErrNilUser           = errors.New("user is nil")
	ErrInvalidEntryType  = errors.New("invalid entry type")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInternal          = fmt.Errorf("internal error")
	ErrInvalidInput      = fmt.Errorf("invalid input")
)
