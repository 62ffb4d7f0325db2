package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConditionsNotMet = errors.New("conditions not met")
	ErrValidation       = errors.New("validation failed")
)

// Error carries a human readable message and the kind it belongs to.
// errors.Is(err, ErrNotFound) and friends match on the kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func NotFound(format string, args ...interface{}) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func ConditionsNotMet(format string, args ...interface{}) error {
	return &Error{kind: ErrConditionsNotMet, msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsConditionsNotMet(err error) bool { return errors.Is(err, ErrConditionsNotMet) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
