package domain

import "errors"

// Error kinds. Every error leaving a service wraps exactly one of them.
var (
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage error")
)

type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrAuth, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }

// Storage wraps a backend failure. msg is what the caller sees; err is kept
// for logs.
func Storage(msg string, err error) error {
	return &Error{Kind: ErrStorage, Msg: msg, Err: err}
}
