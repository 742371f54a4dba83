// Package errs holds the error kinds shared by every service. Handlers map
// them to HTTP statuses with errors.Is; services wrap them with context.
package errs

import "errors"

var (
	// ErrUnauthenticated means the bearer credential was missing or invalid.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidArgument means the request carried malformed or out-of-range input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound means no record matched the given identifier.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a record with the same unique key already exists.
	ErrConflict = errors.New("conflict")
	// ErrStorage means the persistence layer failed.
	ErrStorage = errors.New("storage error")
)

// Error attaches a client-facing message to one of the kinds above.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

// E builds an *Error of the given kind.
func E(kind error, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Message returns the client-facing message carried by err, or def.
func Message(err error, def string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return def
}
