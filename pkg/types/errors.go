package types

import "errors"

// Error kinds reported by the contact directory. Match them with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrConfiguration = errors.New("configuration error")
	ErrStorage       = errors.New("storage error")
)

// kindNames maps each kind to the name used in results and CLI output.
var kindNames = map[error]string{
	ErrValidation:    "ValidationError",
	ErrConflict:      "ConflictError",
	ErrNotFound:      "NotFoundError",
	ErrConfiguration: "ConfigurationError",
	ErrStorage:       "StorageError",
}

// Error is a directory failure of a given kind. Message is the text shown to
// the user; Err is the optional underlying cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

// NewError returns an *Error of kind with the given message.
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError returns an *Error of kind that carries err as its cause.
func WrapError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindName returns "ValidationError", "ConflictError", and so on for err,
// or the empty string when err carries no known kind.
func KindName(err error) string {
	if err == nil {
		return ""
	}
	for kind, name := range kindNames {
		if errors.Is(err, kind) {
			return name
		}
	}
	return ""
}
