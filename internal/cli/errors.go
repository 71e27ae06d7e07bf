package cli

import (
	"errors"

	"github.com/mesh-intelligence/contacts/internal/directory"
	"github.com/mesh-intelligence/contacts/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError pairs a failure with the process exit code it maps to.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// classify maps storage and configuration failures to system errors and
// everything else to user errors.
func classify(err error) error {
	if errors.Is(err, types.ErrStorage) || errors.Is(err, types.ErrConfiguration) {
		return sysError(err)
	}
	return userError(err)
}

// resultError returns nil for a successful result and the classified
// failure otherwise.
func resultError(res directory.Result) error {
	if res.Success {
		return nil
	}
	if res.Err != nil {
		return classify(res.Err)
	}
	return userError(errors.New(res.Message))
}

// ExitCode returns the process exit code for an error returned by the root
// command. Flag and argument errors from cobra are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
