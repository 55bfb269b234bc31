package cli

import (
	"errors"

	"github.com/mesh-intelligence/brandly/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// exitError attaches an exit code to an error.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error { return &exitError{code: exitUserError, err: err} }
func sysError(err error) error  { return &exitError{code: exitSysError, err: err} }

// userErrors are caused by input the user can fix.
var userErrors = []error{
	types.ErrInvalidData,
	types.ErrInvalidID,
	types.ErrInvalidFilter,
	types.ErrInvalidCollection,
	types.ErrNotFound,
	types.ErrOwnerRequired,
	types.ErrBackendEmpty,
	types.ErrBackendUnknown,
	types.ErrDSNEmpty,
	types.ErrSyncStrategyUnknown,
	types.ErrBatchSizeInvalid,
	types.ErrBatchIntervalInvalid,
}

// classify wraps err with the exit code its cause calls for. Errors that
// already carry a code are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return err
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return userError(err)
		}
	}
	return sysError(err)
}

// ExitCode returns the process exit code for an error returned by the root
// command. Errors without a code, such as flag and argument errors, are
// user errors.
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
