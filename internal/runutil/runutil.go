// internal/runutil/runutil.go
package runutil

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

// Process exit codes shared by all tools.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitRuntime  = 3
	ExitCanceled = 130
)

// UsageError marks bad command-line input.
type UsageError struct{ Err error }

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// Usage wraps err as a usage error (nil stays nil).
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &UsageError{Err: err}
}

// Usagef formats a usage error.
func Usagef(format string, a ...any) error {
	return &UsageError{Err: fmt.Errorf(format, a...)}
}

// ExitError carries a specific exit code without a message, e.g. the
// no-match exit code.
type ExitError struct{ Code int }

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// ExitCode maps an error returned by a tool to its process exit code.
func ExitCode(err error) int {
	var (
		ee *ExitError
		ue *UsageError
	)
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &ee):
		return ee.Code
	case errors.Is(err, context.Canceled):
		return ExitCanceled
	case errors.As(err, &ue):
		return ExitUsage
	default:
		return ExitRuntime
	}
}

// Silent reports whether err should be exited on without printing.
func Silent(err error) bool {
	var ee *ExitError
	return errors.As(err, &ee) || errors.Is(err, context.Canceled)
}

// EffectiveThreads resolves 0 to the number of CPUs.
func EffectiveThreads(n int) int {
	if n <= 0 {
		return runtime.NumCPU()
	}
	return n
}
