// pkg/theke_err/user_error.go

package theke_err

import (
	"context"
	"errors"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// UserError marks a condition the operator caused or chose (bad input,
// declined confirmation). It is reported without a stack trace and exits
// with the user status code rather than the system one.
type UserError struct {
	cause error
}

func (e *UserError) Error() string { return e.cause.Error() }
func (e *UserError) Unwrap() error { return e.cause }

// NewExpectedError wraps err for softer UX handling and records it at warn
// level on the contextual logger.
func NewExpectedError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	otelzap.Ctx(ctx).Warn("Expected user-facing error", zap.Error(err))
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// ExitCode maps an error to the process exit status: 0 for success, 130 for
// operator-driven aborts (the SIGINT convention), 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsExpectedUserError(err):
		return 130
	default:
		return 1
	}
}
