// pkg/theke_err/user_error_test.go

package theke_err

import (
	"context"
	"testing"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestExpectedUserError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.NoError(t, NewExpectedError(ctx, nil))

	cause := cerr.New("installation aborted")
	err := NewExpectedError(ctx, cause)
	assert.True(t, IsExpectedUserError(err))
	assert.Equal(t, "installation aborted", err.Error())
	assert.ErrorIs(t, err, cause)

	// The marker survives further wrapping up the call stack.
	wrapped := cerr.Wrap(err, "install failed")
	assert.True(t, IsExpectedUserError(wrapped))

	assert.False(t, IsExpectedUserError(cerr.New("disk full")))
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 130, ExitCode(NewExpectedError(ctx, cerr.New("aborted"))))
	assert.Equal(t, 1, ExitCode(cerr.New("disk full")))
}
