// pkg/theke_io/context_test.go

package theke_io

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	t.Parallel()

	rc := NewContext(context.Background(), "install")

	assert.Equal(t, "install", rc.Command)
	assert.NotEmpty(t, rc.RunID)
	assert.NotNil(t, rc.Ctx)
	assert.NotNil(t, rc.Log)
	assert.False(t, rc.Timestamp.IsZero())
}

func TestHandlePanicConvertsToError(t *testing.T) {
	t.Parallel()

	rc := NewContext(context.Background(), "test")

	var err error
	func() {
		defer rc.HandlePanic(&err)
		panic("unit file corrupted")
	}()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit file corrupted")
}

func TestHandlePanicLeavesErrorUntouched(t *testing.T) {
	t.Parallel()

	rc := NewContext(context.Background(), "test")

	var err error
	func() {
		defer rc.HandlePanic(&err)
	}()
	assert.NoError(t, err)
}
