// pkg/shared/sync.go

package shared

import "go.uber.org/zap"

// SafeSync flushes buffered log entries, ignoring the EINVAL that zap
// returns when stderr is not a regular file.
func SafeSync() {
	_ = zap.L().Sync()
}
