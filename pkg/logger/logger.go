// pkg/logger/logger.go

package logger

import (
	"os"
	"path/filepath"

	"github.com/CodeMonkeyCybersecurity/theke/pkg/shared"
	"go.uber.org/zap"
)

var log *zap.Logger

// DefaultConfig returns the standard zap.Config: JSON logs to stderr plus a
// file under /var/log/theke. Stdout stays clean for interactive prompts.
func DefaultConfig() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr", filepath.Join(shared.LogDir, "theke.log")}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg
}

// Init builds the global logger. When the log directory is not writable
// (non-root invocation), it degrades to stderr-only instead of failing.
func Init() {
	cfg := DefaultConfig()
	if err := ensureLogDir(shared.LogDir); err != nil {
		cfg.OutputPaths = []string{"stderr"}
	}

	l, err := cfg.Build()
	if err != nil {
		InitFallback()
		return
	}
	log = l
	zap.ReplaceGlobals(log)
}

// InitFallback installs a minimal stderr logger so that code paths running
// before Init (or after an Init failure) never log through a nop logger.
func InitFallback() {
	if log != nil {
		return
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		l = zap.NewNop()
	}
	log = l
	zap.ReplaceGlobals(log)
}

// L returns the global logger, initializing the fallback if needed.
func L() *zap.Logger {
	if log == nil {
		InitFallback()
	}
	return log
}

func ensureLogDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, shared.DirPermRestricted); err != nil {
			return err
		}
	}
	probe := filepath.Join(dir, ".writable")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_WRONLY, shared.FilePermSecret)
	if err != nil {
		return err
	}
	f.Close()
	return os.Remove(probe)
}
