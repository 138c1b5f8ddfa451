package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/qemacs/internal/config"
	"github.com/dshills/qemacs/internal/logging"
)

// openLog creates the process logger. The terminal belongs to the editor,
// so without a log file the logger discards everything. level overrides
// the configured level when set.
func openLog(cfg *config.Config, level string) (*logging.Logger, io.Closer, error) {
	if cfg.Logging.File == "" {
		return logging.NullLogger, nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	lc := logging.DefaultConfig()
	lc.Output = f
	lc.Level = cfg.LogLevel()
	if level != "" {
		lc.Level = logging.ParseLevel(level)
	}
	l := logging.New(lc)
	logging.SetLogger(l)
	return l, f, nil
}
