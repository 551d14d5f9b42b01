package console

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileOptions describes a rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Writer returns the destination for console entries: stdout when opts.Path is
// blank, otherwise a rotating file. The returned closer must be called on
// shutdown.
func Writer(opts FileOptions) (io.Writer, func() error, error) {
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	size := opts.MaxSizeMB
	if size <= 0 {
		size = 10
	}
	rotating := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    size,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}
	return rotating, rotating.Close, nil
}
