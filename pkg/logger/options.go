package logger

import (
	"io"

	"github.com/natefinch/lumberjack"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	format string
	level  string
	writer io.Writer
	file   *FileConfig
}

// FileConfig configures rotating file output.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func (c *FileConfig) writer() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    max(1, c.MaxSizeMB),
		MaxBackups: max(0, c.MaxBackups),
		MaxAge:     max(0, c.MaxAgeDays),
		Compress:   c.Compress,
	}
}

// Option configures InitWithOptions.
type Option func(*options)

// WithFormat selects text or json output.
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithLevel sets the initial level, see SetLevelString.
func WithLevel(level string) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithWriter replaces stdout as the console destination.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.writer = w
		}
	}
}

// WithFile also writes every record to a rotating file. An empty path disables it.
func WithFile(cfg FileConfig) Option {
	return func(o *options) {
		if cfg.Path == "" {
			o.file = nil
			return
		}
		o.file = &cfg
	}
}
