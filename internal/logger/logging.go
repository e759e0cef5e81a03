// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Output is where loggers built here write. stdout carries the IPC stream, so
// everything goes to stderr.
var Output io.Writer = os.Stderr

// New creates a new default charm log.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(Output, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(Output, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// FileOptions configures a rotating log file.
type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

func newFileWriter(opts FileOptions) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
}

func newFileLogger(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
}

// NewRotating returns a logfmt logger writing to a size rotated file, and the
// file handle so the caller can close it on exit.
func NewRotating(prefix string, level log.Level, opts FileOptions) (*log.Logger, io.Closer) {
	w := newFileWriter(opts)
	return newFileLogger(w, prefix, level), w
}

// ParseLevel maps a config level name to a charm level, falling back to warn.
func ParseLevel(name string) log.Level {
	lvl, err := log.ParseLevel(name)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// Setup configures the package level charm logger: level, and when a file
// path is given, a rotating file instead of stderr. Loggers created by New and
// NewWithConfig afterwards write to the same file. The returned closer is
// never nil.
func Setup(level log.Level, opts FileOptions) io.Closer {
	if opts.Path == "" {
		log.SetOutput(Output)
		log.SetLevel(level)
		return io.NopCloser(nil)
	}
	w := newFileWriter(opts)
	Output = w
	log.SetDefault(newFileLogger(w, "", level))
	return w
}
