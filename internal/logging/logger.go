// Package logging wraps a process-wide charmbracelet logger. Before Init
// every call is a no-op, so packages can log unconditionally.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Version is reported in the startup line.
const Version = "0.3.0"

var (
	// Logger is the global logger instance
	Logger *log.Logger

	// logFile is the file handle while logging to a file
	logFile *os.File
	output  io.Writer = io.Discard
)

// Options selects where logs go.
type Options struct {
	// Dir receives a dated log file when set. The TUI logs here so output
	// does not corrupt the terminal.
	Dir string
	// Writer is used when Dir is empty; defaults to stderr.
	Writer io.Writer
	Debug  bool
}

// DefaultDir returns ~/.tourfeed/logs.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tourfeed", "logs"), nil
}

// Init initializes the logging system
func Init(opts Options) error {
	Close()

	w := opts.Writer
	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		name := fmt.Sprintf("tourfeed-%s.log", time.Now().Format("2006-01-02"))
		f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		w = f
	}
	if w == nil {
		w = os.Stderr
	}

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	output = w
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           level,
	})

	Logger.Info("tourfeed started", "version", Version)
	return nil
}

// Close closes the log file
func Close() {
	if Logger != nil {
		Logger.Info("tourfeed shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	Logger = nil
	output = io.Discard
}

// Writer returns the destination of the global logger, for libraries
// that take an io.Writer.
func Writer() io.Writer {
	return output
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a logger with a prefix, or a discarding logger
// before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return log.New(io.Discard)
}
