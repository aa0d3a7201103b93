package csv

import (
	"io"
	"log"
	"os"
)

// Logger receives diagnostic messages from sessions and scanners.
// Soft row errors are never logged; they are delivered as events.
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

// StandardLogger writes to a *log.Logger with a "[csv-rex] " prefix.
type StandardLogger struct {
	logger  *log.Logger
	verbose bool
}

// NewStandardLogger returns a logger writing to stderr. Debug messages are
// written only when verbose is set.
func NewStandardLogger(verbose bool) *StandardLogger {
	return NewStandardLoggerTo(os.Stderr, verbose)
}

// NewStandardLoggerTo is NewStandardLogger with an explicit destination.
func NewStandardLoggerTo(w io.Writer, verbose bool) *StandardLogger {
	return &StandardLogger{
		logger:  log.New(w, "[csv-rex] ", log.LstdFlags),
		verbose: verbose,
	}
}

// Info logs an informational message.
func (l *StandardLogger) Info(format string, v ...interface{}) {
	l.logger.Printf("INFO: "+format, v...)
}

// Error logs a failure.
func (l *StandardLogger) Error(format string, v ...interface{}) {
	l.logger.Printf("ERROR: "+format, v...)
}

// Debug logs a message when the logger is verbose.
func (l *StandardLogger) Debug(format string, v ...interface{}) {
	if l.verbose {
		l.logger.Printf("DEBUG: "+format, v...)
	}
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
