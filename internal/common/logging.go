/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Logger is the interface used for logging throughout the decoder.
type Logger interface {
	Error(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
	Trace(format string, args ...interface{})
	IsLogLevel(level LogLevel) bool
}

// DummyLogger discards everything; it's the default until SetLogger is called.
type DummyLogger struct{}

func (DummyLogger) Error(format string, args ...interface{})   {}
func (DummyLogger) Warning(format string, args ...interface{}) {}
func (DummyLogger) Notice(format string, args ...interface{})  {}
func (DummyLogger) Info(format string, args ...interface{})    {}
func (DummyLogger) Debug(format string, args ...interface{})   {}
func (DummyLogger) Trace(format string, args ...interface{})   {}

// IsLogLevel always reports true for DummyLogger so callers never skip work
// expecting a real logger to filter it.
func (DummyLogger) IsLogLevel(level LogLevel) bool {
	return true
}

// LogLevel is the verbosity level for logging.
type LogLevel int

// Log level enum where the most important logs have the lowest values:
// level error = 0, level trace = 5.
const (
	LogLevelError LogLevel = iota
	LogLevelWarning
	LogLevelNotice
	LogLevelInfo
	LogLevelDebug
	LogLevelTrace
)

var levelPrefix = map[LogLevel]string{
	LogLevelError:   "[ERROR] ",
	LogLevelWarning: "[WARNING] ",
	LogLevelNotice:  "[NOTICE] ",
	LogLevelInfo:    "[INFO] ",
	LogLevelDebug:   "[DEBUG] ",
	LogLevelTrace:   "[TRACE] ",
}

// ConsoleLogger writes logs to os.Stdout at or below its configured level.
type ConsoleLogger struct {
	LogLevel LogLevel
}

// NewConsoleLogger creates a new console logger.
func NewConsoleLogger(logLevel LogLevel) *ConsoleLogger {
	return &ConsoleLogger{LogLevel: logLevel}
}

// IsLogLevel reports whether level is at or below the logger's configured level.
func (l ConsoleLogger) IsLogLevel(level LogLevel) bool {
	return l.LogLevel >= level
}

func (l ConsoleLogger) logAt(level LogLevel, format string, args ...interface{}) {
	if l.LogLevel >= level {
		logToWriter(os.Stdout, levelPrefix[level], format, args...)
	}
}

func (l ConsoleLogger) Error(format string, args ...interface{}) {
	l.logAt(LogLevelError, format, args...)
}

func (l ConsoleLogger) Warning(format string, args ...interface{}) {
	l.logAt(LogLevelWarning, format, args...)
}

func (l ConsoleLogger) Notice(format string, args ...interface{}) {
	l.logAt(LogLevelNotice, format, args...)
}

func (l ConsoleLogger) Info(format string, args ...interface{}) {
	l.logAt(LogLevelInfo, format, args...)
}

func (l ConsoleLogger) Debug(format string, args ...interface{}) {
	l.logAt(LogLevelDebug, format, args...)
}

func (l ConsoleLogger) Trace(format string, args ...interface{}) {
	l.logAt(LogLevelTrace, format, args...)
}

// Log is the package-wide logger used by every decoder component. It is a
// no-op DummyLogger until the host application calls SetLogger.
var Log Logger = DummyLogger{}

// SetLogger installs logger as the package-wide Log.
func SetLogger(logger Logger) {
	Log = logger
}

// WriterLogger writes logs to an arbitrary io.Writer at or below its configured level.
type WriterLogger struct {
	LogLevel LogLevel
	Output   io.Writer
}

// NewWriterLogger creates a new logger writing to writer.
func NewWriterLogger(logLevel LogLevel, writer io.Writer) *WriterLogger {
	return &WriterLogger{Output: writer, LogLevel: logLevel}
}

// IsLogLevel reports whether level is at or below the logger's configured level.
func (l WriterLogger) IsLogLevel(level LogLevel) bool {
	return l.LogLevel >= level
}

func (l WriterLogger) logAt(level LogLevel, format string, args ...interface{}) {
	if l.LogLevel >= level {
		logToWriter(l.Output, levelPrefix[level], format, args...)
	}
}

func (l WriterLogger) Error(format string, args ...interface{}) {
	l.logAt(LogLevelError, format, args...)
}

func (l WriterLogger) Warning(format string, args ...interface{}) {
	l.logAt(LogLevelWarning, format, args...)
}

func (l WriterLogger) Notice(format string, args ...interface{}) {
	l.logAt(LogLevelNotice, format, args...)
}

func (l WriterLogger) Info(format string, args ...interface{}) {
	l.logAt(LogLevelInfo, format, args...)
}

func (l WriterLogger) Debug(format string, args ...interface{}) {
	l.logAt(LogLevelDebug, format, args...)
}

func (l WriterLogger) Trace(format string, args ...interface{}) {
	l.logAt(LogLevelTrace, format, args...)
}

// logToWriter writes a prefixed, source-located log line to f.
func logToWriter(f io.Writer, prefix string, format string, args ...interface{}) {
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		file = "???"
		line = 0
	} else {
		file = filepath.Base(file)
	}

	src := fmt.Sprintf("%s %s:%d ", prefix, file, line) + format + "\n"
	fmt.Fprintf(f, src, args...)
}
