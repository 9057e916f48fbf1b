package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with additional context.
type Logger struct {
	// base carries every field except the component, so that
	// WithComponent replaces the component instead of repeating it.
	base    zerolog.Logger
	logger  zerolog.Logger
	service string
}

// NewDefault creates an info-level logger on stderr.
func NewDefault(serviceName string) *Logger {
	return NewWithWriter(os.Stderr, zerolog.InfoLevel, serviceName)
}

// NewWithWriter creates a logger writing in the operator format to w.
func NewWithWriter(w io.Writer, level zerolog.Level, serviceName string) *Logger {
	return newLogger(newConsoleWriter(w, true), level, serviceName)
}

// newLogger writes zerolog events to out unformatted.
func newLogger(out io.Writer, level zerolog.Level, serviceName string) *Logger {
	base := zerolog.New(out).
		Level(level).
		With().Timestamp().Int(FieldPID, os.Getpid()).
		Logger()
	return &Logger{
		base:    base,
		logger:  base.With().Str(FieldComponent, serviceName).Logger(),
		service: serviceName,
	}
}

// WithComponent returns a logger tagged with a component name in place of
// the current one.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		base:    l.base,
		logger:  l.base.With().Str(FieldComponent, name).Logger(),
		service: l.service,
	}
}

// Writer returns an io.Writer that logs each write at the given level.
// It is used to route third-party loggers (net/http ErrorLog) through zerolog.
func (l *Logger) Writer(level zerolog.Level) io.Writer {
	return levelWriter{logger: l.logger, level: level}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Debug(), msg, 2, fields)
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Info(), msg, 2, fields)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Warn(), msg, 2, fields)
}

// Error logs an error message.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.emit(l.logger.Error(), msg, 2, fields)
}

// emit finishes an event. skip counts the frames between the caller of the
// public method and emit itself.
func (l *Logger) emit(event *zerolog.Event, msg string, skip int, fields []map[string]interface{}) {
	if event == nil {
		return
	}
	event.Str(zerolog.CallerFieldName, callerInfo(skip))
	addFields(event, fields...)
	event.Msg(msg)
}

// --- Global logger ---

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// SetGlobalLogger sets the global logger instance.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetGlobalLogger returns the global logger, creating a default one if needed.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewDefault("default")
	}
	return globalLogger
}

// Package-level convenience functions delegate to the global logger.
func Debug(msg string, fields ...map[string]interface{}) {
	l := GetGlobalLogger()
	l.emit(l.logger.Debug(), msg, 2, fields)
}

func Info(msg string, fields ...map[string]interface{}) {
	l := GetGlobalLogger()
	l.emit(l.logger.Info(), msg, 2, fields)
}

func Warn(msg string, fields ...map[string]interface{}) {
	l := GetGlobalLogger()
	l.emit(l.logger.Warn(), msg, 2, fields)
}

func Error(msg string, fields ...map[string]interface{}) {
	l := GetGlobalLogger()
	l.emit(l.logger.Error(), msg, 2, fields)
}

// WithComponent returns a component-tagged logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

// --- internal helpers ---

func addFields(event *zerolog.Event, fields ...map[string]interface{}) {
	for _, fm := range fields {
		for k, v := range fm {
			event.Interface(k, v)
		}
	}
}

// callerInfo renders "file:func:line" for the frame skip levels above its caller.
func callerInfo(skip int) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "???:???:0"
	}
	fn := "???"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = f.Name()
		if idx := strings.LastIndex(fn, "/"); idx >= 0 {
			fn = fn[idx+1:]
		}
	}
	return fmt.Sprintf("%s:%s:%d", filepath.Base(file), fn, line)
}

// levelWriter adapts a zerolog.Logger to io.Writer.
type levelWriter struct {
	logger zerolog.Logger
	level  zerolog.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.logger.WithLevel(w.level).Msg(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
