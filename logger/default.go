package logger

import (
	"context"
	"sync"
)

var (
	defaultDispatcher *Dispatcher
	defaultMu         sync.RWMutex
)

func init() {
	defaultDispatcher = New()
}

// Default returns the process-wide dispatcher
func Default() *Dispatcher {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultDispatcher
}

// SetDefault replaces the process-wide dispatcher
func SetDefault(d *Dispatcher) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultDispatcher = d
}

// Package-level convenience functions using the default dispatcher. They
// call dispatch directly so the call site is the same number of frames up
// as for the methods.

// Verbose logs a verbose message using the default dispatcher
func Verbose(tag string, msg func() string) {
	Default().dispatch(VerboseLevel, tag, nil, msg)
}

// Debug logs a debug message using the default dispatcher
func Debug(tag string, msg func() string) {
	Default().dispatch(DebugLevel, tag, nil, msg)
}

// Info logs an info message using the default dispatcher
func Info(tag string, msg func() string) {
	Default().dispatch(InfoLevel, tag, nil, msg)
}

// Warn logs a warning message using the default dispatcher
func Warn(tag string, msg func() string) {
	Default().dispatch(WarnLevel, tag, nil, msg)
}

// Error logs an error message using the default dispatcher
func Error(tag string, msg func() string) {
	Default().dispatch(ErrorLevel, tag, nil, msg)
}

// Verbosef logs a formatted verbose message using the default dispatcher
func Verbosef(tag, format string, args ...interface{}) {
	Default().dispatch(VerboseLevel, tag, nil, sprintf(format, args))
}

// Debugf logs a formatted debug message using the default dispatcher
func Debugf(tag, format string, args ...interface{}) {
	Default().dispatch(DebugLevel, tag, nil, sprintf(format, args))
}

// Infof logs a formatted info message using the default dispatcher
func Infof(tag, format string, args ...interface{}) {
	Default().dispatch(InfoLevel, tag, nil, sprintf(format, args))
}

// Warnf logs a formatted warning message using the default dispatcher
func Warnf(tag, format string, args ...interface{}) {
	Default().dispatch(WarnLevel, tag, nil, sprintf(format, args))
}

// Errorf logs a formatted error message using the default dispatcher
func Errorf(tag, format string, args ...interface{}) {
	Default().dispatch(ErrorLevel, tag, nil, sprintf(format, args))
}

// Log forwards a message with an explicit source location using the
// default dispatcher
func Log(level Level, tag string, caller CallerInfo, msg func() string) {
	Default().dispatch(level, tag, &caller, msg)
}

// Flush waits for the default dispatcher's async queue to drain
func Flush(ctx context.Context) error {
	return Default().Flush(ctx)
}
