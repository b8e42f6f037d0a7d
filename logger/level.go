package logger

import (
	"github.com/philipp01105/logproxy/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	VerboseLevel = core.VerboseLevel
	DebugLevel   = core.DebugLevel
	InfoLevel    = core.InfoLevel
	WarnLevel    = core.WarnLevel
	ErrorLevel   = core.ErrorLevel
)

// Sink and CallerInfo are re-exported so callers rarely need core.
type (
	Sink       = core.Sink
	Entry      = core.Entry
	CallerInfo = core.CallerInfo
)

// ParseLevel converts a level name or one-character code to a Level
func ParseLevel(s string) (Level, error) {
	return core.ParseLevel(s)
}
