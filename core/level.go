package core

import (
	"fmt"
	"strings"
)

// Level represents the severity level of a log entry
type Level int8

const (
	// VerboseLevel for high-volume tracing output
	VerboseLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages
	InfoLevel
	// WarnLevel for warning messages
	WarnLevel
	// ErrorLevel for error messages
	ErrorLevel
)

// Levels lists every level from least to most severe.
var Levels = [...]Level{VerboseLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel}

// String returns the string representation of the level
func (l Level) String() string {
	switch l {
	case VerboseLevel:
		return "VERBOSE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Code returns the one-character display code used by the console format.
func (l Level) Code() byte {
	switch l {
	case VerboseLevel:
		return 'V'
	case DebugLevel:
		return 'D'
	case InfoLevel:
		return 'I'
	case WarnLevel:
		return 'W'
	case ErrorLevel:
		return 'E'
	default:
		return '?'
	}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	return l >= VerboseLevel && l <= ErrorLevel
}

// ParseLevel converts a level name or one-character code to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERBOSE", "V", "TRACE":
		return VerboseLevel, nil
	case "DEBUG", "D":
		return DebugLevel, nil
	case "INFO", "I":
		return InfoLevel, nil
	case "WARN", "WARNING", "W":
		return WarnLevel, nil
	case "ERROR", "E":
		return ErrorLevel, nil
	default:
		return VerboseLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid log level %d", l)
	}
	return []byte(strings.ToLower(l.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
