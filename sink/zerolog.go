package sink

import (
	"github.com/rs/zerolog"

	"github.com/philipp01105/logproxy/core"
)

// ZerologLevel maps a level onto zerolog; Verbose becomes Trace.
func ZerologLevel(l core.Level) zerolog.Level {
	switch l {
	case core.VerboseLevel:
		return zerolog.TraceLevel
	case core.DebugLevel:
		return zerolog.DebugLevel
	case core.InfoLevel:
		return zerolog.InfoLevel
	case core.WarnLevel:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Zerolog returns a sink that forwards entries to l.
func Zerolog(l zerolog.Logger) core.Sink {
	return func(entry core.Entry) {
		ev := l.WithLevel(ZerologLevel(entry.Level))
		if ev == nil {
			return
		}
		ev.Time(zerolog.TimestampFieldName, entry.Time).
			Str("module", entry.Module).
			Str("tag", entry.Tag).
			Str("func", entry.Caller.Function).
			Int("line", entry.Caller.Line).
			Str("file", entry.Caller.FileID).
			Msg(entry.Text())
	}
}
