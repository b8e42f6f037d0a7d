package sink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/logproxy/core"
)

// ZapLevel maps a level onto zap. Verbose has no zap counterpart and
// becomes Debug.
func ZapLevel(l core.Level) zapcore.Level {
	switch l {
	case core.VerboseLevel, core.DebugLevel:
		return zapcore.DebugLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.WarnLevel:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Zap returns a sink that forwards entries to l. The entry's timestamp and
// call site replace the ones zap would record.
func Zap(l *zap.Logger) core.Sink {
	return func(entry core.Entry) {
		level := ZapLevel(entry.Level)
		if !l.Core().Enabled(level) {
			return
		}
		// Samplers key on the message at Check time.
		ce := l.Check(level, entry.Text())
		if ce == nil {
			return
		}
		ce.Time = entry.Time
		if entry.Caller.File != "" {
			ce.Caller = zapcore.EntryCaller{
				Defined:  true,
				File:     entry.Caller.File,
				Line:     entry.Caller.Line,
				Function: entry.Caller.Function,
			}
		}
		ce.Write(
			zap.String("module", entry.Module),
			zap.String("tag", entry.Tag),
			zap.String("file", entry.Caller.FileID),
		)
	}
}
