package sink

import (
	"context"
	"log/slog"

	"github.com/philipp01105/logproxy/core"
)

// LevelVerbose is the slog level used for Verbose entries.
const LevelVerbose = slog.LevelDebug - 4

// SlogLevel maps a level onto log/slog.
func SlogLevel(l core.Level) slog.Level {
	switch l {
	case core.VerboseLevel:
		return LevelVerbose
	case core.DebugLevel:
		return slog.LevelDebug
	case core.InfoLevel:
		return slog.LevelInfo
	case core.WarnLevel:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// LevelFromSlog maps a slog level back; anything below Debug is Verbose.
func LevelFromSlog(l slog.Level) core.Level {
	switch {
	case l >= slog.LevelError:
		return core.ErrorLevel
	case l >= slog.LevelWarn:
		return core.WarnLevel
	case l >= slog.LevelInfo:
		return core.InfoLevel
	case l >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.VerboseLevel
	}
}

// SlogConfig holds configuration for the slog sink
type SlogConfig struct {
	// Handler receives the records
	Handler slog.Handler
	// OnError receives errors returned by Handler.Handle (default: ignored)
	OnError func(error)
}

// Slog returns a sink that forwards entries to h, ignoring handler errors.
func Slog(h slog.Handler) core.Sink {
	return NewSlog(SlogConfig{Handler: h})
}

// NewSlog returns a sink that forwards entries to cfg.Handler.
func NewSlog(cfg SlogConfig) core.Sink {
	h := cfg.Handler
	return func(entry core.Entry) {
		ctx := context.Background()
		level := SlogLevel(entry.Level)
		if !h.Enabled(ctx, level) {
			return
		}
		r := slog.NewRecord(entry.Time, level, entry.Text(), 0)
		r.AddAttrs(
			slog.String("module", entry.Module),
			slog.String("tag", entry.Tag),
			slog.String("func", entry.Caller.Function),
			slog.Int("line", entry.Caller.Line),
			slog.String("file", entry.Caller.FileID),
		)
		if err := h.Handle(ctx, r); err != nil && cfg.OnError != nil {
			cfg.OnError(err)
		}
	}
}
