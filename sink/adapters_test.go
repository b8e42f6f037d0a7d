package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/logproxy/core"
)

func TestZap_ForwardsEntry(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	s := Zap(zap.New(obsCore))

	e := testEntry(core.WarnLevel, "disk almost full")
	s(e)

	require.Equal(t, 1, logs.Len())
	got := logs.All()[0]
	require.Equal(t, zapcore.WarnLevel, got.Level)
	require.Equal(t, "disk almost full", got.Message)
	require.True(t, got.Time.Equal(e.Time))
	require.Equal(t, 42, got.Caller.Line)
	require.Equal(t, map[string]interface{}{
		"module": "Core",
		"tag":    "net",
		"file":   "Core/runner.go",
	}, got.ContextMap())
}

func TestZap_RespectsBackendLevel(t *testing.T) {
	obsCore, logs := observer.New(zapcore.WarnLevel)
	s := Zap(zap.New(obsCore))

	evaluated := false
	e := testEntry(core.InfoLevel, "")
	e.Message = func() string { evaluated = true; return "quiet" }
	s(e)

	require.Zero(t, logs.Len())
	require.False(t, evaluated, "message must not be built for a disabled zap level")
}

func TestZap_SamplerSeesDistinctMessages(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	sampled := zapcore.NewSamplerWithOptions(obsCore, time.Second, 2, 0)
	s := Zap(zap.New(sampled))

	for i := 0; i < 5; i++ {
		s(testEntry(core.InfoLevel, fmt.Sprintf("message %d", i)))
	}
	// Repeats of one message are still sampled.
	for i := 0; i < 5; i++ {
		s(testEntry(core.InfoLevel, "repeated"))
	}

	require.Equal(t, 5+2, logs.Len())
	require.Equal(t, 2, logs.FilterMessage("repeated").Len())
}

func TestZapLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, ZapLevel(core.VerboseLevel))
	require.Equal(t, zapcore.DebugLevel, ZapLevel(core.DebugLevel))
	require.Equal(t, zapcore.InfoLevel, ZapLevel(core.InfoLevel))
	require.Equal(t, zapcore.WarnLevel, ZapLevel(core.WarnLevel))
	require.Equal(t, zapcore.ErrorLevel, ZapLevel(core.ErrorLevel))
}

func TestZerolog_ForwardsEntry(t *testing.T) {
	var buf bytes.Buffer
	s := Zerolog(zerolog.New(&buf).Level(zerolog.DebugLevel))

	s(testEntry(core.ErrorLevel, "connection reset"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "error", line["level"])
	require.Equal(t, "connection reset", line["message"])
	require.Equal(t, "Core", line["module"])
	require.Equal(t, "net", line["tag"])
	require.Equal(t, "run", line["func"])
	require.EqualValues(t, 42, line["line"])
	require.Equal(t, "Core/runner.go", line["file"])
}

func TestZerolog_RespectsBackendLevel(t *testing.T) {
	var buf bytes.Buffer
	s := Zerolog(zerolog.New(&buf).Level(zerolog.ErrorLevel))

	evaluated := false
	e := testEntry(core.WarnLevel, "")
	e.Message = func() string { evaluated = true; return "quiet" }
	s(e)

	require.Zero(t, buf.Len())
	require.False(t, evaluated)
}

func TestSlog_ForwardsEntry(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: LevelVerbose})
	s := Slog(h)

	s(testEntry(core.VerboseLevel, "tick"))

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "tick", line["msg"])
	require.Equal(t, "DEBUG-4", line["level"])
	require.Equal(t, "Core", line["module"])
	require.Equal(t, "net", line["tag"])
	require.EqualValues(t, 42, line["line"])
}

func TestSlog_RespectsHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	s := Slog(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	evaluated := false
	e := testEntry(core.InfoLevel, "")
	e.Message = func() string { evaluated = true; return "quiet" }
	s(e)

	require.Zero(t, buf.Len())
	require.False(t, evaluated)
}

type failingHandler struct {
	slog.Handler
}

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("handler closed")
}

func TestSlog_OnError(t *testing.T) {
	var reported []error
	s := NewSlog(SlogConfig{
		Handler: failingHandler{slog.NewTextHandler(io.Discard, nil)},
		OnError: func(err error) { reported = append(reported, err) },
	})

	s(testEntry(core.ErrorLevel, "lost"))

	require.Len(t, reported, 1)
	require.EqualError(t, reported[0], "handler closed")

	// Without OnError the error is dropped.
	Slog(failingHandler{slog.NewTextHandler(io.Discard, nil)})(testEntry(core.ErrorLevel, "lost"))
}

func TestSlogLevelMapping(t *testing.T) {
	for _, level := range core.Levels {
		require.Equal(t, level, LevelFromSlog(SlogLevel(level)), "round trip for %v", level)
	}
	require.Equal(t, core.VerboseLevel, LevelFromSlog(slog.LevelDebug-1))
	require.Equal(t, core.ErrorLevel, LevelFromSlog(slog.LevelError+4))
}
