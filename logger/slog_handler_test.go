package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/philipp01105/logproxy/sink"
)

func TestSlogHandler_Forward(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec, VerboseLevel)
	log := slog.New(NewSlogHandler(d, "app"))

	log.Info("hello", "k", 1, slog.Group("g", "a", "b"))

	e, got := rec.last()
	if got != "hello k=1 g.a=b" {
		t.Errorf("text = %q", got)
	}
	if e.Tag != "app" || e.Level != InfoLevel {
		t.Errorf("tag=%q level=%v", e.Tag, e.Level)
	}
	if e.Caller.FileID != "logger/slog_handler_test.go" || e.Module != "logger" {
		t.Errorf("caller = %+v module = %q", e.Caller, e.Module)
	}
}

func TestSlogHandler_Levels(t *testing.T) {
	tests := []struct {
		slog slog.Level
		want Level
	}{
		{sink.LevelVerbose, VerboseLevel},
		{slog.LevelDebug, DebugLevel},
		{slog.LevelInfo, InfoLevel},
		{slog.LevelWarn, WarnLevel},
		{slog.LevelError, ErrorLevel},
		{slog.LevelError + 4, ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.slog.String(), func(t *testing.T) {
			rec := &recorder{}
			d := newTestDispatcher(rec, VerboseLevel)
			slog.New(NewSlogHandler(d, "app")).Log(context.Background(), tt.slog, "m")

			e, _ := rec.last()
			if e.Level != tt.want {
				t.Errorf("level = %v, want %v", e.Level, tt.want)
			}
		})
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec, WarnLevel)
	h := NewSlogHandler(d, "app")
	ctx := context.Background()

	if h.Enabled(ctx, slog.LevelInfo) {
		t.Error("Info should be disabled below a Warn accept level")
	}
	if !h.Enabled(ctx, slog.LevelWarn) {
		t.Error("Warn should be enabled")
	}

	d.SetTagOverride("app", DebugLevel)
	if !h.Enabled(ctx, slog.LevelDebug) {
		t.Error("tag override should enable Debug")
	}

	slog.New(h).Info("skipped?")
	if rec.len() != 1 {
		t.Errorf("forwarded %d, want 1", rec.len())
	}
}

func TestSlogHandler_TagAttribute(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec, ErrorLevel)
	d.SetTagOverride("net", VerboseLevel)
	log := slog.New(NewSlogHandler(d, "app"))

	log.Debug("dropped")
	log.With(TagKey, "net").Debug("kept", "n", 2)

	if got := rec.allTexts(); len(got) != 1 || got[0] != "kept n=2" {
		t.Fatalf("forwarded %q", got)
	}
	if e, _ := rec.last(); e.Tag != "net" {
		t.Errorf("tag = %q", e.Tag)
	}
}

func TestSlogHandler_ModuleOverride(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec, VerboseLevel)
	d.SetModuleOverride("logger", ErrorLevel)
	log := slog.New(NewSlogHandler(d, "app"))

	log.Warn("rejected")
	log.Error("accepted")

	if got := rec.allTexts(); len(got) != 1 || got[0] != "accepted" {
		t.Errorf("forwarded %q", got)
	}
}

func TestSlogHandler_Groups(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(rec, VerboseLevel)
	log := slog.New(NewSlogHandler(d, "app")).With("svc", "api").WithGroup("req").With("id", 7)

	log.Info("done", "status", 200)

	if _, got := rec.last(); got != "done svc=api req.id=7 req.status=200" {
		t.Errorf("text = %q", got)
	}
}

func TestSlogHandler_AttrsAreLazy(t *testing.T) {
	d := newTestDispatcher(&recorder{}, VerboseLevel)
	d.SetModuleOverride("logger", ErrorLevel)

	resolved := false
	slog.New(NewSlogHandler(d, "app")).Info("m", "v", valuerFunc(func() slog.Value {
		resolved = true
		return slog.StringValue("x")
	}))

	if resolved {
		t.Error("attribute resolved for a suppressed record")
	}
}

type valuerFunc func() slog.Value

func (f valuerFunc) LogValue() slog.Value { return f() }
