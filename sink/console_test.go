package sink

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/philipp01105/logproxy/core"
)

func testEntry(level core.Level, msg string) core.Entry {
	return core.Entry{
		Time:   time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC),
		Level:  level,
		Module: "Core",
		Caller: core.CallerInfo{
			File:     "/src/Core/runner.go",
			FileID:   "Core/runner.go",
			Function: "run",
			Line:     42,
		},
		Tag:     "net",
		Message: func() string { return msg },
	}
}

func TestConsole_Format(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(ConsoleConfig{Writer: &buf})

	c.Log(testEntry(core.InfoLevel, "a\nb"))

	want := "2026-02-18T13:00:00Z [I] Core:run:42 [net] a~nb ### Core/runner.go\n"
	if buf.String() != want {
		t.Errorf("Log() wrote %q, want %q", buf.String(), want)
	}
}

func TestConsole_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(ConsoleConfig{Writer: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Log(testEntry(core.DebugLevel, "parallel"))
			}
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "[D] Core:run:42 [net] parallel ###"); got != 1000 {
		t.Errorf("Expected 1000 intact lines, got %d", got)
	}
}

func TestConsole_ReentrantMessage(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(ConsoleConfig{Writer: &buf})

	outer := testEntry(core.InfoLevel, "")
	outer.Message = func() string {
		c.Log(testEntry(core.InfoLevel, "inner"))
		return "outer"
	}

	done := make(chan struct{})
	go func() {
		c.Log(outer)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Log deadlocked on a message that logs")
	}
	if !strings.Contains(buf.String(), "inner") || !strings.Contains(buf.String(), "outer") {
		t.Errorf("Expected both lines, got: %s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestConsole_OnError(t *testing.T) {
	var got error
	c := NewConsole(ConsoleConfig{
		Writer:  failingWriter{},
		OnError: func(err error) { got = err },
	})

	c.Log(testEntry(core.ErrorLevel, "boom"))

	if got == nil || got.Error() != "disk on fire" {
		t.Errorf("Expected write error to be reported, got %v", got)
	}
}

func TestIsConcurrentSafeWriter(t *testing.T) {
	tests := []struct {
		name     string
		writer   io.Writer
		expected bool
	}{
		{"io.Discard", io.Discard, true},
		{"os.Stdout", os.Stdout, true},
		{"bytes.Buffer", &bytes.Buffer{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConcurrentSafeWriter(tt.writer); got != tt.expected {
				t.Errorf("isConcurrentSafeWriter() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNop(t *testing.T) {
	evaluated := false
	e := testEntry(core.ErrorLevel, "")
	e.Message = func() string { evaluated = true; return "x" }

	Nop(e)

	if evaluated {
		t.Error("Nop evaluated the message")
	}
}

func BenchmarkConsole_Discard(b *testing.B) {
	c := NewConsole(ConsoleConfig{Writer: io.Discard})
	e := testEntry(core.InfoLevel, "benchmark message")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Log(e)
	}
}
