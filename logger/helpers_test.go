package logger

import (
	"sync"
	"time"

	"github.com/philipp01105/logproxy/core"
)

var fixedTime = time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)

// recorder is a sink that keeps every entry and its evaluated text.
type recorder struct {
	mu      sync.Mutex
	entries []core.Entry
	texts   []string
}

func (r *recorder) sink(e core.Entry) {
	text := e.Text()
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.texts = append(r.texts, text)
	r.mu.Unlock()
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *recorder) last() (core.Entry, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.entries) == 0 {
		return core.Entry{}, ""
	}
	return r.entries[len(r.entries)-1], r.texts[len(r.texts)-1]
}

func (r *recorder) allTexts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.texts))
	copy(out, r.texts)
	return out
}

func newTestDispatcher(rec *recorder, level Level) *Dispatcher {
	return NewBuilder().
		WithSink(rec.sink).
		WithAcceptLevel(level).
		WithAsync(false).
		WithClock(func() time.Time { return fixedTime }).
		Build()
}

func at(fileID string) CallerInfo {
	return core.CallerInfo{FileID: fileID, Function: "fn", Line: 1}
}

func text(s string) func() string {
	return func() string { return s }
}
