package core

import (
	"time"
)

// Entry represents a log message that passed filtering and is on its way
// to a sink.
type Entry struct {
	Time    time.Time
	Level   Level
	Module  string
	Caller  CallerInfo
	Tag     string
	Message func() string
}

// Text evaluates the message. Sinks call it at most once per entry, and only
// when they are about to produce output.
func (e Entry) Text() string {
	if e.Message == nil {
		return ""
	}
	return e.Message()
}

// Sink is the terminal function that renders or transmits an entry. It has
// no return value; failures are the sink's own business.
type Sink func(entry Entry)
