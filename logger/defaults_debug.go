//go:build !release

package logger

import (
	"github.com/philipp01105/logproxy/sink"
)

// buildDefaults: everything to stdout, on the caller's goroutine.
func buildDefaults() Settings {
	return Settings{
		AcceptLevel: VerboseLevel,
		Sink:        sink.Stdout(),
		Async:       false,
	}
}
