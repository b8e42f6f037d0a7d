//go:build release

package logger

import (
	"github.com/philipp01105/logproxy/sink"
)

// buildDefaults: warnings and errors only, to no sink until one is set.
func buildDefaults() Settings {
	return Settings{
		AcceptLevel: WarnLevel,
		Sink:        sink.Nop,
		Async:       true,
	}
}
