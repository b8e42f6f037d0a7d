package config

import (
	"fmt"
	"io"
	"os"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/logger"
	"github.com/philipp01105/logproxy/sink"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Settings converts cfg into dispatcher settings. Fields left empty take
// logger.DefaultSettings. The returned Closer releases the sink opened for
// cfg (a file) and must be closed once the dispatcher no longer uses it.
func (cfg Config) Settings() (logger.Settings, io.Closer, error) {
	if err := Validate(cfg); err != nil {
		return logger.Settings{}, nil, err
	}

	s := logger.DefaultSettings()
	if cfg.Level != "" {
		s.AcceptLevel, _ = core.ParseLevel(cfg.Level)
	}
	if cfg.Async != nil {
		s.Async = *cfg.Async
	}
	for tag, l := range cfg.Tags {
		s.TagOverrides[tag], _ = core.ParseLevel(l)
	}
	for module, l := range cfg.Modules {
		s.ModuleOverrides[module], _ = core.ParseLevel(l)
	}
	for module, tags := range cfg.ModuleTags {
		m := make(map[string]logger.Level, len(tags))
		for tag, l := range tags {
			m[tag], _ = core.ParseLevel(l)
		}
		s.ModuleTagOverrides[module] = m
	}

	var closer io.Closer = nopCloser{}
	switch cfg.Sink.Type {
	case SinkConsole:
		s.Sink = sink.NewConsole(sink.ConsoleConfig{Writer: cfg.Sink.Writer}).Log
	case SinkStderr:
		s.Sink = sink.NewConsole(sink.ConsoleConfig{Writer: os.Stderr}).Log
	case SinkNop:
		s.Sink = sink.Nop
	case SinkFile:
		f, err := sink.NewFile(sink.FileConfig{Path: cfg.Sink.Path})
		if err != nil {
			return logger.Settings{}, nil, fmt.Errorf("open sink: %w", err)
		}
		s.Sink = f.Log
		closer = f
	}
	return s, closer, nil
}

// Apply reconfigures d from cfg. On error d is unchanged. The returned
// Closer belongs to the newly installed sink.
func Apply(d *logger.Dispatcher, cfg Config) (io.Closer, error) {
	s, closer, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	d.Reconfigure(s)
	return closer, nil
}
