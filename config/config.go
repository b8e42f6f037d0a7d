// Package config loads dispatcher settings from YAML and environment
// variables and keeps a dispatcher in sync with a config file.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/logproxy/core"
)

// Sink types accepted in sink.type.
const (
	SinkConsole = "console"
	SinkStderr  = "stderr"
	SinkFile    = "file"
	SinkNop     = "nop"
)

// Environment variables read by LoadWithEnvOverrides.
const (
	EnvLevel    = "LOGPROXY_LEVEL"
	EnvAsync    = "LOGPROXY_ASYNC"
	EnvSink     = "LOGPROXY_SINK"
	EnvSinkPath = "LOGPROXY_SINK_PATH"
)

// Config is the on-disk representation of a dispatcher's settings. Empty
// fields keep the build defaults.
type Config struct {
	Level      string                       `yaml:"level"`
	Async      *bool                        `yaml:"async"`
	Sink       SinkConfig                   `yaml:"sink"`
	Tags       map[string]string            `yaml:"tags"`
	Modules    map[string]string            `yaml:"modules"`
	ModuleTags map[string]map[string]string `yaml:"moduleTags"`
}

type SinkConfig struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
	// Writer receives console output (default: os.Stdout). Not read from YAML.
	Writer io.Writer `yaml:"-"`
}

// Parse decodes YAML and validates the result.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, Validate(cfg)
}

// Load reads YAML config from path and validates it.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(raw)
}

// LoadWithEnvOverrides loads path, when not empty, then lets LOGPROXY_*
// variables replace the level, async flag and sink.
func LoadWithEnvOverrides(path string) (Config, error) {
	var raw []byte
	if path != "" {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return ParseWithEnvOverrides(raw)
}

// ParseWithEnvOverrides decodes YAML, applies the LOGPROXY_* variables and
// validates the result.
func ParseWithEnvOverrides(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}

	var errs error
	if v := os.Getenv(EnvLevel); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv(EnvAsync); v != "" {
		async, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", EnvAsync, err))
		} else {
			cfg.Async = &async
		}
	}
	if v := os.Getenv(EnvSink); v != "" {
		cfg.Sink.Type = v
	}
	if v := os.Getenv(EnvSinkPath); v != "" {
		cfg.Sink.Path = v
	}
	return cfg, multierr.Append(errs, Validate(cfg))
}

// Validate reports every problem in cfg, not just the first.
func Validate(cfg Config) error {
	var errs error
	if cfg.Level != "" {
		if _, err := core.ParseLevel(cfg.Level); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("level: %w", err))
		}
	}

	switch cfg.Sink.Type {
	case "", SinkConsole, SinkStderr, SinkNop:
	case SinkFile:
		if cfg.Sink.Path == "" {
			errs = multierr.Append(errs, fmt.Errorf("sink.path is required for sink type %q", SinkFile))
		}
	default:
		errs = multierr.Append(errs, fmt.Errorf("sink.type %q is not one of console, stderr, file, nop", cfg.Sink.Type))
	}

	for tag, l := range cfg.Tags {
		if _, err := core.ParseLevel(l); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("tags.%s: %w", tag, err))
		}
	}
	for module, l := range cfg.Modules {
		if _, err := core.ParseLevel(l); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("modules.%s: %w", module, err))
		}
	}
	for module, tags := range cfg.ModuleTags {
		for tag, l := range tags {
			if _, err := core.ParseLevel(l); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("moduleTags.%s.%s: %w", module, tag, err))
			}
		}
	}
	return errs
}
