package logger

import (
	"time"
)

// Builder provides a fluent API for building Dispatcher instances
type Builder struct {
	settings Settings
	clock    func() time.Time
}

// NewBuilder creates a builder preloaded with the build's defaults: Verbose
// to stdout synchronously, or Warn to nowhere asynchronously when built
// with the release tag.
func NewBuilder() *Builder {
	return &Builder{
		settings: DefaultSettings(),
		clock:    time.Now,
	}
}

// DefaultSettings returns the build's default configuration
func DefaultSettings() Settings {
	s := buildDefaults()
	s.TagOverrides = map[string]Level{}
	s.ModuleOverrides = map[string]Level{}
	s.ModuleTagOverrides = map[string]map[string]Level{}
	return s
}

// WithSettings replaces everything configured so far
func (b *Builder) WithSettings(s Settings) *Builder {
	b.settings = s
	return b
}

// WithSink sets the sink
func (b *Builder) WithSink(s Sink) *Builder {
	b.settings.Sink = s
	return b
}

// WithAcceptLevel sets the global minimum level
func (b *Builder) WithAcceptLevel(l Level) *Builder {
	b.settings.AcceptLevel = l
	return b
}

// WithAsync enables or disables asynchronous forwarding
func (b *Builder) WithAsync(enabled bool) *Builder {
	b.settings.Async = enabled
	return b
}

// WithTagOverride adds a per-tag minimum level
func (b *Builder) WithTagOverride(tag string, l Level) *Builder {
	if b.settings.TagOverrides == nil {
		b.settings.TagOverrides = map[string]Level{}
	}
	b.settings.TagOverrides[tag] = l
	return b
}

// WithModuleOverride adds a per-module minimum level
func (b *Builder) WithModuleOverride(module string, l Level) *Builder {
	if b.settings.ModuleOverrides == nil {
		b.settings.ModuleOverrides = map[string]Level{}
	}
	b.settings.ModuleOverrides[module] = l
	return b
}

// WithModuleTagOverride adds a per-module-per-tag minimum level
func (b *Builder) WithModuleTagOverride(module, tag string, l Level) *Builder {
	if b.settings.ModuleTagOverrides == nil {
		b.settings.ModuleTagOverrides = map[string]map[string]Level{}
	}
	tags, ok := b.settings.ModuleTagOverrides[module]
	if !ok {
		tags = map[string]Level{}
		b.settings.ModuleTagOverrides[module] = tags
	}
	tags[tag] = l
	return b
}

// WithClock sets the timestamp source (default: time.Now)
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build creates the Dispatcher instance
func (b *Builder) Build() *Dispatcher {
	return newDispatcher(b.settings, b.clock)
}
