package logger

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/sink"
)

// callerSkip is the number of frames between dispatch and the user's call
// site for every public entry point.
const callerSkip = 2

// Settings is the complete mutable configuration of a Dispatcher.
type Settings struct {
	// AcceptLevel is the global minimum level, consulted only when no
	// override matched the message
	AcceptLevel Level
	// TagOverrides maps tag to minimum level
	TagOverrides map[string]Level
	// ModuleOverrides maps module name to minimum level
	ModuleOverrides map[string]Level
	// ModuleTagOverrides maps module name to tag to minimum level
	ModuleTagOverrides map[string]map[string]Level
	// Async hands passing messages to a background goroutine
	Async bool
	// Sink receives passing messages; nil means sink.Nop
	Sink Sink
}

// Dispatcher filters messages by level, tag and module and forwards the
// ones that pass to the active sink. All methods are safe for concurrent
// use; every setter takes effect for subsequent messages.
type Dispatcher struct {
	mu                sync.RWMutex
	acceptLevel       Level
	tagOverride       map[string]Level
	moduleOverride    map[string]Level
	moduleTagOverride map[string]map[string]Level
	async             bool
	sink              Sink

	clock      func() time.Time
	workerOnce sync.Once
	worker     atomic.Pointer[worker]
	stats      Stats
}

// New creates a Dispatcher with the build's default settings.
func New() *Dispatcher {
	return NewBuilder().Build()
}

func newDispatcher(s Settings, clock func() time.Time) *Dispatcher {
	if clock == nil {
		clock = time.Now
	}
	d := &Dispatcher{clock: clock}
	d.apply(s)
	return d
}

// apply replaces the configuration. Must hold d.mu or own d exclusively.
func (d *Dispatcher) apply(s Settings) {
	d.acceptLevel = s.AcceptLevel
	d.tagOverride = copyLevels(s.TagOverrides)
	d.moduleOverride = copyLevels(s.ModuleOverrides)
	d.moduleTagOverride = make(map[string]map[string]Level, len(s.ModuleTagOverrides))
	for module, tags := range s.ModuleTagOverrides {
		d.moduleTagOverride[module] = copyLevels(tags)
	}
	d.async = s.Async
	d.sink = orNop(s.Sink)
}

func copyLevels(m map[string]Level) map[string]Level {
	out := make(map[string]Level, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func orNop(s Sink) Sink {
	if s == nil {
		return sink.Nop
	}
	return s
}

// Reconfigure atomically replaces every setting.
func (d *Dispatcher) Reconfigure(s Settings) {
	d.mu.Lock()
	d.apply(s)
	d.mu.Unlock()
}

// Settings returns a copy of the current configuration.
func (d *Dispatcher) Settings() Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Settings{
		AcceptLevel:        d.acceptLevel,
		TagOverrides:       copyLevels(d.tagOverride),
		ModuleOverrides:    copyLevels(d.moduleOverride),
		ModuleTagOverrides: make(map[string]map[string]Level, len(d.moduleTagOverride)),
		Async:              d.async,
		Sink:               d.sink,
	}
	for module, tags := range d.moduleTagOverride {
		s.ModuleTagOverrides[module] = copyLevels(tags)
	}
	return s
}

// SetSink replaces the active sink. A nil sink discards everything.
func (d *Dispatcher) SetSink(s Sink) {
	d.mu.Lock()
	d.sink = orNop(s)
	d.mu.Unlock()
}

// SetAcceptLevel sets the global minimum level.
func (d *Dispatcher) SetAcceptLevel(l Level) {
	d.mu.Lock()
	d.acceptLevel = l
	d.mu.Unlock()
}

// AcceptLevel returns the global minimum level.
func (d *Dispatcher) AcceptLevel() Level {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.acceptLevel
}

// SetAsync switches between forwarding on the caller's goroutine and
// forwarding on the background worker.
func (d *Dispatcher) SetAsync(enabled bool) {
	d.mu.Lock()
	d.async = enabled
	d.mu.Unlock()
}

// Async reports whether asynchronous forwarding is enabled.
func (d *Dispatcher) Async() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.async
}

// SetTagOverride sets the minimum level for messages carrying tag.
func (d *Dispatcher) SetTagOverride(tag string, l Level) {
	d.mu.Lock()
	d.tagOverride[tag] = l
	d.mu.Unlock()
}

// DeleteTagOverride removes the override for tag.
func (d *Dispatcher) DeleteTagOverride(tag string) {
	d.mu.Lock()
	delete(d.tagOverride, tag)
	d.mu.Unlock()
}

// SetTagOverrides replaces all tag overrides.
func (d *Dispatcher) SetTagOverrides(m map[string]Level) {
	m = copyLevels(m)
	d.mu.Lock()
	d.tagOverride = m
	d.mu.Unlock()
}

// SetModuleOverride sets the minimum level for messages from module.
func (d *Dispatcher) SetModuleOverride(module string, l Level) {
	d.mu.Lock()
	d.moduleOverride[module] = l
	d.mu.Unlock()
}

// DeleteModuleOverride removes the override for module.
func (d *Dispatcher) DeleteModuleOverride(module string) {
	d.mu.Lock()
	delete(d.moduleOverride, module)
	d.mu.Unlock()
}

// SetModuleOverrides replaces all module overrides.
func (d *Dispatcher) SetModuleOverrides(m map[string]Level) {
	m = copyLevels(m)
	d.mu.Lock()
	d.moduleOverride = m
	d.mu.Unlock()
}

// SetModuleTagOverride sets the minimum level for messages carrying tag
// from module.
func (d *Dispatcher) SetModuleTagOverride(module, tag string, l Level) {
	d.mu.Lock()
	tags, ok := d.moduleTagOverride[module]
	if !ok {
		tags = make(map[string]Level)
		d.moduleTagOverride[module] = tags
	}
	tags[tag] = l
	d.mu.Unlock()
}

// DeleteModuleTagOverride removes the override for tag within module.
func (d *Dispatcher) DeleteModuleTagOverride(module, tag string) {
	d.mu.Lock()
	if tags, ok := d.moduleTagOverride[module]; ok {
		delete(tags, tag)
		if len(tags) == 0 {
			delete(d.moduleTagOverride, module)
		}
	}
	d.mu.Unlock()
}

// SetModuleTagOverrides replaces all module-tag overrides.
func (d *Dispatcher) SetModuleTagOverrides(m map[string]map[string]Level) {
	out := make(map[string]map[string]Level, len(m))
	for module, tags := range m {
		out[module] = copyLevels(tags)
	}
	d.mu.Lock()
	d.moduleTagOverride = out
	d.mu.Unlock()
}

// Log is the decision-and-forward operation for an explicitly supplied
// source location. The module is the first path component of
// caller.FileID. msg is evaluated by the sink, never by the filter.
func (d *Dispatcher) Log(level Level, tag string, caller CallerInfo, msg func() string) {
	d.dispatch(level, tag, &caller, msg)
}

// Explain runs the filter for a message from fileID without forwarding it.
func (d *Dispatcher) Explain(level Level, tag, fileID string) Decision {
	module := core.ModuleName(fileID)
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.decide(level, tag, module)
}

// dispatch filters and forwards. A nil caller is looked up from the call
// stack, callerSkip frames above dispatch, and only when needed.
func (d *Dispatcher) dispatch(level Level, tag string, caller *CallerInfo, msg func() string) {
	d.mu.RLock()

	var module string
	if caller != nil {
		module = core.ModuleName(caller.FileID)
	} else if len(d.moduleOverride) > 0 || len(d.moduleTagOverride) > 0 {
		c := core.GetCaller(callerSkip)
		caller = &c
		module = core.ModuleName(c.FileID)
	}

	if !d.decide(level, tag, module).Forward {
		d.mu.RUnlock()
		d.stats.incSuppressed(level)
		return
	}

	now := d.clock()
	s := d.sink
	async := d.async
	d.mu.RUnlock()

	if caller == nil {
		c := core.GetCaller(callerSkip)
		caller = &c
		module = core.ModuleName(c.FileID)
	}

	entry := core.Entry{
		Time:    now,
		Level:   level,
		Module:  module,
		Caller:  *caller,
		Tag:     tag,
		Message: msg,
	}
	d.stats.incForwarded(level)

	if async {
		d.asyncWorker().enqueue(task{sink: s, entry: entry})
		return
	}
	s(entry)
}

// decide applies the overrides in order tag, module, module-tag. Any
// matching override that the message clears exempts it from the global
// level. Must hold d.mu.
func (d *Dispatcher) decide(level Level, tag, module string) Decision {
	dec := Decision{Module: module, Rule: RuleGlobal}
	special := false

	if l, ok := d.tagOverride[tag]; ok {
		dec.Rule = RuleTag
		if l > level {
			return dec
		}
		special = true
	}

	if l, ok := d.moduleOverride[module]; ok {
		dec.Rule = RuleModule
		if l > level {
			return dec
		}
		special = true
	}

	if tags, ok := d.moduleTagOverride[module]; ok {
		if l, ok := tags[tag]; ok {
			dec.Rule = RuleModuleTag
			if l > level {
				return dec
			}
			special = true
		}
	}

	if !special && d.acceptLevel > level {
		return dec
	}

	dec.Forward = true
	return dec
}

func (d *Dispatcher) asyncWorker() *worker {
	d.workerOnce.Do(func() {
		d.worker.Store(newWorker())
	})
	return d.worker.Load()
}

// Flush blocks until every message queued for asynchronous forwarding has
// reached its sink, or ctx is done. It returns immediately when the
// dispatcher never forwarded asynchronously. When ctx ends first, a helper
// goroutine stays parked until the queue does drain, so repeated Flush calls
// against a stuck sink each leave one goroutine behind.
func (d *Dispatcher) Flush(ctx context.Context) error {
	w := d.worker.Load()
	if w == nil {
		return nil
	}
	return w.wait(ctx)
}

// Stats returns a snapshot of forwarded and suppressed counts.
func (d *Dispatcher) Stats() Snapshot {
	s := d.stats.snapshot()
	if w := d.worker.Load(); w != nil {
		s.QueueDepth = w.depth()
	}
	return s
}

// ResetStats sets all counters to zero.
func (d *Dispatcher) ResetStats() {
	d.stats.reset()
}

// Verbose logs a verbose message
func (d *Dispatcher) Verbose(tag string, msg func() string) {
	d.dispatch(VerboseLevel, tag, nil, msg)
}

// Debug logs a debug message
func (d *Dispatcher) Debug(tag string, msg func() string) {
	d.dispatch(DebugLevel, tag, nil, msg)
}

// Info logs an info message
func (d *Dispatcher) Info(tag string, msg func() string) {
	d.dispatch(InfoLevel, tag, nil, msg)
}

// Warn logs a warning message
func (d *Dispatcher) Warn(tag string, msg func() string) {
	d.dispatch(WarnLevel, tag, nil, msg)
}

// Error logs an error message
func (d *Dispatcher) Error(tag string, msg func() string) {
	d.dispatch(ErrorLevel, tag, nil, msg)
}

// Verbosef logs a verbose message; formatting happens only if it is forwarded
func (d *Dispatcher) Verbosef(tag, format string, args ...interface{}) {
	d.dispatch(VerboseLevel, tag, nil, sprintf(format, args))
}

// Debugf logs a debug message; formatting happens only if it is forwarded
func (d *Dispatcher) Debugf(tag, format string, args ...interface{}) {
	d.dispatch(DebugLevel, tag, nil, sprintf(format, args))
}

// Infof logs an info message; formatting happens only if it is forwarded
func (d *Dispatcher) Infof(tag, format string, args ...interface{}) {
	d.dispatch(InfoLevel, tag, nil, sprintf(format, args))
}

// Warnf logs a warning message; formatting happens only if it is forwarded
func (d *Dispatcher) Warnf(tag, format string, args ...interface{}) {
	d.dispatch(WarnLevel, tag, nil, sprintf(format, args))
}

// Errorf logs an error message; formatting happens only if it is forwarded
func (d *Dispatcher) Errorf(tag, format string, args ...interface{}) {
	d.dispatch(ErrorLevel, tag, nil, sprintf(format, args))
}

func sprintf(format string, args []interface{}) func() string {
	return func() string {
		return fmt.Sprintf(format, args...)
	}
}
