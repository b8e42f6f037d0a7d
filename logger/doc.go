// Package logger is the public API of logproxy. Most users only need to
// import this package.
//
// A Dispatcher decides, per message, whether to forward it to the active
// sink. The decision looks at the message level, its tag and the module of
// the call site, in this order:
//
//  1. a tag override for the tag,
//  2. a module override for the module,
//  3. a module-tag override for the pair,
//  4. the global accept level.
//
// An override that is stricter than the message rejects it. An override
// that the message clears exempts it from the global accept level, so
// overrides can make a message more visible than the global level alone
// would. The global level only applies when no override matched.
//
// Messages are closures. They are evaluated by the sink, never by the
// filter, so a rejected message costs a map lookup or two and nothing else:
//
//	logger.Debug("cache", func() string { return dump(entries) })
//	logger.Infof("net", "dialing %s", addr) // formatted only if forwarded
//
// The package initializes a default Dispatcher in init(). Its settings
// depend on the build: Verbose to stdout on the caller's goroutine, or,
// with -tags release, Warn to a no-op sink with asynchronous forwarding.
// Applications typically configure it once at startup:
//
//	d := logger.NewBuilder().
//	    WithSink(sink.Zap(zl)).
//	    WithAcceptLevel(logger.InfoLevel).
//	    WithTagOverride("net", logger.WarnLevel).
//	    Build()
//	logger.SetDefault(d)
//
// In async mode passing messages are queued to a single background
// goroutine with an unbounded FIFO queue; Flush waits for it to drain.
package logger
