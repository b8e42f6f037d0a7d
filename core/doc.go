// Package core defines the shared types used across logproxy.
//
// It provides the Level type for severity filtering, the Entry type that
// represents a single log event on its way to a sink, the Sink function type
// every output implements, and CallerInfo together with the helpers that
// derive a module name from a call site.
//
// An Entry never carries a formatted message. Message is a closure that the
// sink evaluates, so a message that is filtered out is never built.
//
// The module of a call site is the first path component of its FileID. For
// Go code the FileID is "<package>/<file>.go", so the module is the name of
// the directory holding the package:
//
//	core.ModuleName("storage/cache.go") // "storage"
package core
