// Package sink provides the built-in core.Sink implementations.
//
// Every sink is a plain function value, so any of them can be handed to a
// Dispatcher and swapped at runtime:
//
//   - Console writes TextFormatter lines to any io.Writer (default: stdout).
//   - File appends TextFormatter lines to a buffered file. There is no
//     rotation; Sync flushes and Close releases the file.
//   - Nop discards everything. It is the release-build default.
//   - Zap, Zerolog and Slog forward entries to an existing logger of the
//     respective library. The backend's level is consulted before the
//     message is evaluated, so a backend that is stricter than the
//     dispatcher still never builds the message.
//
// Sinks never return errors. Sinks that perform I/O accept an OnError
// callback for write failures; without one, failures are dropped.
package sink
