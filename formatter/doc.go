// Package formatter defines how entries are rendered into bytes.
//
// It exposes two interfaces: Formatter, which returns a []byte, and
// BufferFormatter, which appends into a caller-provided bytes.Buffer. Sinks
// check for BufferFormatter at construction time and prefer it, which keeps
// the write path free of intermediate slices.
//
// TextFormatter produces the console line format:
//
//	2022-01-04T08:30:00Z [I] net:(*Client).Dial:42 [http] connected ### net/client.go
//
// Newlines inside the message are escaped as "~n" so that a multi-line
// message stays one line of output. Downstream tooling parses this format,
// so it is reproduced byte for byte.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
