package formatter

import (
	"bytes"
	"sync"
	"time"

	"github.com/philipp01105/logproxy/core"
)

// ISO8601 is the default timestamp layout: second precision, "Z" for UTC.
const ISO8601 = "2006-01-02T15:04:05Z07:00"

// Formatter defines the interface for entry formatters
type Formatter interface {
	// Format formats an entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats an entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// TimestampFormat specifies the time layout (empty for ISO8601)
	TimestampFormat string
	// Location timestamps are converted to before formatting (nil for UTC)
	Location *time.Location
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
