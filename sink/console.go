package sink

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/formatter"
)

// ConsoleConfig holds configuration for the console sink
type ConsoleConfig struct {
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// ConcurrentWriter indicates the Writer supports concurrent Write calls.
	// Automatically detected for io.Discard and *os.File.
	ConcurrentWriter bool
	// OnError receives write and format failures (default: ignored)
	OnError func(error)
}

// Console writes one formatted line per entry to a writer.
type Console struct {
	writer          io.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	concurrentSafe  bool
	onError         func(error)
	mu              sync.Mutex // serializes writes
	bufPool         sync.Pool
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the sink to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// NewConsole creates a console sink. Use its Log method as the core.Sink.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	c := &Console{
		writer:         cfg.Writer,
		formatter:      cfg.Formatter,
		concurrentSafe: cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer),
		onError:        cfg.OnError,
	}
	c.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	c.bufPool.New = func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	}
	return c
}

// Stdout returns a console sink writing to os.Stdout with the default format.
func Stdout() core.Sink {
	return NewConsole(ConsoleConfig{}).Log
}

// Log formats the entry outside the write lock, so a message closure that
// logs through the same sink cannot deadlock, then writes it.
func (c *Console) Log(entry core.Entry) {
	if c.bufferFormatter != nil {
		buf := c.bufPool.Get().(*bytes.Buffer)
		buf.Reset()
		c.bufferFormatter.FormatEntry(&entry, buf)
		c.write(buf.Bytes())
		if buf.Cap() <= 64*1024 {
			c.bufPool.Put(buf)
		}
		return
	}

	data, err := c.formatter.Format(&entry)
	if err != nil {
		c.report(err)
		return
	}
	c.write(data)
}

func (c *Console) write(p []byte) {
	var err error
	if c.concurrentSafe {
		_, err = c.writer.Write(p)
	} else {
		c.mu.Lock()
		_, err = c.writer.Write(p)
		c.mu.Unlock()
	}
	if err != nil {
		c.report(err)
	}
}

func (c *Console) report(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
