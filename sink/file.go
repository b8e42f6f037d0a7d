package sink

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/formatter"
)

// ErrClosed is reported to OnError for entries logged after Close.
var ErrClosed = errors.New("sink: file closed")

// FileConfig holds configuration for the file sink
type FileConfig struct {
	// Path is the log file; parent directories are created
	Path string
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// BufferSize of the buffered writer (default: 4096)
	BufferSize int
	// OnError receives write and format failures (default: ignored)
	OnError func(error)
}

// File appends formatted entries to a file through a buffered writer.
type File struct {
	path            string
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	onError         func(error)

	mu        sync.Mutex
	file      *os.File
	bufWriter *bufio.Writer
	syncBuf   bytes.Buffer
	closed    bool
}

// NewFile opens (or creates) the file in append mode.
func NewFile(cfg FileConfig) (*File, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("file sink: path is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("file sink: create directory: %w", err)
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("file sink: open %s: %w", cfg.Path, err)
	}

	f := &File{
		path:      cfg.Path,
		formatter: cfg.Formatter,
		onError:   cfg.OnError,
		file:      file,
		bufWriter: bufio.NewWriterSize(file, cfg.BufferSize),
	}
	f.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	if f.bufferFormatter != nil {
		f.syncBuf.Grow(256)
	}
	return f, nil
}

// Path returns the file the sink writes to.
func (f *File) Path() string {
	return f.path
}

// Log formats and buffers the entry.
func (f *File) Log(entry core.Entry) {
	var data []byte
	if f.bufferFormatter == nil {
		var err error
		if data, err = f.formatter.Format(&entry); err != nil {
			f.report(err)
			return
		}
	} else {
		// Evaluate the message before taking the lock.
		text := entry.Text()
		entry.Message = func() string { return text }
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.report(ErrClosed)
		return
	}
	if data == nil {
		f.syncBuf.Reset()
		f.bufferFormatter.FormatEntry(&entry, &f.syncBuf)
		data = f.syncBuf.Bytes()
	}
	_, err := f.bufWriter.Write(data)
	f.mu.Unlock()

	if err != nil {
		f.report(err)
	}
}

// Sync flushes buffered lines and commits the file to stable storage.
func (f *File) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrClosed
	}
	if err := f.bufWriter.Flush(); err != nil {
		return err
	}
	return f.file.Sync()
}

// Close flushes, syncs and closes the underlying file. It is safe to call
// more than once.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true
	return multierr.Combine(
		f.bufWriter.Flush(),
		f.file.Sync(),
		f.file.Close(),
	)
}

func (f *File) report(err error) {
	if f.onError != nil {
		f.onError(err)
	}
}
