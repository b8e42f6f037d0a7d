package formatter

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/philipp01105/logproxy/core"
)

// NewlineMarker replaces every '\n' of a message in text output.
const NewlineMarker = "~n"

// TextFormatter formats entries as single console lines
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = ISO8601
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatEntry writes the formatted entry into the given buffer. The message
// closure is evaluated here and nowhere else.
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	// Timestamp - use AppendFormat to avoid string allocation
	buf.Write(entry.Time.In(f.Location).AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	buf.WriteString(" [")
	buf.WriteByte(entry.Level.Code())
	buf.WriteString("] ")

	buf.WriteString(entry.Module)
	buf.WriteByte(':')
	buf.WriteString(entry.Caller.Function)
	buf.WriteByte(':')
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))

	buf.WriteString(" [")
	buf.WriteString(entry.Tag)
	buf.WriteString("] ")

	writeEscaped(buf, entry.Text())

	buf.WriteString(" ### ")
	buf.WriteString(entry.Caller.FileID)
	buf.WriteByte('\n')
}

// writeEscaped writes msg with every newline replaced by NewlineMarker.
func writeEscaped(buf *bytes.Buffer, msg string) {
	for {
		i := strings.IndexByte(msg, '\n')
		if i < 0 {
			buf.WriteString(msg)
			return
		}
		buf.WriteString(msg[:i])
		buf.WriteString(NewlineMarker)
		msg = msg[i+1:]
	}
}
