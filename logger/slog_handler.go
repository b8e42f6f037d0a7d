package logger

import (
	"context"
	"log/slog"
	"strings"

	"github.com/philipp01105/logproxy/core"
	"github.com/philipp01105/logproxy/sink"
)

// TagKey is the attribute key that sets the tag through slog.Logger.With.
const TagKey = "tag"

// SlogHandler adapts a Dispatcher to slog.Handler, so log/slog call sites
// go through the same overrides as everything else.
type SlogHandler struct {
	d     *Dispatcher
	tag   string
	attrs []slog.Attr
	group string
}

// NewSlogHandler creates a slog.Handler that logs through d with tag.
func NewSlogHandler(d *Dispatcher, tag string) *SlogHandler {
	return &SlogHandler{d: d, tag: tag}
}

// Enabled reports whether a record at level could be forwarded. It is exact
// unless module overrides exist, in which case the module of the record is
// needed and Handle decides.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	d := h.d
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.moduleOverride) > 0 || len(d.moduleTagOverride) > 0 {
		return true
	}
	return d.decide(sink.LevelFromSlog(level), h.tag, "").Forward
}

// Handle forwards the record. Attributes are copied now and rendered as
// " key=value" after the message only if the dispatcher forwards it.
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+record.NumAttrs())
	attrs = append(attrs, h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, prefixAttr(h.group, a))
		return true
	})

	msg := record.Message
	h.d.Log(sink.LevelFromSlog(record.Level), h.tag, core.CallerFromPC(record.PC), func() string {
		if len(attrs) == 0 {
			return msg
		}
		var b strings.Builder
		b.WriteString(msg)
		for _, a := range attrs {
			writeAttr(&b, "", a)
		}
		return b.String()
	})
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes. A string
// attribute named TagKey outside any group replaces the tag instead.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := &SlogHandler{
		d:     h.d,
		tag:   h.tag,
		attrs: make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs)),
		group: h.group,
	}
	copy(n.attrs, h.attrs)
	for _, a := range attrs {
		if h.group == "" && a.Key == TagKey && a.Value.Kind() == slog.KindString {
			n.tag = a.Value.String()
			continue
		}
		n.attrs = append(n.attrs, prefixAttr(h.group, a))
	}
	return n
}

// WithGroup returns a new SlogHandler with the given group name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	newAttrs := make([]slog.Attr, len(h.attrs))
	copy(newAttrs, h.attrs)
	return &SlogHandler{
		d:     h.d,
		tag:   h.tag,
		attrs: newAttrs,
		group: newGroup,
	}
}

func prefixAttr(group string, a slog.Attr) slog.Attr {
	if group != "" {
		a.Key = group + "." + a.Key
	}
	return a
}

// writeAttr renders a as " key=value", flattening groups with dotted keys.
func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, key, ga)
		}
		return
	}
	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}
