package logger

import (
	"sync/atomic"

	"github.com/philipp01105/logproxy/core"
)

// StatsProvider is implemented by anything that can report dispatch counts.
type StatsProvider interface {
	Stats() Snapshot
}

// Stats tracks per-level dispatch counts
type Stats struct {
	forwarded  [len(core.Levels)]atomic.Uint64
	suppressed [len(core.Levels)]atomic.Uint64
}

// Snapshot is a point-in-time copy of the counters
type Snapshot struct {
	Forwarded  map[Level]uint64
	Suppressed map[Level]uint64
	// QueueDepth is the number of messages waiting for the async worker
	QueueDepth int
}

// ForwardedTotal returns the forwarded count across all levels
func (s Snapshot) ForwardedTotal() uint64 {
	var n uint64
	for _, v := range s.Forwarded {
		n += v
	}
	return n
}

// SuppressedTotal returns the suppressed count across all levels
func (s Snapshot) SuppressedTotal() uint64 {
	var n uint64
	for _, v := range s.Suppressed {
		n += v
	}
	return n
}

func (s *Stats) incForwarded(level Level) {
	if level.Valid() {
		s.forwarded[level].Add(1)
	}
}

func (s *Stats) incSuppressed(level Level) {
	if level.Valid() {
		s.suppressed[level].Add(1)
	}
}

func (s *Stats) snapshot() Snapshot {
	snap := Snapshot{
		Forwarded:  make(map[Level]uint64, len(core.Levels)),
		Suppressed: make(map[Level]uint64, len(core.Levels)),
	}
	for _, level := range core.Levels {
		snap.Forwarded[level] = s.forwarded[level].Load()
		snap.Suppressed[level] = s.suppressed[level].Load()
	}
	return snap
}

func (s *Stats) reset() {
	for _, level := range core.Levels {
		s.forwarded[level].Store(0)
		s.suppressed[level].Store(0)
	}
}
