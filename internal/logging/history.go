package logging

import (
	"context"
	"log/slog"
	"maps"
	"strings"
	"sync"
	"time"
)

// LogEntry is one record kept in the log history.
type LogEntry struct {
	Timestamp  time.Time      `json:"timestamp"`
	Level      string         `json:"level"`
	Module     string         `json:"module"`
	Message    string         `json:"message"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// History is a fixed-size ring of recent log entries.
type History struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewHistory creates a history holding up to size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{entries: make([]LogEntry, size)}
}

// Write appends entry, overwriting the oldest when full.
func (h *History) Write(entry LogEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.head] = entry
	h.head = (h.head + 1) % len(h.entries)
	if h.count < len(h.entries) {
		h.count++
	}
}

// Recent returns up to n entries, oldest first. n <= 0 returns everything.
func (h *History) Recent(n int) []LogEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n <= 0 || n > h.count {
		n = h.count
	}
	out := make([]LogEntry, n)
	start := (h.head - n + len(h.entries)) % len(h.entries)
	for i := range n {
		out[i] = h.entries[(start+i)%len(h.entries)]
	}
	return out
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

type historyHandler struct {
	history *History
	level   slog.Leveler
	module  string
	preset  map[string]any
	groups  []string
}

func newHistoryHandler(history *History, level slog.Leveler) *historyHandler {
	return &historyHandler{history: history, level: level}
}

func (h *historyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *historyHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp:  r.Time,
		Level:      strings.ToLower(r.Level.String()),
		Module:     h.module,
		Message:    r.Message,
		Attributes: make(map[string]any, len(h.preset)+r.NumAttrs()),
	}
	if entry.Module == "" {
		entry.Module = "main"
	}

	for k, v := range h.preset {
		entry.Attributes[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		flatten(entry.Attributes, h.groups, a)
		return true
	})

	if len(entry.Attributes) == 0 {
		entry.Attributes = nil
	}
	h.history.Write(entry)
	return nil
}

func flatten(dst map[string]any, groups []string, a slog.Attr) {
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		sub := append(append([]string(nil), groups...), a.Key)
		for _, ga := range v.Group() {
			flatten(dst, sub, ga)
		}
	case slog.KindTime:
		dst[key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		dst[key] = v.Duration().String()
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[key] = err.Error()
		} else {
			dst[key] = v.Any()
		}
	default:
		dst[key] = v.Any()
	}
}

// WithAttrs flattens attrs under the current groups right away, so later
// groups do not apply to them.
func (h *historyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = maps.Clone(h.preset)
	if next.preset == nil {
		next.preset = make(map[string]any, len(attrs))
	}
	for _, a := range attrs {
		if a.Key == "module" && len(h.groups) == 0 {
			next.module = a.Value.String()
			continue
		}
		flatten(next.preset, h.groups, a)
	}
	return &next
}

func (h *historyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}
