package logging

import (
	"fmt"
	"log/slog"
	"testing"
	"time"
)

func TestHistoryWraps(t *testing.T) {
	h := NewHistory(3)
	for i := range 5 {
		h.Write(LogEntry{Message: fmt.Sprintf("m%d", i)})
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	tests := []struct {
		n    int
		want []string
	}{
		{0, []string{"m2", "m3", "m4"}},
		{2, []string{"m3", "m4"}},
		{10, []string{"m2", "m3", "m4"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			got := h.Recent(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Recent(%d) returned %d entries", tt.n, len(got))
			}
			for i, e := range got {
				if e.Message != tt.want[i] {
					t.Errorf("Recent(%d)[%d] = %q, want %q", tt.n, i, e.Message, tt.want[i])
				}
			}
		})
	}
}

func TestHistoryEmpty(t *testing.T) {
	if got := NewHistory(4).Recent(2); len(got) != 0 {
		t.Errorf("expected no entries, got %v", got)
	}
}

func TestHistoryHandlerAttributes(t *testing.T) {
	h := NewHistory(4)
	logger := slog.New(newHistoryHandler(h, slog.LevelDebug)).With("module", "devices")

	logger.WithGroup("probe").Info("probed",
		"path", "/dev/video0",
		"elapsed", 5*time.Millisecond,
		"error", fmt.Errorf("boom"))

	entries := h.Recent(1)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Module != "devices" {
		t.Errorf("Module = %q, want devices", e.Module)
	}
	if e.Attributes["probe.path"] != "/dev/video0" {
		t.Errorf("probe.path = %v", e.Attributes["probe.path"])
	}
	if e.Attributes["probe.elapsed"] != "5ms" {
		t.Errorf("probe.elapsed = %v", e.Attributes["probe.elapsed"])
	}
	if e.Attributes["probe.error"] != "boom" {
		t.Errorf("probe.error = %v", e.Attributes["probe.error"])
	}
}

func TestJournalKey(t *testing.T) {
	tests := map[string]string{
		"path":        "PATH",
		"bus.info":    "BUS_INFO",
		"device_id":   "DEVICE_ID",
		"Fourcc-Code": "FOURCC_CODE",
	}
	for in, want := range tests {
		if got := journalKey(in); got != want {
			t.Errorf("journalKey(%q) = %q, want %q", in, got, want)
		}
	}
}
