package diagnostics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Info("processing", "file", "a.ts")
	c.Warn("bad id", "id", "x")
	c.Error("empty")
	c.Warn("bad id", "id", "y")

	entries := c.Entries()
	if len(entries) != 4 {
		t.Fatalf("Entries() len = %d, want 4", len(entries))
	}
	if entries[1].Level != LevelWarn || entries[1].Message != "bad id" {
		t.Errorf("entries[1] = %+v, want warn 'bad id'", entries[1])
	}
	if got := c.Count(LevelWarn); got != 2 {
		t.Errorf("Count(warn) = %d, want 2", got)
	}
	if got := c.Count(LevelError); got != 1 {
		t.Errorf("Count(error) = %d, want 1", got)
	}
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Info("tick")
		}()
	}
	wg.Wait()
	if got := c.Count(LevelInfo); got != 20 {
		t.Errorf("Count(info) = %d, want 20", got)
	}
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel})
	s := NewLogSink(logger)

	s.Warn("malformed type id", "id", "Katana")

	out := buf.String()
	if !strings.Contains(out, "malformed type id") {
		t.Errorf("log output %q missing message", out)
	}
	if !strings.Contains(out, "Katana") {
		t.Errorf("log output %q missing key/value", out)
	}
}

func TestOrNull(t *testing.T) {
	if _, ok := OrNull(nil).(Null); !ok {
		t.Error("OrNull(nil) should return Null")
	}
	c := NewCollector()
	if OrNull(c) != Sink(c) {
		t.Error("OrNull should return a non-nil sink unchanged")
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(9), "level(9)"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", int(tt.level), got, tt.want)
		}
	}
}
