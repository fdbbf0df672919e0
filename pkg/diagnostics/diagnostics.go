// Package diagnostics provides the sink that non-fatal conditions are
// reported to while a diagram is produced.
//
// The diagram core never aborts. An unresolvable member reference is dropped,
// a malformed type id yields an empty link path and an empty model yields a
// placeholder diagram. Each of these is reported to a [Sink] that the caller
// passes in explicitly, so the core has no global logger and tests can assert
// on what was reported.
//
// # Sinks
//
//   - [Null] discards everything
//   - [Collector] records entries in memory, for tests and API responses
//   - [NewLogSink] forwards to a charmbracelet/log logger, for the CLI
//
// # Usage
//
//	sink := diagnostics.NewLogSink(logger)
//	doc := render.Emit(files, nomnoml.New(opts), sink)
package diagnostics

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Sink receives diagnostics. Implementations must be safe for concurrent use
// because several notations may be emitted at the same time.
type Sink interface {
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// =============================================================================
// Null Sink
// =============================================================================

// Null discards all diagnostics.
type Null struct{}

func (Null) Info(string, ...any)  {}
func (Null) Warn(string, ...any)  {}
func (Null) Error(string, ...any) {}

// OrNull returns s, or a [Null] sink when s is nil.
func OrNull(s Sink) Sink {
	if s == nil {
		return Null{}
	}
	return s
}

// =============================================================================
// Collector
// =============================================================================

// Entry is one recorded diagnostic.
type Entry struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
	KeyVals []any  `json:"keyvals,omitempty"`
}

// Collector records diagnostics in memory.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Info(msg string, keyvals ...any)  { c.add(LevelInfo, msg, keyvals) }
func (c *Collector) Warn(msg string, keyvals ...any)  { c.add(LevelWarn, msg, keyvals) }
func (c *Collector) Error(msg string, keyvals ...any) { c.add(LevelError, msg, keyvals) }

func (c *Collector) add(level Level, msg string, keyvals []any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Level: level, Message: msg, KeyVals: keyvals})
}

// Entries returns a copy of everything recorded so far, in order.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Count returns the number of recorded entries at the given level.
func (c *Collector) Count(level Level) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// =============================================================================
// Logger Sink
// =============================================================================

// LogSink forwards diagnostics to a structured logger.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink creates a sink backed by logger.
// A nil logger falls back to log.Default().
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Info(msg string, keyvals ...any)  { s.logger.Info(msg, keyvals...) }
func (s *LogSink) Warn(msg string, keyvals ...any)  { s.logger.Warn(msg, keyvals...) }
func (s *LogSink) Error(msg string, keyvals ...any) { s.logger.Error(msg, keyvals...) }

var (
	_ Sink = Null{}
	_ Sink = (*Collector)(nil)
	_ Sink = (*LogSink)(nil)
)
