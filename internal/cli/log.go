package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/typediagram/pkg/errors"
)

// logFormats maps --log-format values to formatters. text suits terminals,
// json and logfmt suit the server behind a log collector.
var logFormats = map[string]log.Formatter{
	"text":   log.TextFormatter,
	"json":   log.JSONFormatter,
	"logfmt": log.LogfmtFormatter,
}

// newLogger creates a text logger writing to w at level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// parseLogFormat resolves a --log-format value.
func parseLogFormat(name string) (log.Formatter, error) {
	f, ok := logFormats[strings.ToLower(name)]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown log format %q (want text, json or logfmt)", name)
	}
	return f, nil
}

// progress logs the duration of a command once it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time as a structured field.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
