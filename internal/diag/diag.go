// Package diag is the side channel for failures that are recovered locally
// and never surface to a caller.
package diag

import (
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Record is one diagnostic event
type Record struct {
	Time    time.Time
	Source  string
	Message string
	Err     error
}

// Reporter receives diagnostic records. Implementations must be safe for
// concurrent use.
type Reporter interface {
	Report(Record)
}

// Recorder keeps records in memory for inspection
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func (r *Recorder) Report(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

// Records returns a copy of everything reported so far
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

// Logger writes records as zerolog error events
type Logger struct {
	log zerolog.Logger
}

// NewLogger builds a Logger from an existing zerolog logger
func NewLogger(log zerolog.Logger) *Logger {
	return &Logger{log: log}
}

// NewConsoleLogger writes human-readable records to w at the given level
func NewConsoleLogger(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return NewLogger(zerolog.New(out).Level(lvl).With().Timestamp().Logger())
}

// Zerolog exposes the underlying logger for non-diagnostic events
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.log
}

func (l *Logger) Report(rec Record) {
	ev := l.log.Error().Str("source", rec.Source)
	if rec.Err != nil {
		ev = ev.Err(rec.Err)
	}
	ev.Msg(rec.Message)
}

// Multi fans records out to several reporters
type Multi []Reporter

func (m Multi) Report(rec Record) {
	for _, r := range m {
		if r != nil {
			r.Report(rec)
		}
	}
}

// Discard drops every record
type Discard struct{}

func (Discard) Report(Record) {}
