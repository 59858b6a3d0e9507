package custom

import (
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/logfile/internal/sink"
	"github.com/hpungsan/logfile/internal/timing"
)

// Log is an append-only buffer of free-form entries.
//
// A Log is not safe for concurrent use; callers sharing one must serialize
// access themselves.
type Log struct {
	timestamp bool
	separator rune
	start     time.Time
	clock     timing.Clock
	entries   []Entry
}

// Option configures a Log.
type Option func(*Log)

// WithClock sets the time source for the start anchor and entry stamps.
func WithClock(c timing.Clock) Option {
	return func(l *Log) {
		l.clock = c
	}
}

// New creates an empty log. The start time is taken once, here, and every
// rendered timestamp is relative to it.
func New(timestampOn bool, separator rune, opts ...Option) *Log {
	l := &Log{
		timestamp: timestampOn,
		separator: separator,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.clock = timing.OrSystem(l.clock)
	l.start = l.clock.Now()
	return l
}

// Add appends an entry.
func (l *Log) Add(title, context string) {
	l.entries = append(l.entries, NewEntry(l.clock, title, context, l.timestamp))
}

// Addf appends an entry whose context is built with fmt.Sprintf.
func (l *Log) Addf(title, format string, args ...any) {
	l.Add(title, fmt.Sprintf(format, args...))
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Timestamp reports whether new entries are stamped.
func (l *Log) Timestamp() bool { return l.timestamp }

// Separator returns the field separator.
func (l *Log) Separator() rune { return l.separator }

// StartTime returns the anchor all timestamps are measured from.
func (l *Log) StartTime() time.Time { return l.start }

// Render joins every entry's line with "\n", with no newline after the last.
// An empty log renders to "". On error nothing is returned.
func (l *Log) Render() (string, error) {
	var b strings.Builder
	for i, e := range l.entries {
		line, err := e.Render(l.separator, l.start)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String(), nil
}

// Save renders the log and writes it to path, replacing any existing file.
// Nothing is written if rendering fails.
func (l *Log) Save(path string) error {
	text, err := l.Render()
	if err != nil {
		return err
	}
	return sink.Save(path, text)
}
