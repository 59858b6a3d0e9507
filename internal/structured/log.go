package structured

import (
	"strings"
	"time"

	"github.com/hpungsan/logfile/internal/sink"
	"github.com/hpungsan/logfile/internal/timing"
)

// Log is an append-only buffer of trace entries.
//
// A Log is not safe for concurrent use; callers sharing one must serialize
// access themselves.
type Log struct {
	showTime  bool
	separator string
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

// New creates an empty trace log anchored at the current time.
func New(showTime bool, separator string, opts ...Option) *Log {
	l := &Log{
		showTime:  showTime,
		separator: separator,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.clock = timing.OrSystem(l.clock)
	l.start = l.clock.Now()
	return l
}

// Add appends an entry recording ctx in function. A nil or foreign Context
// fails with INVALID_KIND and nothing is appended.
func (l *Log) Add(function string, ctx Context) error {
	if _, err := RenderContext(ctx); err != nil {
		return err
	}
	l.push(function, ctx)
	return nil
}

// AddTagged appends an entry selected by a short kind tag. An unknown tag
// fails with INVALID_KIND and nothing is appended.
func (l *Log) AddTagged(function, name, extra, tag string) error {
	ctx, err := FromTag(name, extra, tag)
	if err != nil {
		return err
	}
	l.push(function, ctx)
	return nil
}

// AddVariable records "name = value".
func (l *Log) AddVariable(function, name, value string) {
	l.push(function, Variable{Name: name, Value: value})
}

// AddFunctionCall records "call name(parameters)".
func (l *Log) AddFunctionCall(function, name, parameters string) {
	l.push(function, FunctionCall{Name: name, Parameters: parameters})
}

// AddIfStatement records "if condition".
func (l *Log) AddIfStatement(function, condition string) {
	l.push(function, IfStatement{Condition: condition})
}

// AddElseIfStatement records "else if condition".
func (l *Log) AddElseIfStatement(function, condition string) {
	l.push(function, ElseIfStatement{Condition: condition})
}

// AddElseStatement records "else".
func (l *Log) AddElseStatement(function string) {
	l.push(function, ElseStatement{})
}

// AddReturnStatement records "return value".
func (l *Log) AddReturnStatement(function, value string) {
	l.push(function, ReturnStatement{Value: value})
}

// AddLoops records a loop marker.
func (l *Log) AddLoops(function string) {
	l.push(function, Loops{})
}

func (l *Log) push(function string, ctx Context) {
	l.entries = append(l.entries, NewEntry(l.clock, function, ctx))
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Entries returns a copy of the entries in append order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// ShowTime reports whether rendered lines carry a timestamp.
func (l *Log) ShowTime() bool { return l.showTime }

// Separator returns the field separator.
func (l *Log) Separator() string { return l.separator }

// StartTime returns the anchor all timestamps are measured from.
func (l *Log) StartTime() time.Time { return l.start }

// Render writes each entry's line followed by "\n", including the last one.
// An empty log renders to "". On error nothing is returned.
func (l *Log) Render() (string, error) {
	var b strings.Builder
	for _, e := range l.entries {
		line, err := e.Render(l.separator, l.start, l.showTime)
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
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
