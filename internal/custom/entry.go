package custom

import (
	"fmt"
	"time"

	"github.com/hpungsan/logfile/internal/timing"
)

// Entry is one free-form line of a Log: a title, its context, and an optional
// capture time. Entries are immutable once built.
type Entry struct {
	capturedAt time.Time
	stamped    bool
	title      string
	context    string
}

// NewEntry builds an entry, stamping it with clock's current time when
// timestampOn is set. A nil clock means the system clock.
func NewEntry(clock timing.Clock, title, context string, timestampOn bool) Entry {
	e := Entry{title: title, context: context}
	if timestampOn {
		e.capturedAt = timing.OrSystem(clock).Now()
		e.stamped = true
	}
	return e
}

// Title returns the entry title.
func (e Entry) Title() string { return e.title }

// Context returns the entry context.
func (e Entry) Context() string { return e.context }

// CapturedAt returns the capture time and whether the entry was stamped.
func (e Entry) CapturedAt() (time.Time, bool) { return e.capturedAt, e.stamped }

// Render formats the entry as a single line.
//
// Stamped:   [s:ms:us:ns]\t<title>\t<sep>\t<context>
// Unstamped: <title>\t<sep>\t<context>
//
// A capture time earlier than start fails with CLOCK_SKEW.
func (e Entry) Render(separator rune, start time.Time) (string, error) {
	if !e.stamped {
		return fmt.Sprintf("%s\t%c\t%s", e.title, separator, e.context), nil
	}

	stamp, err := timing.Stamp(start, e.capturedAt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s]\t%s\t%c\t%s", stamp, e.title, separator, e.context), nil
}
