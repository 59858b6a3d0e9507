package structured

import (
	"fmt"
	"time"

	"github.com/hpungsan/logfile/internal/timing"
)

// Entry is one trace record: the function it was recorded in, what happened,
// and when. Every entry is stamped, whether or not its log shows times.
type Entry struct {
	capturedAt time.Time
	function   string
	context    Context
}

// NewEntry builds an entry stamped with clock's current time. A nil clock
// means the system clock.
func NewEntry(clock timing.Clock, function string, ctx Context) Entry {
	return Entry{
		capturedAt: timing.OrSystem(clock).Now(),
		function:   function,
		context:    ctx,
	}
}

// NewTaggedEntry builds an entry from a short kind tag (see FromTag).
func NewTaggedEntry(clock timing.Clock, function, name, extra, tag string) (Entry, error) {
	ctx, err := FromTag(name, extra, tag)
	if err != nil {
		return Entry{}, err
	}
	return NewEntry(clock, function, ctx), nil
}

// Function returns the name of the function the entry belongs to.
func (e Entry) Function() string { return e.function }

// Context returns what the entry recorded.
func (e Entry) Context() Context { return e.context }

// CapturedAt returns the capture time.
func (e Entry) CapturedAt() time.Time { return e.capturedAt }

// Render formats the entry as a single line.
//
// showTime:  <s:ms:us:ns>\t<function>()\t<sep>\t<context>
// otherwise: <function>()\t<sep>\t<context>
//
// The elapsed time is computed either way, so a capture time earlier than
// start fails with CLOCK_SKEW even when the time is not shown.
func (e Entry) Render(separator string, start time.Time, showTime bool) (string, error) {
	text, err := RenderContext(e.context)
	if err != nil {
		return "", err
	}
	stamp, err := timing.Stamp(start, e.capturedAt)
	if err != nil {
		return "", err
	}
	if !showTime {
		return fmt.Sprintf("%s()\t%s\t%s", e.function, separator, text), nil
	}
	return fmt.Sprintf("%s\t%s()\t%s\t%s", stamp, e.function, separator, text), nil
}
