package timing

import (
	"fmt"
	"time"

	"github.com/hpungsan/logfile/internal/errors"
)

// Clock supplies the capture instant for log entries and the start anchor for buffers.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// System is the wall clock.
var System Clock = ClockFunc(time.Now)

// OrSystem returns c, or System if c is nil.
func OrSystem(c Clock) Clock {
	if c == nil {
		return System
	}
	return c
}

// Trim scales n down by repeatedly dividing by 1000 while it exceeds 1000.
// A value of exactly 1000 is returned unchanged.
func Trim(n uint64) uint64 {
	for n > 1000 {
		n /= 1000
	}
	return n
}

// Elapsed returns the duration from start to at.
// It fails with CLOCK_SKEW if at precedes start.
func Elapsed(start, at time.Time) (time.Duration, error) {
	d := at.Sub(start)
	if d < 0 {
		return 0, errors.NewClockSkew(-d)
	}
	return d, nil
}

// FormatDuration renders d as "s:ms:us:ns", each component being the whole
// duration in that unit passed through Trim.
func FormatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%d:%d:%d",
		Trim(uint64(d/time.Second)),
		Trim(uint64(d.Milliseconds())),
		Trim(uint64(d.Microseconds())),
		Trim(uint64(d.Nanoseconds())),
	)
}

// Stamp formats the elapsed time between start and at.
func Stamp(start, at time.Time) (string, error) {
	d, err := Elapsed(start, at)
	if err != nil {
		return "", err
	}
	return FormatDuration(d), nil
}
