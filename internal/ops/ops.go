package ops

import (
	"crypto/rand"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/logfile/internal/errors"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// LogKind selects which of the two log formats a session or write uses.
type LogKind string

const (
	KindFree  LogKind = "free"
	KindTrace LogKind = "trace"
)

// ParseLogKind validates a kind name; empty means free.
func ParseLogKind(s string) (LogKind, error) {
	switch LogKind(s) {
	case "", KindFree:
		return KindFree, nil
	case KindTrace:
		return KindTrace, nil
	}
	return "", errors.NewInvalidRequest("kind must be one of: free, trace")
}

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// normalizePage clamps limit and offset to sane values.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// newID generates a new ULID.
func newID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return id.String(), nil
}

// separatorRune returns the single character a free log separates fields with.
func separatorRune(s string) (rune, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		return 0, errors.NewInvalidRequest("separator must be a single character")
	}
	return r, nil
}
