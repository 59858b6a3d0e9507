package ops

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/logfile/internal/db"
	"github.com/hpungsan/logfile/internal/timing"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// testDB creates a temporary save journal.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

// steppingClock starts at epoch and advances by step on every call.
func steppingClock(step time.Duration) timing.Clock {
	next := epoch
	return timing.ClockFunc(func() time.Time {
		t := next
		next = next.Add(step)
		return t
	})
}

func boolPtr(b bool) *bool { return &b }

func stringPtr(s string) *string { return &s }
