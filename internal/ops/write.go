package ops

import (
	"bufio"
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hpungsan/logfile/internal/custom"
	"github.com/hpungsan/logfile/internal/errors"
	"github.com/hpungsan/logfile/internal/structured"
	"github.com/hpungsan/logfile/internal/timing"
)

// maxRecordBytes bounds a single JSONL input line.
const maxRecordBytes = 16 * 1024 * 1024

// NoteRecord is one free-form entry in JSONL input.
type NoteRecord struct {
	Title   string `json:"title"`
	Context string `json:"context"`
}

// TraceRecord is one structured entry in JSONL input.
type TraceRecord struct {
	Function string `json:"function"`
	Kind     string `json:"kind"`
	Name     string `json:"name,omitempty"`
	Extra    string `json:"extra,omitempty"`
}

// WriteInput contains parameters for the one-shot write operations.
type WriteInput struct {
	Path      string // required unless DryRun
	Separator *string // nil means ':'; trace logs accept any text, including ""
	Timestamp bool    // free: stamp entries; trace: show times
	DryRun    bool // render only, write nothing
	Clock     timing.Clock
}

// WriteOutput contains the result of a one-shot write.
type WriteOutput struct {
	SaveOutput
	Text string `json:"text,omitempty"`
}

// WriteNotes reads NoteRecords from r, one JSON object per line, appending
// each to a free log as it arrives, then saves the log to input.Path.
// A malformed line aborts the write before anything is saved.
func WriteNotes(ctx context.Context, database *sql.DB, r io.Reader, input WriteInput) (*WriteOutput, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}
	sep := ':'
	if input.Separator != nil {
		var err error
		if sep, err = separatorRune(*input.Separator); err != nil {
			return nil, err
		}
	}

	l := custom.New(input.Timestamp, sep, custom.WithClock(input.Clock))
	err := eachRecord(ctx, r, func(rec NoteRecord) error {
		l.Add(rec.Title, rec.Context)
		return nil
	})
	if err != nil {
		return nil, err
	}

	text, err := l.Render()
	if err != nil {
		return nil, err
	}
	return finishWrite(ctx, database, KindFree, input, text, l.Len())
}

// WriteTrace reads TraceRecords from r, one JSON object per line, appending
// each to a trace log as it arrives, then saves the log to input.Path.
// An unknown kind tag fails with INVALID_KIND before anything is saved.
func WriteTrace(ctx context.Context, database *sql.DB, r io.Reader, input WriteInput) (*WriteOutput, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}
	sep := ":"
	if input.Separator != nil {
		sep = *input.Separator
	}

	l := structured.New(input.Timestamp, sep, structured.WithClock(input.Clock))
	err := eachRecord(ctx, r, func(rec TraceRecord) error {
		return l.AddTagged(rec.Function, rec.Name, rec.Extra, rec.Kind)
	})
	if err != nil {
		return nil, err
	}

	text, err := l.Render()
	if err != nil {
		return nil, err
	}
	return finishWrite(ctx, database, KindTrace, input, text, l.Len())
}

func validateWrite(input WriteInput) error {
	if input.Path == "" && !input.DryRun {
		return errors.NewInvalidRequest("path is required")
	}
	return nil
}

func finishWrite(ctx context.Context, database *sql.DB, kind LogKind, input WriteInput, text string, entries int) (*WriteOutput, error) {
	if input.DryRun {
		return &WriteOutput{
			SaveOutput: SaveOutput{Kind: kind, Entries: entries, Bytes: len(text)},
			Text:       text,
		}, nil
	}

	out, err := persist(ctx, database, "", kind, input.Path, text, entries, timing.OrSystem(input.Clock).Now())
	if err != nil {
		return nil, err
	}
	return &WriteOutput{SaveOutput: *out}, nil
}

// eachRecord decodes one T per non-blank line of r and passes it to fn.
// Errors are annotated with the 1-based line number.
func eachRecord[T any](ctx context.Context, r io.Reader, fn func(T) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)

	line := 0
	for scanner.Scan() {
		line++
		select {
		case <-ctx.Done():
			return errors.NewCancelled("write")
		default:
		}

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			return errors.NewInvalidRequest(fmt.Sprintf("line %d: %v", line, err))
		}
		if err := fn(rec); err != nil {
			if lErr, ok := err.(*errors.LogError); ok {
				if lErr.Details == nil {
					lErr.Details = map[string]any{}
				}
				lErr.Details["line"] = line
				return lErr
			}
			return errors.NewInternal(err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("failed to read input: %v", err))
	}
	return nil
}
