package ops

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/hpungsan/logfile/internal/db"
	"github.com/hpungsan/logfile/internal/errors"
	"github.com/hpungsan/logfile/internal/sink"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	ID   string
	Path string
}

// SaveOutput contains the result of a save or one-shot write.
type SaveOutput struct {
	ID      string  `json:"id,omitempty"`
	Kind    LogKind `json:"kind"`
	Path    string  `json:"path"`
	Entries int     `json:"entries"`
	Bytes   int     `json:"bytes"`
	SavedAt int64   `json:"saved_at"`
}

// Save renders an open log and writes it to path, replacing any existing file.
// The log stays open, so later saves include later entries.
func Save(ctx context.Context, database *sql.DB, reg *Registry, input SaveInput) (*SaveOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	s, err := reg.get(input.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	text, err := s.render()
	entries := s.len()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return persist(ctx, database, s.id, s.kind, input.Path, text, entries, reg.clock.Now())
}

// persist writes text through the sink and journals the save. A journal
// failure is logged; the file has already been written.
func persist(ctx context.Context, database *sql.DB, logID string, kind LogKind, path, text string, entries int, now time.Time) (*SaveOutput, error) {
	if err := sink.Save(path, text); err != nil {
		return nil, err
	}

	out := &SaveOutput{
		ID:      logID,
		Kind:    kind,
		Path:    path,
		Entries: entries,
		Bytes:   len(text),
		SavedAt: now.Unix(),
	}

	if database != nil {
		if err := journal(ctx, database, out, now); err != nil {
			log.Printf("warning: failed to journal save of %s: %v", path, err)
		}
	}
	return out, nil
}

func journal(ctx context.Context, database *sql.DB, out *SaveOutput, now time.Time) error {
	id, err := newID(now)
	if err != nil {
		return err
	}
	return db.InsertSave(ctx, database, &db.SaveRecord{
		ID:      id,
		LogID:   out.ID,
		Kind:    string(out.Kind),
		Path:    out.Path,
		Entries: out.Entries,
		Bytes:   out.Bytes,
		SavedAt: out.SavedAt,
	})
}
