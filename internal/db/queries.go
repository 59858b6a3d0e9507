package db

import (
	"context"
	"database/sql"

	"github.com/hpungsan/logfile/internal/errors"
)

// SaveRecord is one row of the save journal: a log written to a path.
type SaveRecord struct {
	ID      string `json:"id"`
	LogID   string `json:"log_id,omitempty"`
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	Bytes   int    `json:"bytes"`
	SavedAt int64  `json:"saved_at"`
}

// InsertSave records a completed save.
func InsertSave(ctx context.Context, db *sql.DB, r *SaveRecord) error {
	query := `
		INSERT INTO saves (id, log_id, kind, path, entries, bytes, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.ExecContext(ctx, query,
		r.ID, toNullString(r.LogID), r.Kind, r.Path, r.Entries, r.Bytes, r.SavedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// ListSaves returns journal rows newest first, optionally filtered by path.
func ListSaves(ctx context.Context, db *sql.DB, path string, limit, offset int) ([]SaveRecord, error) {
	query := `
		SELECT id, log_id, kind, path, entries, bytes, saved_at
		FROM saves
	`
	args := []any{}
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}
	query += ` ORDER BY saved_at DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	records := []SaveRecord{}
	for rows.Next() {
		var r SaveRecord
		var logID sql.NullString
		if err := rows.Scan(&r.ID, &logID, &r.Kind, &r.Path, &r.Entries, &r.Bytes, &r.SavedAt); err != nil {
			return nil, errors.NewInternal(err)
		}
		r.LogID = logID.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return records, nil
}

// CountSaves returns the number of journal rows, optionally filtered by path.
func CountSaves(ctx context.Context, db *sql.DB, path string) (int, error) {
	query := `SELECT COUNT(*) FROM saves`
	args := []any{}
	if path != "" {
		query += ` WHERE path = ?`
		args = append(args, path)
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
