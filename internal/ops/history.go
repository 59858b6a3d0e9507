package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/logfile/internal/db"
	"github.com/hpungsan/logfile/internal/errors"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Path   string // optional filter by exact path
	Limit  int
	Offset int
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []db.SaveRecord `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// History lists journaled saves, newest first.
func History(ctx context.Context, database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	if database == nil {
		return nil, errors.NewInternal(nil)
	}
	limit, offset := normalizePage(input.Limit, input.Offset)

	items, err := db.ListSaves(ctx, database, input.Path, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := db.CountSaves(ctx, database, input.Path)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
