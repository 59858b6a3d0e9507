package ops

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/logfile/internal/errors"
)

func TestHistory(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	for _, p := range []string{a, b, a} {
		_, err := WriteNotes(ctx, database, strings.NewReader(`{"title":"t","context":"c"}`), WriteInput{Path: p})
		require.NoError(t, err)
	}

	all, err := History(ctx, database, HistoryInput{})
	require.NoError(t, err)
	require.Len(t, all.Items, 3)
	require.Equal(t, 3, all.Pagination.Total)
	require.Equal(t, DefaultHistoryLimit, all.Pagination.Limit)
	require.False(t, all.Pagination.HasMore)

	onlyA, err := History(ctx, database, HistoryInput{Path: a})
	require.NoError(t, err)
	require.Len(t, onlyA.Items, 2)
	for _, item := range onlyA.Items {
		require.Equal(t, a, item.Path)
		require.Equal(t, "free", item.Kind)
	}

	page, err := History(ctx, database, HistoryInput{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.True(t, page.Pagination.HasMore)
}

func TestHistory_NoDatabase(t *testing.T) {
	_, err := History(context.Background(), nil, HistoryInput{})
	require.True(t, errors.Is(err, errors.ErrInternal))
}
