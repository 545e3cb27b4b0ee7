package sheetio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanAll drains sc into the row numbers and cells it visits.
func scanAll(t *testing.T, sc *parquetScanner) ([]int, []Row) {
	t.Helper()

	var (
		numbers []int
		rows    []Row
	)
	for sc.Next() {
		cells, err := sc.Cells()
		require.NoError(t, err)
		numbers = append(numbers, sc.RowNumber())
		rows = append(rows, cells)
	}
	require.NoError(t, sc.Err())
	return numbers, rows
}

func TestOpenParquet(t *testing.T) {
	t.Parallel()

	ids := []int64{1, 2, 3, 4, 5, 6, 7}
	names := []string{"a", "b", "", "d", "e", "f", "g"}

	t.Run("decodes every column from row 2", func(t *testing.T) {
		t.Parallel()

		src := newSource(writeFixture(t, t.TempDir(), "users.parquet", parquetBytes(t, ids[:2], names[:2], 10)))
		sc, err := openParquet(context.Background(), src, RowWindow{Start: 2, End: 100})
		require.NoError(t, err)
		defer sc.Close()

		assert.Equal(t, []int{0, 1}, leafColumns(sc.pq))

		numbers, rows := scanAll(t, sc)
		assert.Equal(t, []int{2, 3}, numbers)
		assert.Equal(t, []Row{NewRow(int64(1), "a"), NewRow(int64(2), "b")}, rows)
	})

	t.Run("only overlapping row groups are decoded", func(t *testing.T) {
		t.Parallel()

		src := newSource(writeFixture(t, t.TempDir(), "users.parquet", parquetBytes(t, ids, names, 3)))
		sc, err := openParquet(context.Background(), src, RowWindow{Start: 5, End: 6})
		require.NoError(t, err)
		defer sc.Close()

		// Data rows 4..6 form the second group and sit on rows 5..7.
		numbers, rows := scanAll(t, sc)
		assert.Equal(t, []int{5, 6, 7}, numbers)
		assert.Equal(t, []Row{NewRow(int64(4), "d"), NewRow(int64(5), "e"), NewRow(int64(6), "f")}, rows)
	})

	t.Run("window past the data", func(t *testing.T) {
		t.Parallel()

		src := newSource(writeFixture(t, t.TempDir(), "users.parquet", parquetBytes(t, ids, names, 3)))
		sc, err := openParquet(context.Background(), src, RowWindow{Start: 20, End: 30})
		require.NoError(t, err)
		defer sc.Close()

		assert.False(t, sc.Next())
		require.NoError(t, sc.Err())
	})

	t.Run("null cells are omitted", func(t *testing.T) {
		t.Parallel()

		src := newSource(writeFixture(t, t.TempDir(), "users.parquet", parquetBytes(t, ids, names, 3)))
		sc, err := openParquet(context.Background(), src, RowWindow{Start: 4, End: 4})
		require.NoError(t, err)
		defer sc.Close()

		require.True(t, sc.Next())
		assert.Equal(t, 2, sc.RowNumber())
		require.True(t, sc.Next())
		require.True(t, sc.Next())
		assert.Equal(t, 4, sc.RowNumber())
		cells, err := sc.Cells()
		require.NoError(t, err)
		assert.Equal(t, NewRow(int64(3)), cells)
	})
}
