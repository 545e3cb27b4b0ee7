package sheetio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirResolver(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	r := DirResolver{Root: root}
	ctx := context.Background()

	t.Run("joins names under the root", func(t *testing.T) {
		t.Parallel()

		got, err := r.Resolve(ctx, "uploads/users.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "uploads", "users.csv"), got)

		got, err = r.Resolve(ctx, "uploads/../users.csv")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "users.csv"), got)
	})

	t.Run("rejects escapes", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"../users.csv", "a/../../users.csv", "..", filepath.Join(root, "users.csv")} {
			_, err := r.Resolve(ctx, name)
			require.ErrorIs(t, err, ErrPathOutsideRoot, name)
		}
	})

	t.Run("rejects empty names", func(t *testing.T) {
		t.Parallel()

		_, err := r.Resolve(ctx, " ")
		require.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestFSResolver(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"users.csv":            {Data: []byte("id,name\n1,Alice\n")},
		"nested/orders.tsv.gz": {Data: gzipBytes(t, []byte("id\tqty\n7\t2\n"))},
		"nested/readme.txt":    {Data: []byte("not a table")},
	}

	t.Run("names lists supported files", func(t *testing.T) {
		t.Parallel()

		names, err := NewFSResolver(fsys).Names()
		require.NoError(t, err)
		assert.Equal(t, []string{"nested/orders.tsv.gz", "users.csv"}, names)
	})

	t.Run("resolved copies are readable and cleaned up", func(t *testing.T) {
		t.Parallel()

		r := NewFSResolver(fsys)
		engine := New(WithResolver(r))

		rows, err := engine.Read(context.Background(), "nested/orders.tsv.gz", NewReadOptions())
		require.NoError(t, err)
		assert.Equal(t, []Row{NewRow("7", "2")}, rows.ToSlice())

		path, err := r.Resolve(context.Background(), "users.csv")
		require.NoError(t, err)
		assert.FileExists(t, path)
		assert.Equal(t, ".csv", filepath.Ext(path))

		require.NoError(t, r.Cleanup())
		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
		require.NoError(t, r.Cleanup())
	})

	t.Run("missing and invalid names", func(t *testing.T) {
		t.Parallel()

		r := NewFSResolver(fsys)
		_, err := r.Resolve(context.Background(), "missing.csv")
		require.ErrorIs(t, err, ErrFileNotFound)

		_, err = r.Resolve(context.Background(), "../users.csv")
		require.ErrorIs(t, err, ErrPathOutsideRoot)
	})
}
