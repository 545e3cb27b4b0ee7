package sheetio

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Export(t *testing.T) {
	t.Parallel()

	exp := flatExporter{
		headings: NewRow("id", "name"),
		data:     []Row{NewRow(1, "Alice"), NewRow(2, "Bob")},
	}

	t.Run("bytes", func(t *testing.T) {
		t.Parallel()

		x, err := New().Export(exp)
		require.NoError(t, err)
		assert.Equal(t, []string{"Sheet1"}, x.Workbook().SheetNames())

		data, err := x.Bytes("users.csv")
		require.NoError(t, err)
		assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", string(data))
	})

	t.Run("download hands the bytes to the deliverer", func(t *testing.T) {
		t.Parallel()

		var gotName string
		var gotData []byte
		engine := New(WithDeliverer(DelivererFunc(func(_ context.Context, name string, data []byte) error {
			gotName = name
			gotData = data
			return nil
		})))

		x, err := engine.Export(exp)
		require.NoError(t, err)
		require.NoError(t, x.Download(context.Background(), "users.xlsx"))

		assert.Equal(t, "users.xlsx", gotName)
		f := openWorkbook(t, gotData)
		rows, err := f.GetRows("Sheet1")
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"id", "name"}, {"1", "Alice"}, {"2", "Bob"}}, rows)
	})

	t.Run("download over http", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		x, err := New(WithDeliverer(HTTPDeliverer{W: rec})).Export(exp)
		require.NoError(t, err)
		require.NoError(t, x.Download(context.Background(), "users.csv"))

		assert.Equal(t, "attachment; filename=users.csv", rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "id,name\n1,Alice\n2,Bob\n", rec.Body.String())
	})

	t.Run("download without a deliverer", func(t *testing.T) {
		t.Parallel()

		x, err := New().Export(exp)
		require.NoError(t, err)
		require.ErrorIs(t, x.Download(context.Background(), "users.csv"), ErrNoDeliverer)
	})

	t.Run("deliverer failures are wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("disk full")
		engine := New(WithDeliverer(DelivererFunc(func(context.Context, string, []byte) error { return boom })))
		x, err := engine.Export(exp)
		require.NoError(t, err)

		err = x.Download(context.Background(), "users.csv")
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "users.csv")
	})

	t.Run("invalid exporter", func(t *testing.T) {
		t.Parallel()

		_, err := New().Export(nil)
		require.ErrorIs(t, err, ErrInvalidExporter)
	})
}

func TestEngine_ExportNamed(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register("users", func() (Exporter, error) {
		return flatExporter{headings: NewRow("id"), data: []Row{NewRow(7)}}, nil
	}))
	engine := New(WithRegistry(registry))
	assert.Same(t, registry, engine.Registry())

	x, err := engine.ExportNamed("users")
	require.NoError(t, err)
	data, err := x.Bytes("users.csv")
	require.NoError(t, err)
	assert.Equal(t, "id\n7\n", string(data))

	_, err = engine.ExportNamed("orders")
	require.ErrorIs(t, err, ErrUnknownExporter)
}

func TestEngine_Logging(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	engine := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	x, err := engine.Export(flatExporter{headings: NewRow("a")})
	require.NoError(t, err)
	_, err = x.Bytes("a.xlsx")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"message":"export serialized"`)
	assert.Contains(t, buf.String(), `"format":"xlsx"`)
}

func TestEngine_ImportRecords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "users.csv", []byte("id,name\n1,Alice\n"))

	var got []Record
	importer := NewImporter(
		func(r Row) Record { return Record{"id": r[0], "name": r[1]} },
		func(_ context.Context, records []Record) error {
			got = records
			return nil
		},
	)
	engine := New(WithResolver(DirResolver{Root: dir}))
	require.NoError(t, engine.Import(context.Background(), importer, "users.csv", NewReadOptions()))
	assert.Equal(t, []Record{{"id": "1", "name": "Alice"}}, got)

	rows, err := engine.Read(context.Background(), "users.csv", NewReadOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, rows.Len())
}
