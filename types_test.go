package sheetio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRow_IsBlank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		row  Row
		want bool
	}{
		{name: "no cells", row: Row{}, want: true},
		{name: "nil row", row: nil, want: true},
		{name: "empty strings", row: NewRow("", ""), want: true},
		{name: "zero string is falsy", row: NewRow("0", ""), want: true},
		{name: "zero numbers and false", row: NewRow(0, 0.0, int64(0), false, nil), want: true},
		{name: "text", row: NewRow("", "x"), want: false},
		{name: "space is a value", row: NewRow(" "), want: false},
		{name: "number", row: NewRow(0, 3), want: false},
		{name: "true", row: NewRow(true), want: false},
		{name: "zero-like text", row: NewRow("0.0"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.row.IsBlank())
		})
	}
}

func TestRow_Strings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "", "3", "1.5", "true"}, NewRow("a", nil, 3, 1.5, true).Strings())
	assert.Empty(t, Row{}.Strings())
}

func TestExistingCells(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Row{"a", "c"}, existingCells([]string{"", "a", "", "c", ""}))
	assert.Equal(t, Row{}, existingCells(nil))
	assert.Equal(t, Row{"a", "", "c"}, stringsToRow([]string{"a", "", "c"}))
}

func TestNewChunkSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		size    int
		want    int
		enabled bool
	}{
		{size: -5, want: 0, enabled: false},
		{size: 0, want: 0, enabled: false},
		{size: 1, want: 1, enabled: true},
		{size: DefaultChunkSize, want: 1000, enabled: true},
	}
	for _, tt := range tests {
		cs := NewChunkSize(tt.size)
		assert.Equal(t, tt.want, cs.Int(), "size %d", tt.size)
		assert.Equal(t, tt.enabled, cs.Enabled(), "size %d", tt.size)
	}
}

func TestBlankRowPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy   BlankRowPolicy
		name     string
		whole    bool
		windowed bool
	}{
		{policy: BlankRowsChunkedOnly, name: "chunked-only", whole: false, windowed: true},
		{policy: BlankRowsKeep, name: "keep", whole: false, windowed: false},
		{policy: BlankRowsSkip, name: "skip", whole: true, windowed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.name, tt.policy.String())
			assert.Equal(t, tt.whole, tt.policy.dropsBlank(false))
			assert.Equal(t, tt.windowed, tt.policy.dropsBlank(true))
		})
	}
	assert.Equal(t, BlankRowsChunkedOnly, NewReadOptions().BlankRows)
}

func TestRowWindow(t *testing.T) {
	t.Parallel()

	w := NewRowWindow(2, 5)
	assert.Equal(t, RowWindow{Start: 2, End: 6}, w)

	for row, want := range map[int]bool{1: false, 2: true, 4: true, 6: true, 7: false} {
		assert.Equal(t, want, w.ShouldRead("A", row, "Sheet1"), "row %d", row)
	}
	// Column and sheet never matter.
	assert.Equal(t, w.ShouldRead("", 3, ""), w.ShouldRead("ZZ", 3, "Other"))

	w.SetWindow(7, 5)
	assert.Equal(t, RowWindow{Start: 7, End: 11}, w)

	// No validation: a zero-sized window accepts nothing.
	w.SetWindow(3, 0)
	assert.False(t, w.ShouldRead("A", 3, ""))
}

func TestReadOptionsBuilders(t *testing.T) {
	t.Parallel()

	base := NewReadOptions()
	opts := base.WithChunkSize(500).WithSheet("Orders").WithRawValues(true).WithMemoryLimit(256).WithStopOnEmptyWindow(true)

	assert.Equal(t, ChunkSize(500), opts.ChunkSize)
	assert.Equal(t, "Orders", opts.SheetName)
	assert.True(t, opts.RawValues)
	assert.Equal(t, int64(256), opts.MemoryLimitMB)
	assert.True(t, opts.StopOnEmptyWindow)
	assert.Equal(t, NewReadOptions(), base, "builders must not modify the receiver")

	assert.Equal(t, ChunkSize(0), NewReadOptions().WithChunkSize(-1).ChunkSize)
	assert.Equal(t, CompressionBest, NewWriteOptions().WithCompressionLevel(CompressionBest).Level)
}

func TestErrorContext(t *testing.T) {
	t.Parallel()

	base := errors.New("boom")
	err := NewErrorContext("read", "book.xlsx").WithSheet("Data").WithDetails("window 2").Error(base)

	assert.Equal(t, "sheetio: read failed, file: book.xlsx, sheet: Data, details: window 2: boom", err.Error())
	assert.ErrorIs(t, err, base)

	assert.Equal(t, "sheetio: serialize failed", NewErrorContext("serialize", "").Error(nil).Error())
}
