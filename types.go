package sheetio

import (
	"fmt"
	"strings"
)

// Processing constants (rows-based)
const (
	// DefaultChunkSize is the chunk size suggested for large workbooks
	DefaultChunkSize = 1000
	// MinChunkSize is the smallest chunk size that enables windowed reading
	MinChunkSize = 1
	// headerRow is the absolute row number holding headings
	headerRow = 1
	// firstDataRow is the absolute row number of the first data row
	firstDataRow = headerRow + 1
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// Cell is a single untyped cell value exactly as produced by the decoder:
// a string, a number, a bool or nil.
type Cell = any

// Row is an ordered, positional sequence of cell values.
type Row []Cell

// NewRow creates a Row from the given values.
func NewRow(values ...Cell) Row {
	return Row(values)
}

// Strings formats every cell with fmt. Nil cells become empty strings.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = formatCell(c)
	}
	return out
}

// IsBlank reports whether every cell of the row is empty or falsy.
// A row without cells is blank.
func (r Row) IsBlank() bool {
	for _, c := range r {
		if !isFalsy(c) {
			return false
		}
	}
	return true
}

// Record is the default application-shaped record keyed by field name.
type Record map[string]any

// ChunkSize represents a chunk size. Values below MinChunkSize disable chunking.
type ChunkSize int

// NewChunkSize creates a new ChunkSize. Negative sizes are normalized to zero.
func NewChunkSize(size int) ChunkSize {
	if size < 0 {
		return 0
	}
	return ChunkSize(size)
}

// Int returns the chunk size as int
func (cs ChunkSize) Int() int {
	return int(cs)
}

// Enabled reports whether windowed reading is requested.
func (cs ChunkSize) Enabled() bool {
	return cs >= MinChunkSize
}

// BlankRowPolicy decides which read paths drop rows whose cells are all empty.
type BlankRowPolicy int

const (
	// BlankRowsChunkedOnly drops blank rows in windowed reads only.
	// Single-pass workbook reads keep them as empty rows.
	BlankRowsChunkedOnly BlankRowPolicy = iota
	// BlankRowsKeep keeps blank rows on every path
	BlankRowsKeep
	// BlankRowsSkip drops blank rows on every workbook path
	BlankRowsSkip
)

// String returns the string representation of BlankRowPolicy
func (p BlankRowPolicy) String() string {
	switch p {
	case BlankRowsChunkedOnly:
		return "chunked-only"
	case BlankRowsKeep:
		return "keep"
	case BlankRowsSkip:
		return "skip"
	default:
		return "chunked-only"
	}
}

// dropsBlank reports whether blank rows are dropped for the given read path.
func (p BlankRowPolicy) dropsBlank(chunked bool) bool {
	switch p {
	case BlankRowsKeep:
		return false
	case BlankRowsSkip:
		return true
	default:
		return chunked
	}
}

// isFalsy reports whether a cell counts as empty: nil, false, zero numbers,
// and the strings "" and "0".
func isFalsy(c Cell) bool {
	switch v := c.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case bool:
		return !v
	case int:
		return v == 0
	case int8:
		return v == 0
	case int16:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	case uint:
		return v == 0
	case uint8:
		return v == 0
	case uint16:
		return v == 0
	case uint32:
		return v == 0
	case uint64:
		return v == 0
	case float32:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}

// formatCell renders a cell for text output.
func formatCell(c Cell) string {
	switch v := c.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// existingCells keeps only the cells that carry a value, in order.
func existingCells(values []string) Row {
	row := make(Row, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		row = append(row, v)
	}
	return row
}

// stringsToRow converts delimited-text fields to a Row without dropping any field.
func stringsToRow(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	return row
}

// trimmedLower is used for extension comparisons.
func trimmedLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
