package sheetio

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// parquetScanner presents a Parquet file as a sheet: the schema stands in
// for the heading row 1 and data rows follow from row 2. Only the row groups
// overlapping the pass window are decoded.
type parquetScanner struct {
	pq *pqfile.Reader

	table  arrow.Table
	reader *array.TableReader
	batch  arrow.Record
	offset int64 // row index inside the current batch

	row int // absolute number of the current row
	err error
}

// openParquet decodes the row groups of src that overlap w. The group holding
// the row after w.End is included so the caller can tell whether data remains.
func openParquet(ctx context.Context, src *source, w RowWindow) (*parquetScanner, error) {
	data, err := src.readAll()
	if err != nil {
		return nil, err
	}
	if data.Len() == 0 {
		return nil, errors.New("empty parquet file")
	}

	pq, err := pqfile.NewParquetReader(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}

	arrowReader, err := pqarrow.NewFileReader(pq, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		_ = pq.Close()
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	groups, firstIndex := overlappingRowGroups(pq, w)
	// Rows before the first decoded group are never visited, but the counter
	// must reflect them.
	s := &parquetScanner{
		pq:  pq,
		row: int(firstIndex) + headerRow,
	}
	if len(groups) == 0 {
		return s, nil
	}

	table, err := arrowReader.ReadRowGroups(ctx, leafColumns(pq), groups)
	if err != nil {
		_ = pq.Close()
		return nil, fmt.Errorf("failed to read row groups: %w", err)
	}
	s.table = table
	s.reader = array.NewTableReader(table, 0)
	return s, nil
}

// leafColumns lists every leaf column index. ReadRowGroups decodes only the
// columns it is given.
func leafColumns(pq *pqfile.Reader) []int {
	indices := make([]int, pq.MetaData().Schema.NumColumns())
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// overlappingRowGroups returns the row groups holding data rows in
// [w.Start, w.End+1] and the data index of the first returned group.
func overlappingRowGroups(pq *pqfile.Reader, w RowWindow) ([]int, int64) {
	// Data row with index k sits on absolute row k+firstDataRow.
	lo := int64(w.Start - firstDataRow)
	hi := int64(w.End + 1 - firstDataRow)
	if lo < 0 {
		lo = 0
	}

	var (
		groups     []int
		firstIndex int64 = -1
		index      int64
	)
	for g := 0; g < pq.NumRowGroups(); g++ {
		n := pq.RowGroup(g).NumRows()
		groupLo, groupHi := index, index+n-1
		if n > 0 && groupHi >= lo && groupLo <= hi {
			if firstIndex < 0 {
				firstIndex = groupLo
			}
			groups = append(groups, g)
		}
		index += n
	}
	if firstIndex < 0 {
		firstIndex = index
	}
	return groups, firstIndex
}

// Next advances to the next row
func (s *parquetScanner) Next() bool {
	if s.err != nil {
		return false
	}
	if s.reader == nil {
		return false
	}
	for s.batch == nil || s.offset+1 >= s.batch.NumRows() {
		if !s.reader.Next() {
			s.err = s.reader.Err()
			s.batch = nil
			return false
		}
		s.batch = s.reader.Record()
		s.offset = -1
		if s.batch.NumRows() > 0 {
			break
		}
	}
	s.offset++
	s.row++
	return true
}

// RowNumber returns the current absolute row number
func (s *parquetScanner) RowNumber() int {
	return s.row
}

// Cells returns the non-null values of the current row
func (s *parquetScanner) Cells() (Row, error) {
	if s.batch == nil {
		return nil, errors.New("no current parquet row")
	}
	row := make(Row, 0, s.batch.NumCols())
	for _, col := range s.batch.Columns() {
		i := int(s.offset)
		if col.IsNull(i) {
			continue
		}
		row = append(row, arrowValue(col, i))
	}
	return row, nil
}

// Err returns the decoding error, if any
func (s *parquetScanner) Err() error {
	return s.err
}

// Close releases arrow buffers and the parquet reader
func (s *parquetScanner) Close() error {
	if s.reader != nil {
		s.reader.Release()
	}
	if s.table != nil {
		s.table.Release()
	}
	return s.pq.Close()
}

// arrowValue converts the value at index i to a plain Go value.
func arrowValue(col arrow.Array, i int) Cell {
	switch a := col.(type) {
	case *array.Boolean:
		return a.Value(i)
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return uint64(a.Value(i))
	case *array.Uint16:
		return uint64(a.Value(i))
	case *array.Uint32:
		return uint64(a.Value(i))
	case *array.Uint64:
		return a.Value(i)
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	case *array.Date32:
		return a.Value(i).ToTime().Format("2006-01-02")
	case *array.Date64:
		return a.Value(i).ToTime().Format("2006-01-02")
	default:
		return col.ValueStr(i)
	}
}
