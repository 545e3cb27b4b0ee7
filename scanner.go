package sheetio

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// windowScanner walks the physical rows of one sheet in order. A scanner is
// acquired per pass and closed before the next pass starts, so decoder state
// never crosses a window boundary.
type windowScanner interface {
	// Next advances to the next row and returns false at the end of the sheet.
	Next() bool
	// RowNumber returns the 1-based absolute number of the current row.
	RowNumber() int
	// Cells returns the existing cells of the current row.
	Cells() (Row, error)
	// Err returns the first error met while advancing.
	Err() error
	// Close releases the decoder.
	Close() error
}

// scannerOpener acquires a fresh scanner for one pass. The window lets
// decoders with random access skip data the pass will not read.
type scannerOpener func(w RowWindow) (windowScanner, error)

// xlsxScanner reads a workbook sheet through the excelize row iterator
type xlsxScanner struct {
	file  *excelize.File
	rows  *excelize.Rows
	sheet string
	opts  excelize.Options
	row   int
	err   error
}

// openXLSX opens the workbook behind src and positions a row iterator on
// sheetName, or on the active sheet when sheetName is empty.
func openXLSX(src *source, sheetName string, raw bool) (*xlsxScanner, error) {
	opts := excelize.Options{RawCellValue: raw}

	var (
		f   *excelize.File
		err error
	)
	if src.isCompressed() {
		data, readErr := src.readAll()
		if readErr != nil {
			return nil, readErr
		}
		f, err = excelize.OpenReader(data, opts)
	} else {
		f, err = excelize.OpenFile(src.path, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	sheet, err := resolveSheet(f, sheetName)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheet, err)
	}

	return &xlsxScanner{
		file:  f,
		rows:  rows,
		sheet: sheet,
		opts:  opts,
	}, nil
}

// resolveSheet returns the sheet to read. An explicit name must exist.
func resolveSheet(f *excelize.File, sheetName string) (string, error) {
	if sheetName == "" {
		name := f.GetSheetName(f.GetActiveSheetIndex())
		if name == "" {
			return "", fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
		return name, nil
	}

	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to look up sheet %s: %w", sheetName, err)
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	return sheetName, nil
}

// Next advances the iterator. Sparse rows are reported as empty rows by excelize,
// so the row counter stays aligned with absolute row numbers.
func (s *xlsxScanner) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.rows.Next() {
		s.err = s.rows.Error()
		return false
	}
	s.row++
	return true
}

// RowNumber returns the current absolute row number
func (s *xlsxScanner) RowNumber() int {
	return s.row
}

// Cells returns the non-empty cells of the current row
func (s *xlsxScanner) Cells() (Row, error) {
	values, err := s.rows.Columns(s.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read row %d in sheet %s: %w", s.row, s.sheet, err)
	}
	return existingCells(values), nil
}

// Err returns the iterator error, if any
func (s *xlsxScanner) Err() error {
	return s.err
}

// Close releases the iterator and the workbook
func (s *xlsxScanner) Close() error {
	return errors.Join(s.rows.Close(), s.file.Close())
}
