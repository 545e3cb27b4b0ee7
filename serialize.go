package sheetio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Serialize renders wb in the format selected by targetFileName with
// default write options.
func Serialize(wb *Workbook, targetFileName string) ([]byte, error) {
	return SerializeWithOptions(wb, targetFileName, NewWriteOptions())
}

// SerializeWithOptions renders wb into a fully buffered byte slice. A ".csv"
// target writes the active sheet as CSV; any other extension produces XLSX.
// A trailing compression suffix (".gz", ".xz", ".zst") compresses the result.
func SerializeWithOptions(wb *Workbook, targetFileName string, opts WriteOptions) ([]byte, error) {
	if err := newValidator().validateTargetName(targetFileName); err != nil {
		return nil, err
	}
	if wb == nil || len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidExporter)
	}

	compression := DetectCompression(targetFileName)

	var (
		data []byte
		err  error
	)
	if outputFileType(targetFileName) == FileTypeCSV {
		data, err = writeCSV(wb)
	} else {
		data, err = writeXLSX(wb)
	}
	if err != nil {
		return nil, NewErrorContext("serialize", targetFileName).Error(err)
	}

	data, err = compress(data, compression, opts.Level)
	if err != nil {
		return nil, NewErrorContext("serialize", targetFileName).WithDetails(compression.String()).Error(err)
	}
	return data, nil
}

// outputFileType returns the format an export file name selects
func outputFileType(name string) FileType {
	if trimmedLower(filepath.Ext(trimCompression(name))) == extCSV {
		return FileTypeCSV
	}
	return FileTypeXLSX
}

// writeCSV writes the headings and data of the active sheet.
func writeCSV(wb *Workbook) ([]byte, error) {
	sheet := wb.ActiveSheet()
	if sheet == nil {
		return nil, fmt.Errorf("%w: active sheet %d out of range", ErrSheetNotFound, wb.Active)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(sheet.Headings.Strings()); err != nil {
		return nil, fmt.Errorf("failed to write headings: %w", err)
	}
	for _, row := range sheet.Data {
		if err := w.Write(row.Strings()); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// writeXLSX renders wb and returns the workbook bytes.
func writeXLSX(wb *Workbook) (data []byte, err error) {
	f, err := renderXLSX(wb)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// renderXLSX builds an excelize workbook. The first sheet already exists in
// a new file and is renamed; later sheets are appended in order.
func renderXLSX(wb *Workbook) (*excelize.File, error) {
	f := excelize.NewFile()

	for i, def := range wb.Sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), def.Name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to name sheet %q: %w", def.Name, err)
			}
		} else if _, err := f.NewSheet(def.Name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("failed to add sheet %q: %w", def.Name, err)
		}

		if err := writeSheet(f, def); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	active := wb.Active
	if active < 0 || active >= len(wb.Sheets) {
		active = 0
	}
	f.SetActiveSheet(active)
	return f, nil
}

// writeSheet writes headings at A1, data from A2 and then applies styles in order.
func writeSheet(f *excelize.File, def SheetDefinition) error {
	headings := []any(def.Headings)
	if err := f.SetSheetRow(def.Name, "A1", &headings); err != nil {
		return fmt.Errorf("failed to write headings of %q: %w", def.Name, err)
	}

	for i, row := range def.Data {
		cell, err := excelize.CoordinatesToCellName(1, firstDataRow+i)
		if err != nil {
			return err
		}
		values := []any(row)
		if err := f.SetSheetRow(def.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %q: %w", firstDataRow+i, def.Name, err)
		}
	}

	for _, rule := range def.Styles {
		if err := applyStyle(f, def.Name, rule); err != nil {
			return err
		}
	}
	return nil
}

// applyStyle sets rule.Style on every cell of rule.Range. Re-applying the
// same rule leaves the sheet unchanged since excelize reuses identical styles.
func applyStyle(f *excelize.File, sheet string, rule StyleRule) error {
	if rule.Style == nil {
		return nil
	}
	topLeft, bottomRight, err := splitRange(rule.Range)
	if err != nil {
		return err
	}

	styleID, err := f.NewStyle(rule.Style)
	if err != nil {
		return fmt.Errorf("failed to create style for %s!%s: %w", sheet, rule.Range, err)
	}
	if err := f.SetCellStyle(sheet, topLeft, bottomRight, styleID); err != nil {
		return fmt.Errorf("failed to style %s!%s: %w", sheet, rule.Range, err)
	}
	return nil
}

// splitRange splits "A1:C3" into its corners. A single cell is its own range.
func splitRange(ref string) (string, string, error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	if ref == "" {
		return "", "", errors.New("style range cannot be empty")
	}
	topLeft, bottomRight, found := strings.Cut(ref, ":")
	if !found {
		bottomRight = topLeft
	}
	if topLeft == "" || bottomRight == "" {
		return "", "", fmt.Errorf("invalid style range %q", ref)
	}
	return topLeft, bottomRight, nil
}
