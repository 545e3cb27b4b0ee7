package sheetio

import "github.com/xuri/excelize/v2"

// Exporter supplies the headings and data rows of a single-sheet export.
type Exporter interface {
	Headings() Row
	Data() []Row
}

// StyledExporter is an Exporter that also styles cell ranges of its sheet.
type StyledExporter interface {
	Exporter
	Styles() []StyleRule
}

// MultiSheetExporter is an Exporter that defines several sheets. A non-empty
// Sheets result replaces Headings, Data and Styles entirely.
type MultiSheetExporter interface {
	Exporter
	Sheets() []SheetDefinition
}

// StyleRule applies an excelize style to a range in A1 notation, such as
// "A1:C1" or "B2". The style is passed to excelize unchanged.
type StyleRule struct {
	Range string
	Style *excelize.Style
}

// SheetDefinition describes one output sheet. Headings are written on row 1
// and Data from row 2. An empty Name defaults to "Sheet N", 1-based.
type SheetDefinition struct {
	Name     string
	Headings Row
	Data     []Row
	Styles   []StyleRule
}

// SheetExporter is a ready-made Exporter over a single SheetDefinition.
type SheetExporter struct {
	Sheet SheetDefinition
}

// Headings returns the sheet headings.
func (s SheetExporter) Headings() Row { return s.Sheet.Headings }

// Data returns the sheet rows.
func (s SheetExporter) Data() []Row { return s.Sheet.Data }

// Styles returns the sheet style rules.
func (s SheetExporter) Styles() []StyleRule { return s.Sheet.Styles }
