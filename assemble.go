package sheetio

import (
	"fmt"
	"strconv"
	"strings"
)

// defaultFlatSheetName is the title of the only sheet of a flat export
const defaultFlatSheetName = "Sheet1"

// Workbook is an assembled, not yet serialized, workbook. Sheet order is
// definition order.
type Workbook struct {
	Sheets []SheetDefinition
	Active int
}

// ActiveSheet returns the active sheet, or nil for an empty workbook.
func (wb *Workbook) ActiveSheet() *SheetDefinition {
	if wb == nil || wb.Active < 0 || wb.Active >= len(wb.Sheets) {
		return nil
	}
	return &wb.Sheets[wb.Active]
}

// SheetNames returns the sheet titles in order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Assemble builds a Workbook from exp.
//
// When exp is a MultiSheetExporter with a non-empty Sheets result, each
// definition becomes a sheet in order and unnamed sheets are titled
// "Sheet N". Otherwise a single "Sheet1" is built from Headings and Data,
// styled by Styles when exp is a StyledExporter. The active sheet is 0.
func Assemble(exp Exporter) (*Workbook, error) {
	if exp == nil {
		return nil, fmt.Errorf("%w: exporter is nil", ErrInvalidExporter)
	}

	if multi, ok := exp.(MultiSheetExporter); ok {
		if defs := multi.Sheets(); len(defs) > 0 {
			return assembleSheets(defs)
		}
	}

	sheet := SheetDefinition{
		Name:     defaultFlatSheetName,
		Headings: exp.Headings(),
		Data:     exp.Data(),
	}
	if styled, ok := exp.(StyledExporter); ok {
		if rules := styled.Styles(); len(rules) > 0 {
			sheet.Styles = rules
		}
	}
	return &Workbook{Sheets: []SheetDefinition{sheet}}, nil
}

// assembleSheets copies defs into a workbook, defaulting names.
func assembleSheets(defs []SheetDefinition) (*Workbook, error) {
	wb := &Workbook{Sheets: make([]SheetDefinition, 0, len(defs))}
	seen := make(map[string]struct{}, len(defs))

	for i, def := range defs {
		if def.Name == "" {
			def.Name = "Sheet " + strconv.Itoa(i+1)
		}
		// Sheet titles are case-insensitive in a workbook.
		key := strings.ToLower(def.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: duplicate sheet name %q", ErrInvalidExporter, def.Name)
		}
		seen[key] = struct{}{}
		wb.Sheets = append(wb.Sheets, def)
	}
	wb.Active = 0
	return wb, nil
}
