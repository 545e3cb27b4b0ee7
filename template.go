package sheetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Template is a MultiSheetExporter whose layout (sheet names, headings and
// styles) comes from YAML and whose data is bound at runtime.
//
//	sheets:
//	  - name: Employees
//	    headings: [ID, Name, Salary]
//	    styles:
//	      - range: A1:C1
//	        font: {bold: true, color: "#FFFFFF"}
//	        fill: {color: "#4F81BD"}
//	        alignment: {horizontal: center}
type Template struct {
	sheets []sheetTemplate
	data   map[string][]Row
}

type templateFile struct {
	Sheets []sheetTemplate `yaml:"sheets"`
}

type sheetTemplate struct {
	Name     string          `yaml:"name"`
	Headings []string        `yaml:"headings"`
	Styles   []styleTemplate `yaml:"styles"`
}

type styleTemplate struct {
	Range     string             `yaml:"range"`
	Font      *fontTemplate      `yaml:"font"`
	Fill      *fillTemplate      `yaml:"fill"`
	Alignment *alignmentTemplate `yaml:"alignment"`
	Locked    *bool              `yaml:"locked"`
}

type fontTemplate struct {
	Bold   bool    `yaml:"bold"`
	Italic bool    `yaml:"italic"`
	Size   float64 `yaml:"size"`
	Color  string  `yaml:"color"`
}

type fillTemplate struct {
	Color string `yaml:"color"`
}

type alignmentTemplate struct {
	Horizontal string `yaml:"horizontal"` // center, left, right
	Vertical   string `yaml:"vertical"`   // top, center, bottom
	WrapText   bool   `yaml:"wrap_text"`
}

// LoadTemplate decodes a YAML layout. Unknown keys are rejected.
func LoadTemplate(r io.Reader) (*Template, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var tf templateFile
	if err := dec.Decode(&tf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty template", ErrInvalidExporter)
		}
		return nil, fmt.Errorf("failed to decode template: %w", err)
	}
	if len(tf.Sheets) == 0 {
		return nil, fmt.Errorf("%w: template defines no sheets", ErrInvalidExporter)
	}

	t := &Template{
		sheets: tf.Sheets,
		data:   make(map[string][]Row, len(tf.Sheets)),
	}
	for i := range t.sheets {
		for _, s := range t.sheets[i].Styles {
			if _, _, err := splitRange(s.Range); err != nil {
				return nil, fmt.Errorf("%w: sheet %d: %w", ErrInvalidExporter, i+1, err)
			}
		}
	}
	return t, nil
}

// LoadTemplateFile reads a YAML layout from path.
func LoadTemplateFile(path string) (*Template, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer f.Close()
	return LoadTemplate(f)
}

// Bind attaches data rows to the sheet named sheet.
func (t *Template) Bind(sheet string, rows []Row) error {
	for _, s := range t.sheets {
		if s.Name == sheet {
			t.data[sheet] = rows
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
}

// Headings returns the headings of the first sheet.
func (t *Template) Headings() Row {
	return stringsToRow(t.sheets[0].Headings)
}

// Data returns the rows bound to the first sheet.
func (t *Template) Data() []Row {
	return t.data[t.sheets[0].Name]
}

// Sheets returns one definition per template sheet with its bound data.
func (t *Template) Sheets() []SheetDefinition {
	defs := make([]SheetDefinition, 0, len(t.sheets))
	for _, s := range t.sheets {
		def := SheetDefinition{
			Name:     s.Name,
			Headings: stringsToRow(s.Headings),
			Data:     t.data[s.Name],
		}
		for _, st := range s.Styles {
			def.Styles = append(def.Styles, StyleRule{Range: st.Range, Style: st.toStyle()})
		}
		defs = append(defs, def)
	}
	return defs
}

// toStyle converts the YAML style to an excelize style
func (st styleTemplate) toStyle() *excelize.Style {
	style := &excelize.Style{}
	if st.Font != nil {
		style.Font = &excelize.Font{
			Bold:   st.Font.Bold,
			Italic: st.Font.Italic,
			Size:   st.Font.Size,
			Color:  strings.TrimPrefix(st.Font.Color, "#"),
		}
	}
	if st.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(st.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if st.Alignment != nil {
		style.Alignment = &excelize.Alignment{
			Horizontal: st.Alignment.Horizontal,
			Vertical:   st.Alignment.Vertical,
			WrapText:   st.Alignment.WrapText,
		}
	}
	if st.Locked != nil {
		style.Protection = &excelize.Protection{
			Locked: *st.Locked,
		}
	}
	return style
}
