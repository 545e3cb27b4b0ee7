package sqlstore

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/sheetio"
)

var (
	_ sheetio.Importer[sheetio.Record] = (*TableImporter)(nil)
	_ sheetio.StyledExporter           = (*QueryExporter)(nil)
)

// QueryExporter is a single-sheet export of a query result. Column names
// become headings.
type QueryExporter struct {
	headings sheetio.Row
	rows     []sheetio.Row
}

// QueryExporter runs query and buffers its result for export.
func (s *Store) QueryExporter(ctx context.Context, query string, args ...any) (*QueryExporter, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query failed: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("sqlstore: failed to read columns: %w", err)
	}

	exp := &QueryExporter{
		headings: make(sheetio.Row, len(names)),
		rows:     []sheetio.Row{},
	}
	for i, name := range names {
		exp.headings[i] = name
	}

	for rows.Next() {
		values := make([]any, len(names))
		dest := make([]any, len(names))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("sqlstore: failed to scan row: %w", err)
		}

		row := make(sheetio.Row, len(values))
		for i, v := range values {
			// TEXT may arrive as []byte depending on the declared type.
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[i] = v
		}
		exp.rows = append(exp.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: failed to iterate rows: %w", err)
	}

	s.logger.Debug().
		Int("columns", len(names)).
		Int("rows", len(exp.rows)).
		Msg("query exported")
	return exp, nil
}

// Headings returns the result column names.
func (q *QueryExporter) Headings() sheetio.Row {
	return q.headings
}

// Data returns the result rows.
func (q *QueryExporter) Data() []sheetio.Row {
	return q.rows
}

// Styles makes the heading row bold.
func (q *QueryExporter) Styles() []sheetio.StyleRule {
	if len(q.headings) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(q.headings), 1)
	if err != nil {
		return nil
	}
	return []sheetio.StyleRule{{
		Range: "A1:" + last,
		Style: &excelize.Style{Font: &excelize.Font{Bold: true}},
	}}
}
