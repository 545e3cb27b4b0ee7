package sheetio

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rs/zerolog"
)

// Reader turns tabular files into ordered row collections. A Reader holds no
// per-call state and may be reused.
type Reader struct {
	logger    zerolog.Logger
	validator *validator
	// open overrides scanner acquisition; nil uses the format's decoder
	open func(ctx context.Context, src *source, opts ReadOptions) scannerOpener
}

// NewReader creates a Reader that logs through logger.
func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{
		logger:    logger,
		validator: newValidator(),
	}
}

// Read reads path with a Reader that does not log.
func Read(ctx context.Context, path string, opts ReadOptions) (*RecordSet[Row], error) {
	return NewReader(zerolog.Nop()).Read(ctx, path, opts)
}

// Read reads every data row of path in source order. The first row is
// treated as headings and never returned.
//
// CSV and TSV are read in one streaming pass regardless of opts.ChunkSize.
// Workbooks and Parquet files are read in one pass when opts.ChunkSize is
// zero, otherwise in windows of opts.ChunkSize rows, reopening the decoder
// for every window.
func (r *Reader) Read(ctx context.Context, path string, opts ReadOptions) (*RecordSet[Row], error) {
	if err := r.validator.validatePath(path); err != nil {
		return nil, err
	}
	src := newSource(path)

	var (
		rows []Row
		err  error
	)
	switch {
	case src.fileType.delimited():
		rows, err = r.readDelimited(ctx, src)
	case opts.ChunkSize.Enabled():
		rows, err = r.readWindowed(ctx, r.opener(ctx, src, opts), opts)
	default:
		rows, err = r.readWhole(ctx, r.opener(ctx, src, opts), opts)
	}
	if err != nil {
		ec := NewErrorContext("read", path)
		if opts.SheetName != "" {
			ec = ec.WithSheet(opts.SheetName)
		}
		return nil, ec.Error(err)
	}
	return newRecordSet(rows), nil
}

// opener returns the scanner factory for src.
func (r *Reader) opener(ctx context.Context, src *source, opts ReadOptions) scannerOpener {
	if r.open != nil {
		return r.open(ctx, src, opts)
	}
	return openerFor(ctx, src, opts)
}

// openerFor returns the decoder-backed scanner factory for src.
func openerFor(ctx context.Context, src *source, opts ReadOptions) scannerOpener {
	if src.fileType == FileTypeParquet {
		return func(w RowWindow) (windowScanner, error) {
			if opts.SheetName != "" {
				return nil, fmt.Errorf("%w: parquet files have no sheet %s", ErrSheetNotFound, opts.SheetName)
			}
			return openParquet(ctx, src, w)
		}
	}
	return func(RowWindow) (windowScanner, error) {
		return openXLSX(src, opts.SheetName, opts.RawValues)
	}
}

// readDelimited reads CSV or TSV, skipping exactly the first record
func (r *Reader) readDelimited(ctx context.Context, src *source) ([]Row, error) {
	rc, err := src.openReader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	csvReader := csv.NewReader(rc)
	if src.fileType == FileTypeTSV {
		csvReader.Comma = tsvDelimiter
	} else {
		csvReader.Comma = csvDelimiter
	}
	csvReader.FieldsPerRecord = -1

	if _, err := csvReader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return []Row{}, nil
		}
		return nil, fmt.Errorf("failed to read %s header: %w", src.fileType, err)
	}

	rows := []Row{}
	for {
		record, err := csvReader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read %s record: %w", src.fileType, err)
		}
		rows = append(rows, stringsToRow(record))

		if len(rows)%DefaultChunkSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}

	r.logger.Debug().
		Str("format", src.fileType.String()).
		Int("rows", len(rows)).
		Msg("read delimited file")
	return rows, nil
}

// readWhole reads a sheet in one pass. Row 1 is skipped unconditionally and
// blank rows are kept unless the policy drops them everywhere.
func (r *Reader) readWhole(ctx context.Context, open scannerOpener, opts ReadOptions) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w := RowWindow{Start: firstDataRow, End: math.MaxInt - 1}
	rows, _, err := scanWindow(open, w, opts.BlankRows.dropsBlank(false))
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Int("rows", len(rows)).
		Msg("read sheet")
	return rows, nil
}

// readWindowed reads a sheet in windows of opts.ChunkSize rows. The first
// window starts at row 2 so the header is consumed once. Reading stops after
// the pass that reaches the end of the sheet; a window holding only blank
// rows does not end the read unless opts.StopOnEmptyWindow is set.
func (r *Reader) readWindowed(ctx context.Context, open scannerOpener, opts ReadOptions) ([]Row, error) {
	var limit *MemoryLimit
	if opts.MemoryLimitMB > 0 {
		limit = NewMemoryLimit(opts.MemoryLimitMB)
	}

	var (
		rows   = []Row{}
		window RowWindow
		size   = opts.ChunkSize.Int()
		drop   = opts.BlankRows.dropsBlank(true)
	)
	for start := firstDataRow; ; start += size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if limit != nil {
			if err := limit.Guard("windowed read"); err != nil {
				return nil, err
			}
		}

		window.SetWindow(start, size)
		chunk, exhausted, err := scanWindow(open, window, drop)
		if err != nil {
			return nil, err
		}
		rows = append(rows, chunk...)

		r.logger.Debug().
			Int("start", window.Start).
			Int("end", window.End).
			Int("rows", len(chunk)).
			Msg("read window")

		if exhausted || (opts.StopOnEmptyWindow && len(chunk) == 0) {
			return rows, nil
		}
	}
}

// scanWindow runs one pass over w with a freshly opened scanner and closes it
// before returning. exhausted reports whether the sheet ended inside the pass.
func scanWindow(open scannerOpener, w RowWindow, dropBlank bool) (rows []Row, exhausted bool, err error) {
	sc, err := open(w)
	if err != nil {
		return nil, false, err
	}
	defer func() {
		if closeErr := sc.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close decoder: %w", closeErr))
			rows = nil
		}
	}()

	rows = []Row{}
	for sc.Next() {
		n := sc.RowNumber()
		if n > w.End {
			return rows, false, nil
		}
		if !w.ShouldRead("", n, "") {
			continue
		}

		cells, err := sc.Cells()
		if err != nil {
			return nil, false, err
		}
		if dropBlank && cells.IsBlank() {
			continue
		}
		rows = append(rows, cells)
	}
	if err := sc.Err(); err != nil {
		return nil, false, err
	}
	return rows, true, nil
}
