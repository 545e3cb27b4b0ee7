package sheetio

import (
	"compress/gzip"

	"github.com/klauspost/compress/zstd"
)

// ReadOptions configures how a tabular file is read.
//
// Example:
//
//	options := NewReadOptions().
//		WithChunkSize(500).
//		WithSheet("Orders")
//
//	rows, err := Read(ctx, "orders.xlsx", options)
type ReadOptions struct {
	// ChunkSize enables windowed reading of workbooks when positive
	ChunkSize ChunkSize
	// SheetName restricts reading to one sheet; empty means the active sheet
	SheetName string
	// BlankRows decides which paths drop fully blank rows
	BlankRows BlankRowPolicy
	// RawValues reads unformatted workbook cell values
	RawValues bool
	// MemoryLimitMB aborts windowed reads once the heap exceeds it; 0 disables the check
	MemoryLimitMB int64
	// StopOnEmptyWindow ends a windowed read at the first window that yields no rows
	StopOnEmptyWindow bool
}

// NewReadOptions creates default read options (single pass, active sheet,
// blank rows dropped only in windowed reads).
//
// Modify with:
//   - WithChunkSize(): Read workbooks in bounded windows
//   - WithSheet(): Restrict to a named sheet
//   - WithBlankRows(): Change blank row handling
//   - WithRawValues(): Skip number formats when reading cells
//   - WithMemoryLimit(): Guard windowed reads with a heap limit
//   - WithStopOnEmptyWindow(): End windowed reads at the first empty window
func NewReadOptions() ReadOptions {
	return ReadOptions{
		BlankRows: BlankRowsChunkedOnly,
	}
}

// WithChunkSize sets the window size in rows. Zero or negative disables chunking.
func (o ReadOptions) WithChunkSize(size int) ReadOptions {
	o.ChunkSize = NewChunkSize(size)
	return o
}

// WithSheet sets the sheet to read.
func (o ReadOptions) WithSheet(name string) ReadOptions {
	o.SheetName = name
	return o
}

// WithBlankRows sets the blank row policy.
//
// Options:
//   - BlankRowsChunkedOnly: Drop blank rows in windowed reads only (default)
//   - BlankRowsKeep: Keep blank rows everywhere
//   - BlankRowsSkip: Drop blank rows everywhere
func (o ReadOptions) WithBlankRows(policy BlankRowPolicy) ReadOptions {
	o.BlankRows = policy
	return o
}

// WithRawValues toggles reading unformatted cell values.
func (o ReadOptions) WithRawValues(raw bool) ReadOptions {
	o.RawValues = raw
	return o
}

// WithMemoryLimit sets the heap limit in megabytes for windowed reads.
func (o ReadOptions) WithMemoryLimit(mb int64) ReadOptions {
	o.MemoryLimitMB = mb
	return o
}

// WithStopOnEmptyWindow makes a windowed read end at the first window that
// yields no rows instead of at the end of the sheet. Rows after a gap of
// chunk size or more blank rows are then not read.
func (o ReadOptions) WithStopOnEmptyWindow(stop bool) ReadOptions {
	o.StopOnEmptyWindow = stop
	return o
}

// CompressionLevel selects the speed/size trade-off of compressed output
type CompressionLevel int

const (
	// CompressionDefault uses each codec's default level
	CompressionDefault CompressionLevel = iota
	// CompressionFastest favours speed
	CompressionFastest
	// CompressionBest favours size
	CompressionBest
)

// gzip maps the level to a compress/gzip level
func (l CompressionLevel) gzip() int {
	switch l {
	case CompressionFastest:
		return gzip.BestSpeed
	case CompressionBest:
		return gzip.BestCompression
	default:
		return gzip.DefaultCompression
	}
}

// zstd maps the level to a zstd encoder level
func (l CompressionLevel) zstd() zstd.EncoderLevel {
	switch l {
	case CompressionFastest:
		return zstd.SpeedFastest
	case CompressionBest:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

// WriteOptions configures how a workbook is serialized.
//
// The output format and compression are taken from the target file name;
// "report.csv.gz" is gzip-compressed CSV and "report.xlsx" is plain XLSX.
type WriteOptions struct {
	// Level is the compression level used when the target name carries a compression suffix
	Level CompressionLevel
}

// NewWriteOptions creates default write options.
func NewWriteOptions() WriteOptions {
	return WriteOptions{
		Level: CompressionDefault,
	}
}

// WithCompressionLevel sets the compression level.
func (o WriteOptions) WithCompressionLevel(level CompressionLevel) WriteOptions {
	o.Level = level
	return o
}
