package sheetio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
)

// FileType is the base format of a tabular file, ignoring compression
type FileType int

const (
	FileTypeCSV FileType = iota
	FileTypeTSV
	FileTypeParquet
	// FileTypeXLSX covers every OOXML workbook flavour (xlsx, xlsm, xltx, xltm)
	FileTypeXLSX
	FileTypeUnsupported
)

const (
	extCSV     = ".csv"
	extTSV     = ".tsv"
	extParquet = ".parquet"
	extXLSX    = ".xlsx"

	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// formatExts maps every readable extension to its format, in glob order
var formatExts = []struct {
	ext string
	ft  FileType
}{
	{extCSV, FileTypeCSV},
	{extTSV, FileTypeTSV},
	{extParquet, FileTypeParquet},
	{extXLSX, FileTypeXLSX},
	{".xlsm", FileTypeXLSX},
	{".xltx", FileTypeXLSX},
	{".xltm", FileTypeXLSX},
}

var fileTypeNames = [...]string{
	FileTypeCSV:         "csv",
	FileTypeTSV:         "tsv",
	FileTypeParquet:     "parquet",
	FileTypeXLSX:        "xlsx",
	FileTypeUnsupported: "unsupported",
}

// String returns the short format name
func (ft FileType) String() string {
	if ft < 0 || int(ft) >= len(fileTypeNames) {
		return fileTypeNames[FileTypeUnsupported]
	}
	return fileTypeNames[ft]
}

// fileTypeOf returns the base format of name, ignoring a compression suffix
func fileTypeOf(name string) FileType {
	ext := trimmedLower(filepath.Ext(trimCompression(name)))
	for _, f := range formatExts {
		if f.ext == ext {
			return f.ft
		}
	}
	return FileTypeUnsupported
}

// delimited reports whether the format is line-oriented delimited text
func (ft FileType) delimited() bool {
	return ft == FileTypeCSV || ft == FileTypeTSV
}

// source is a tabular input on disk
type source struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newSource creates a new source, detecting format and compression from path
func newSource(path string) *source {
	return &source{
		path:        path,
		fileType:    fileTypeOf(path),
		compression: DetectCompression(path),
	}
}

// isCompressed reports whether a codec sits between the file and its format
func (s *source) isCompressed() bool {
	return s.compression != CompressionNone
}

// isSupportedFile reports whether name carries a readable extension
func isSupportedFile(name string) bool {
	return fileTypeOf(name) != FileTypeUnsupported
}

// supportedFileExtPatterns lists a glob for every format and codec pairing
func supportedFileExtPatterns() []string {
	patterns := make([]string, 0, len(formatExts)*len(codecs))
	for _, f := range formatExts {
		for i := range codecs {
			patterns = append(patterns, "*"+f.ext+codecs[i].ext)
		}
	}
	return patterns
}

// openReader opens the source with compression removed
func (s *source) openReader() (io.ReadCloser, error) {
	rc, err := openDecompressed(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return nil, err
	}
	return rc, nil
}

// readAll loads the decompressed source into memory. Workbook and Parquet
// decoders need random access, so compressed inputs are buffered.
func (s *source) readAll() (*bytes.Reader, error) {
	rc, err := s.openReader()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return bytes.NewReader(data), nil
}
