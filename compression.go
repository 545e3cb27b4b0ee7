package sheetio

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType identifies the compression wrapped around a file format.
// It is chosen by the last extension of a file name ("orders.csv.gz").
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression (read only)
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// codec opens and produces one compressed stream format. A nil writer means
// the format can only be read.
type codec struct {
	name   string
	ext    string
	reader func(r io.Reader) (io.ReadCloser, error)
	writer func(w io.Writer, level CompressionLevel) (io.WriteCloser, error)
}

var codecs = [...]codec{
	CompressionNone: {
		name:   "none",
		reader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil },
		writer: func(w io.Writer, _ CompressionLevel) (io.WriteCloser, error) { return nopWriteCloser{w}, nil },
	},
	CompressionGZ: {
		name:   "gz",
		ext:    extGZ,
		reader: func(r io.Reader) (io.ReadCloser, error) { return gzip.NewReader(r) },
		writer: func(w io.Writer, level CompressionLevel) (io.WriteCloser, error) {
			return gzip.NewWriterLevel(w, level.gzip())
		},
	},
	CompressionBZ2: {
		name:   "bz2",
		ext:    extBZ2,
		reader: func(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(bzip2.NewReader(r)), nil },
	},
	CompressionXZ: {
		name: "xz",
		ext:  extXZ,
		reader: func(r io.Reader) (io.ReadCloser, error) {
			xr, err := xz.NewReader(r)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(xr), nil
		},
		writer: func(w io.Writer, _ CompressionLevel) (io.WriteCloser, error) { return xz.NewWriter(w) },
	},
	CompressionZSTD: {
		name: "zstd",
		ext:  extZSTD,
		reader: func(r io.Reader) (io.ReadCloser, error) {
			dec, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return dec.IOReadCloser(), nil
		},
		writer: func(w io.Writer, level CompressionLevel) (io.WriteCloser, error) {
			return zstd.NewWriter(w, zstd.WithEncoderLevel(level.zstd()))
		},
	},
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// codec returns the codec of c; unknown values behave like CompressionNone.
func (c CompressionType) codec() codec {
	if c < 0 || int(c) >= len(codecs) {
		return codecs[CompressionNone]
	}
	return codecs[c]
}

// String returns the short codec name ("gz", "zstd", ...)
func (c CompressionType) String() string {
	return c.codec().name
}

// Extension returns the file suffix of the codec, or "" for CompressionNone
func (c CompressionType) Extension() string {
	return c.codec().ext
}

// DetectCompression returns the compression selected by the suffix of name.
// Matching is case-insensitive.
func DetectCompression(name string) CompressionType {
	lower := strings.ToLower(name)
	for i := range codecs {
		if ext := codecs[i].ext; ext != "" && strings.HasSuffix(lower, ext) {
			return CompressionType(i)
		}
	}
	return CompressionNone
}

// trimCompression strips a compression suffix from name, keeping its case
func trimCompression(name string) string {
	ext := DetectCompression(name).Extension()
	return name[:len(name)-len(ext)]
}

// decompress wraps r with the reader of c
func decompress(r io.Reader, c CompressionType) (io.ReadCloser, error) {
	rc, err := c.codec().reader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s reader: %w", c, err)
	}
	return rc, nil
}

// fileReadCloser closes the decompressor before the file under it
type fileReadCloser struct {
	io.ReadCloser
	file *os.File
}

func (f fileReadCloser) Close() error {
	return errors.Join(f.ReadCloser.Close(), f.file.Close())
}

// openDecompressed opens path and decompresses it according to its suffix
func openDecompressed(path string) (io.ReadCloser, error) {
	file, err := os.Open(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	rc, err := decompress(file, DetectCompression(path))
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return fileReadCloser{ReadCloser: rc, file: file}, nil
}

// compress returns data encoded with c at level.
func compress(data []byte, c CompressionType, level CompressionLevel) ([]byte, error) {
	if c == CompressionNone {
		return data, nil
	}
	cd := c.codec()
	if cd.writer == nil {
		return nil, fmt.Errorf("%w: %s output", ErrUnsupportedFormat, cd.name)
	}

	var buf bytes.Buffer
	w, err := cd.writer(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s writer: %w", cd.name, err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to compress output: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish %s output: %w", cd.name, err)
	}
	return buf.Bytes(), nil
}
