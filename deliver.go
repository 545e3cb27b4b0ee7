package sheetio

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

// Deliverer hands a finished export to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, name string, data []byte) error
}

// DelivererFunc adapts a function to Deliverer.
type DelivererFunc func(ctx context.Context, name string, data []byte) error

// Deliver calls f(ctx, name, data).
func (f DelivererFunc) Deliver(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}

// FileDeliverer writes exports into Dir, creating it when missing.
type FileDeliverer struct {
	Dir string
}

// Deliver writes data to Dir/name. name must be a bare file name.
func (d FileDeliverer) Deliver(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("%w: %s", ErrPathOutsideRoot, name)
	}

	if err := os.MkdirAll(d.Dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", d.Dir, err)
	}
	path := filepath.Join(d.Dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// HTTPDeliverer streams an export to an HTTP client as an attachment.
type HTTPDeliverer struct {
	W http.ResponseWriter
}

// Deliver writes headers and data to W.
func (d HTTPDeliverer) Deliver(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h := d.W.Header()
	h.Set("Content-Type", contentType(name))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": filepath.Base(name),
	}))
	h.Set("Content-Length", strconv.Itoa(len(data)))
	d.W.WriteHeader(http.StatusOK)

	if _, err := d.W.Write(data); err != nil {
		return fmt.Errorf("failed to send %s: %w", name, err)
	}
	return nil
}

// contentType returns the media type for an export file name
func contentType(name string) string {
	switch DetectCompression(name) {
	case CompressionGZ:
		return "application/gzip"
	case CompressionXZ:
		return "application/x-xz"
	case CompressionZSTD:
		return "application/zstd"
	}

	if outputFileType(name) == FileTypeCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
