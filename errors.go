package sheetio

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors returned by sheetio. Decoder and encoder errors are wrapped,
// so errors.Is and errors.As still reach the underlying cause.
var (
	// ErrFileNotFound indicates the source path does not resolve to a file
	ErrFileNotFound = errors.New("sheetio: file not found")

	// ErrSheetNotFound indicates a requested sheet is not present in the workbook
	ErrSheetNotFound = errors.New("sheetio: sheet not found")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("sheetio: unsupported file format")

	// ErrInvalidImporter indicates a nil or otherwise unusable importer
	ErrInvalidImporter = errors.New("sheetio: invalid importer")

	// ErrInvalidExporter indicates a nil or otherwise unusable exporter
	ErrInvalidExporter = errors.New("sheetio: invalid exporter")

	// ErrUnknownExporter indicates no exporter is registered under a name
	ErrUnknownExporter = errors.New("sheetio: unknown exporter")

	// ErrMemoryLimit indicates memory limit exceeded
	ErrMemoryLimit = errors.New("sheetio: memory limit exceeded")

	// ErrNoDeliverer indicates a download was requested from an engine without a Deliverer
	ErrNoDeliverer = errors.New("sheetio: no deliverer configured")

	// ErrPathOutsideRoot indicates a resolved path escapes the storage root
	ErrPathOutsideRoot = errors.New("sheetio: path outside storage root")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	SheetName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithSheet adds sheet context to the error
func (ec *ErrorContext) WithSheet(sheetName string) *ErrorContext {
	ec.SheetName = sheetName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("sheetio: %s failed", ec.Operation)}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.SheetName != "" {
		parts = append(parts, "sheet: "+ec.SheetName)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}
