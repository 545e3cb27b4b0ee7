package sheetio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// validator handles validation of read and export inputs
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validatePath checks that path names an existing, supported regular file
func (v *validator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrFileNotFound)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	if !isSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// validateTargetName checks an export file name before any rendering happens
func (v *validator) validateTargetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("target file name cannot be empty")
	}
	if DetectCompression(name) == CompressionBZ2 {
		return fmt.Errorf("%w: bzip2 output is not supported: %s", ErrUnsupportedFormat, name)
	}
	return nil
}
