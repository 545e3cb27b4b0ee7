package sheetio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// PathResolver maps an application-level file name, such as an upload key,
// to a readable path on the local file system.
type PathResolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// PathResolverFunc adapts a function to PathResolver.
type PathResolverFunc func(ctx context.Context, name string) (string, error)

// Resolve calls f(ctx, name).
func (f PathResolverFunc) Resolve(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// DirResolver resolves names relative to a storage root directory. Absolute
// names and names that climb out of Root are rejected.
type DirResolver struct {
	Root string
}

// Resolve returns Root joined with name.
func (d DirResolver) Resolve(_ context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: empty name", ErrFileNotFound)
	}
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, name)
	}

	root, err := filepath.Abs(d.Root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage root %s: %w", d.Root, err)
	}
	full := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, name)
	}
	return full, nil
}

// FSResolver resolves names inside an fs.FS, such as an embed.FS, by copying
// the file to a temporary location. Call Cleanup to remove the copies.
type FSResolver struct {
	fsys fs.FS

	mu        sync.Mutex
	tempFiles []string
}

// NewFSResolver creates a resolver over fsys.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// Resolve copies name out of the file system and returns the copy's path.
func (r *FSResolver) Resolve(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = path.Clean(filepath.ToSlash(name))
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, name)
	}
	return r.copyToTemp(name)
}

// Names lists every supported tabular file in the file system.
func (r *FSResolver) Names() ([]string, error) {
	var matches []string
	for _, pattern := range supportedFileExtPatterns() {
		found, err := fs.Glob(r.fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to search pattern %s: %w", pattern, err)
		}
		matches = append(matches, found...)
	}

	err := fs.WalkDir(r.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedFile(p) {
			return nil
		}
		if !slices.Contains(matches, p) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk filesystem: %w", err)
	}

	slices.Sort(matches)
	return matches, nil
}

// copyToTemp copies a file from the fs.FS to a temporary file
func (r *FSResolver) copyToTemp(name string) (string, error) {
	file, err := r.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return "", fmt.Errorf("failed to open FS file: %w", err)
	}
	defer file.Close()

	// Keep the full base name so compound extensions like .csv.gz survive.
	tempFile, err := os.CreateTemp("", "sheetio-*-"+path.Base(name))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, file); err != nil {
		if removeErr := os.Remove(tempFile.Name()); removeErr != nil {
			return "", errors.Join(
				fmt.Errorf("failed to copy content: %w", err),
				fmt.Errorf("failed to cleanup temp file: %w", removeErr),
			)
		}
		return "", fmt.Errorf("failed to copy content: %w", err)
	}

	r.mu.Lock()
	r.tempFiles = append(r.tempFiles, tempFile.Name())
	r.mu.Unlock()

	return tempFile.Name(), nil
}

// Cleanup removes every temporary copy made by Resolve.
func (r *FSResolver) Cleanup() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, p := range r.tempFiles {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove temp file %s: %w", p, err))
		}
	}
	r.tempFiles = nil
	return errors.Join(errs...)
}
