// Package scaffold generates importer and exporter source files for
// applications built on sheetio.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/rs/zerolog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

const (
	// DefaultImportDir is where importers are generated, relative to the project root.
	DefaultImportDir = "internal/excel/imports"
	// DefaultExportDir is where exporters are generated, relative to the project root.
	DefaultExportDir = "internal/excel/exports"
	// DefaultEntity is the record type referenced when no entity is given.
	DefaultEntity = "YourEntity"
)

var (
	// ErrAlreadyExists is returned when the target file is present. Nothing is written.
	ErrAlreadyExists = errors.New("scaffold: file already exists")
	// ErrInvalidName is returned for names that cannot form a Go identifier
	ErrInvalidName = errors.New("scaffold: invalid name")
)

// Config locates the generated files.
type Config struct {
	ProjectRoot string
	ImportDir   string
	ExportDir   string
}

// DefaultConfig returns a Config rooted at the current directory.
func DefaultConfig() Config {
	return Config{
		ProjectRoot: ".",
		ImportDir:   DefaultImportDir,
		ExportDir:   DefaultExportDir,
	}
}

// Generator renders scaffolds into the directories of its Config.
type Generator struct {
	cfg    Config
	logger zerolog.Logger
}

// NewGenerator creates a Generator. Empty Config fields take their defaults.
func NewGenerator(cfg Config, logger zerolog.Logger) *Generator {
	def := DefaultConfig()
	if cfg.ProjectRoot == "" {
		cfg.ProjectRoot = def.ProjectRoot
	}
	if cfg.ImportDir == "" {
		cfg.ImportDir = def.ImportDir
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = def.ExportDir
	}
	return &Generator{cfg: cfg, logger: logger}
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Result describes a generated file.
type Result struct {
	Path     string
	TypeName string
}

// templateData is the input of every template
type templateData struct {
	Package  string
	TypeName string
	Entity   string
}

// CreateImporter writes <snake>_importer.go declaring <Pascal>Importer.
func (g *Generator) CreateImporter(name, entity string) (Result, error) {
	return g.create(g.cfg.ImportDir, name, "Importer", entity, "importer.go.tmpl")
}

// CreateExporter writes <snake>_exporter.go declaring <Pascal>Exporter. A
// multi-sheet exporter implements Sheets.
func (g *Generator) CreateExporter(name, entity string, multi bool) (Result, error) {
	tmpl := "exporter.go.tmpl"
	if multi {
		tmpl = "exporter_multisheet.go.tmpl"
	}
	return g.create(g.cfg.ExportDir, name, "Exporter", entity, tmpl)
}

func (g *Generator) create(dir, name, suffix, entity, tmpl string) (Result, error) {
	base := pascalCase(strings.TrimSuffix(pascalCase(name), suffix))
	if !isIdentifier(base) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if entity == "" {
		entity = DefaultEntity
	}
	if !isIdentifier(entity) {
		return Result{}, fmt.Errorf("%w: entity %q", ErrInvalidName, entity)
	}

	typeName := base + suffix
	target := filepath.Join(g.cfg.ProjectRoot, dir, snakeCase(base)+"_"+strings.ToLower(suffix)+".go")
	if _, err := os.Stat(target); err == nil {
		return Result{}, fmt.Errorf("%w: %s %s", ErrAlreadyExists, suffix, typeName)
	}

	src, err := render(tmpl, templateData{
		Package:  packageName(dir),
		TypeName: typeName,
		Entity:   entity,
	})
	if err != nil {
		return Result{}, err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return Result{}, fmt.Errorf("scaffold: failed to create directory: %w", err)
	}
	if err := writeNew(target, src); err != nil {
		return Result{}, err
	}

	g.logger.Debug().
		Str("type", typeName).
		Str("path", target).
		Msg("scaffold created")
	return Result{Path: target, TypeName: typeName}, nil
}

// render executes tmpl and formats the result as Go source
func render(tmpl string, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return nil, fmt.Errorf("scaffold: failed to render %s: %w", tmpl, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("scaffold: failed to format %s: %w", tmpl, err)
	}
	return src, nil
}

// writeNew creates path exclusively
func writeNew(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600) //nolint:gosec // path is built from the configured project root
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, path)
		}
		return fmt.Errorf("scaffold: failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("scaffold: failed to write %s: %w", path, err)
	}
	return nil
}

// pascalCase upper-cases the first letter of every word separated by
// '_', '-', '.' or spaces: "user_report" -> "UserReport".
func pascalCase(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			upper = true
		case upper:
			b.WriteRune(unicode.ToUpper(r))
			upper = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// snakeCase converts a Pascal-case identifier: "UserReport" -> "user_report".
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// packageName derives a package clause from the last element of dir
func packageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(filepath.Base(filepath.Clean(dir))) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit(rune(name[0])) {
		return "excel"
	}
	return name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}
