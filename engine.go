package sheetio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Engine bundles the collaborators of import and export calls: where files
// come from, where exports go and which named exporters exist. An Engine
// keeps no per-call state and can be reused.
type Engine struct {
	resolver  PathResolver
	deliverer Deliverer
	registry  *Registry
	reader    *Reader
	logger    zerolog.Logger
	writeOpts WriteOptions
}

// Option configures an Engine.
type Option func(*Engine)

// WithResolver sets how import names become local paths. The default uses
// names as paths unchanged.
func WithResolver(resolver PathResolver) Option {
	return func(e *Engine) {
		if resolver != nil {
			e.resolver = resolver
		}
	}
}

// WithDeliverer sets where Download sends exports.
func WithDeliverer(deliverer Deliverer) Option {
	return func(e *Engine) {
		e.deliverer = deliverer
	}
}

// WithRegistry sets the registry used by ExportNamed.
func WithRegistry(registry *Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.registry = registry
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithWriteOptions sets the options used when serializing exports.
func WithWriteOptions(opts WriteOptions) Option {
	return func(e *Engine) {
		e.writeOpts = opts
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		resolver: PathResolverFunc(func(_ context.Context, name string) (string, error) {
			return name, nil
		}),
		registry:  NewRegistry(),
		logger:    zerolog.Nop(),
		writeOpts: NewWriteOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reader = NewReader(e.logger)
	return e
}

// Registry returns the engine's exporter registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Read resolves name and reads it.
func (e *Engine) Read(ctx context.Context, name string, opts ReadOptions) (*RecordSet[Row], error) {
	path, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, NewErrorContext("resolve", name).Error(err)
	}
	return e.reader.Read(ctx, path, opts)
}

// Import runs the import pipeline for an importer of Records.
func (e *Engine) Import(ctx context.Context, importer Importer[Record], name string, opts ReadOptions) error {
	return Import(ctx, e, importer, name, opts)
}

// Export assembles exp into a workbook ready to serialize or download.
func (e *Engine) Export(exp Exporter) (*Export, error) {
	wb, err := Assemble(exp)
	if err != nil {
		return nil, err
	}
	return &Export{engine: e, workbook: wb}, nil
}

// ExportNamed assembles the exporter registered under name.
func (e *Engine) ExportNamed(name string) (*Export, error) {
	exp, err := e.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.Export(exp)
}

// Export is an assembled workbook bound to the engine that produced it.
type Export struct {
	engine   *Engine
	workbook *Workbook
}

// Workbook returns the assembled workbook.
func (x *Export) Workbook() *Workbook {
	return x.workbook
}

// Bytes serializes the workbook for fileName.
func (x *Export) Bytes(fileName string) ([]byte, error) {
	data, err := SerializeWithOptions(x.workbook, fileName, x.engine.writeOpts)
	if err != nil {
		return nil, err
	}

	x.engine.logger.Debug().
		Int("sheets", len(x.workbook.Sheets)).
		Str("file", fileName).
		Str("format", outputFileType(fileName).String()).
		Int("bytes", len(data)).
		Msg("export serialized")
	return data, nil
}

// Download serializes the workbook for fileName and hands the bytes to the
// engine's Deliverer.
func (x *Export) Download(ctx context.Context, fileName string) error {
	if x.engine.deliverer == nil {
		return ErrNoDeliverer
	}

	data, err := x.Bytes(fileName)
	if err != nil {
		return err
	}
	if err := x.engine.deliverer.Deliver(ctx, fileName, data); err != nil {
		return fmt.Errorf("failed to deliver %s: %w", fileName, err)
	}
	return nil
}
