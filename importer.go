package sheetio

import (
	"context"
	"fmt"
)

// Importer turns raw rows into application records and consumes them.
//
// Map is a pure per-row transform. Handle receives every mapped record of a
// file, in source order, in a single call.
type Importer[T any] interface {
	Map(row Row) T
	Handle(ctx context.Context, records []T) error
}

// importerFuncs adapts a pair of functions to Importer
type importerFuncs[T any] struct {
	mapFn    func(Row) T
	handleFn func(context.Context, []T) error
}

func (f importerFuncs[T]) Map(row Row) T { return f.mapFn(row) }

func (f importerFuncs[T]) Handle(ctx context.Context, records []T) error {
	return f.handleFn(ctx, records)
}

// NewImporter builds an Importer from a map function and a handle function.
func NewImporter[T any](mapFn func(Row) T, handleFn func(context.Context, []T) error) Importer[T] {
	if mapFn == nil || handleFn == nil {
		return nil
	}
	return importerFuncs[T]{mapFn: mapFn, handleFn: handleFn}
}

// Import resolves name through the engine's PathResolver, reads it, maps
// every row with importer.Map and hands the records to importer.Handle.
// Every failure is returned to the caller; nothing is retried or persisted
// by the pipeline itself.
func Import[T any](ctx context.Context, e *Engine, importer Importer[T], name string, opts ReadOptions) error {
	if importer == nil {
		return fmt.Errorf("%w: importer is nil", ErrInvalidImporter)
	}
	if e == nil {
		e = New()
	}

	path, err := e.resolver.Resolve(ctx, name)
	if err != nil {
		return NewErrorContext("resolve", name).Error(err)
	}

	rows, err := e.reader.Read(ctx, path, opts)
	if err != nil {
		return err
	}

	records := Map(rows, importer.Map).ToSlice()
	e.logger.Debug().
		Str("file", name).
		Int("records", len(records)).
		Msg("import records mapped")

	if err := importer.Handle(ctx, records); err != nil {
		return NewErrorContext("import", path).WithDetails("handler").Error(err)
	}
	return nil
}
