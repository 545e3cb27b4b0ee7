// Package sqlstore connects sheetio imports and exports to a SQLite database.
//
// A Store's Importer persists imported records into a table whose column
// types are inferred from the data, and QueryExporter turns the result of a
// SQL query into a sheet.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nao1215/sheetio"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// driverName is the database/sql driver registered by modernc.org/sqlite
const driverName = "sqlite"

// ErrNoColumns indicates an importer was created without column names
var ErrNoColumns = errors.New("sqlstore: no columns")

// Store wraps a SQLite database.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// Open opens the SQLite database at dsn, e.g. "file:app.db" or ":memory:".
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: failed to open %s: %w", dsn, err)
	}
	// An in-memory database lives as long as its connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("sqlstore: failed to connect %s: %w", dsn, err), db.Close())
	}
	return New(db, opts...), nil
}

// New wraps an existing database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{db: db, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// TableImporter persists imported rows into one table.
type TableImporter struct {
	store   *Store
	table   string
	columns []string
}

// Importer returns an importer that maps row cells positionally onto
// columns and inserts the records into table. The table is created on first
// use with column types inferred from the imported values.
func (s *Store) Importer(table string, columns []string) (*TableImporter, error) {
	if strings.TrimSpace(table) == "" {
		return nil, fmt.Errorf("%w: table name is required", sheetio.ErrInvalidImporter)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: %w", sheetio.ErrInvalidImporter, ErrNoColumns)
	}
	return &TableImporter{
		store:   s,
		table:   table,
		columns: append([]string(nil), columns...),
	}, nil
}

// Map keys the row cells by column name. Missing cells become nil and extra
// cells are ignored.
func (ti *TableImporter) Map(row sheetio.Row) sheetio.Record {
	record := make(sheetio.Record, len(ti.columns))
	for i, name := range ti.columns {
		if i < len(row) {
			record[name] = row[i]
		} else {
			record[name] = nil
		}
	}
	return record
}

// Handle creates the table if needed and inserts every record in one transaction.
func (ti *TableImporter) Handle(ctx context.Context, records []sheetio.Record) (err error) {
	columns := inferColumns(ti.columns, records)

	tx, err := ti.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlstore: failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
		}
	}()

	if _, err := tx.ExecContext(ctx, createTableQuery(ti.table, columns)); err != nil {
		return fmt.Errorf("sqlstore: failed to create table %s: %w", ti.table, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery(ti.table, ti.columns))
	if err != nil {
		return fmt.Errorf("sqlstore: failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	values := make([]any, len(ti.columns))
	for _, record := range records {
		for i, name := range ti.columns {
			values[i] = record[name]
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("sqlstore: failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: failed to commit: %w", err)
	}

	ti.store.logger.Debug().
		Str("table", ti.table).
		Int("records", len(records)).
		Msg("records inserted")
	return nil
}

// createTableQuery builds the CREATE TABLE statement for columns
func createTableQuery(table string, columns []column) string {
	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		defs = append(defs, quoteIdent(col.Name)+" "+col.Affinity.String())
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (%s)`, quoteIdent(table), strings.Join(defs, ", "))
}

// insertQuery builds a parameterized INSERT for names
func insertQuery(table string, names []string) string {
	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	for i, name := range names {
		quoted[i] = quoteIdent(name)
		placeholders[i] = "?"
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// quoteIdent quotes a SQLite identifier
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
