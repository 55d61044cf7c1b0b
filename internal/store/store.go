package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"go.uber.org/zap"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the in-memory clinic database and provides access to repositories.
// Nothing is persisted: the data disappears when the process exits.
type Store struct {
	db     *sql.DB
	drv    *entsql.Driver
	seq    *sequenceCounter
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// MemoryDSN returns a DSN for a named, process-private in-memory database.
// Distinct names give independent databases.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

// OpenMemory opens a fresh in-memory store seeded with the sample clinic data.
func OpenMemory(opts ...Option) (*Store, error) {
	s, err := Open(MemoryDSN("cogniscreen-"+uuid.NewString()), opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Seed(context.Background()); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return s, nil
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates the tables.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A shared-cache memory database lives as long as one connection is
	// open, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{
		db:     db,
		drv:    entsql.OpenDB(dialect.SQLite, db),
		seq:    seq,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Patients returns the patient repository.
func (s *Store) Patients() PatientRepo { return &patientRepo{db: s.db} }

// Tests returns the test catalog repository.
func (s *Store) Tests() TestRepo { return &testRepo{db: s.db} }

// Results returns the result history repository.
func (s *Store) Results() ResultRepo { return &resultRepo{db: s.db} }

// Reports returns the report repository.
func (s *Store) Reports() ReportRepo { return &reportRepo{db: s.db, seq: s.seq} }

// Events returns the event repository.
func (s *Store) Events() EventRepo { return &eventRepo{db: s.db} }

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// selectAll runs a selector and scans every row into dst, a pointer to a slice.
func selectAll(ctx context.Context, q querier, sel *entsql.Selector, dst any) error {
	query, args := sel.Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	return entsql.ScanSlice(rows, dst)
}

type execQuery interface {
	Query() (string, []any)
}

// exec runs an insert, update or delete builder.
func exec(ctx context.Context, q querier, b execQuery) (sql.Result, error) {
	query, args := b.Query()
	return q.ExecContext(ctx, query, args...)
}

// inTx runs fn inside a transaction, rolling back on error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
