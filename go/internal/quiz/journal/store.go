// Package journal records every event and intent that crosses the controller
// boundary, for post-game diagnostics. Writes are asynchronous and lossy under
// pressure; the game never waits on the database.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"
	_ "modernc.org/sqlite"

	"github.com/mcdev12/painani/go/internal/sqlutil"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var ErrUnknownDriver = errors.New("unknown journal driver")

// Entry is one journaled message.
type Entry struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Seq        int64
	Direction  string
	Name       string
	Payload    pqtype.NullRawMessage
	RecordedAt time.Time
}

// Store persists entries through database/sql.
type Store struct {
	db     *sql.DB
	driver string
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS journal_entries (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	direction TEXT NOT NULL,
	name TEXT NOT NULL,
	payload BLOB,
	recorded_at INTEGER NOT NULL
)`

const postgresSchema = `CREATE TABLE IF NOT EXISTS journal_entries (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL,
	seq BIGINT NOT NULL,
	direction TEXT NOT NULL,
	name TEXT NOT NULL,
	payload JSONB,
	recorded_at BIGINT NOT NULL
)`

// Open opens a store for driver, creating the table when missing.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("journal dsn is required")
	}

	var schema string
	switch driver {
	case DriverSQLite:
		dsn = filepath.Clean(dsn) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
		schema = sqliteSchema
	case DriverPostgres:
		schema = postgresSchema
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal table: %w", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Insert writes entries in one transaction.
func (s *Store) Insert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, sqlutil.Rebind(s.driver,
			`INSERT INTO journal_entries (id, session_id, seq, direction, name, payload, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`))
		if err != nil {
			return fmt.Errorf("prepare journal insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx,
				e.ID, e.SessionID, e.Seq, e.Direction, e.Name, e.Payload, e.RecordedAt.UTC().UnixMilli(),
			); err != nil {
				return fmt.Errorf("insert journal entry %s: %w", e.Name, err)
			}
		}
		return nil
	})
}

// List returns a session's entries in recording order.
func (s *Store) List(ctx context.Context, sessionID uuid.UUID) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, sqlutil.Rebind(s.driver,
		`SELECT id, session_id, seq, direction, name, payload, recorded_at FROM journal_entries WHERE session_id = ? ORDER BY seq`),
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			millis int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Direction, &e.Name, &e.Payload, &millis); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.RecordedAt = time.UnixMilli(millis).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
