// Package sqlite is an embedded record store for single-node deployments
// and local development.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // driver "sqlite"

	"github.com/kailas-cloud/searchable/internal/db"
)

// Compile-time check: Store implements db.RecordStore.
var _ db.RecordStore = (*Store)(nil)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// maxParams keeps IN (...) lists under SQLite's bound parameter limit.
const maxParams = 500

const schema = `
CREATE TABLE IF NOT EXISTS records (
	type       TEXT    NOT NULL,
	id         TEXT    NOT NULL,
	body       BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (type, id)
)`

// Config holds the database location.
type Config struct {
	DSN string // file path or MemoryDSN
}

// Store implements db.RecordStore on a single SQLite table.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and creates the schema if needed.
func NewStore(cfg Config) (*Store, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = MemoryDSN
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}

	if dsn == MemoryDSN {
		// Every connection to :memory: is a separate database.
		conn.SetMaxOpenConns(1)
	} else {
		if _, err := conn.Exec(`PRAGMA journal_mode=WAL`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := conn.Exec(`PRAGMA busy_timeout=5000`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: conn}, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// WaitForReady pings once within timeout; an embedded database is either
// usable right away or not at all.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Ping(ctx)
}

// Close releases the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

// Put inserts or replaces a record blob.
func (s *Store) Put(ctx context.Context, typ, id string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (type, id, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (type, id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		typ, id, data, time.Now().UnixMilli(),
	)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	return nil
}

// Get returns a record blob or db.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, typ, id string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE type = ? AND id = ?`, typ, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrKeyNotFound
	}
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return body, nil
}

// GetMulti fetches many records, chunked to stay under the parameter limit.
func (s *Store) GetMulti(ctx context.Context, typ string, ids []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ids))
	for start := 0; start < len(ids); start += maxParams {
		chunk := ids[start:min(start+maxParams, len(ids))]
		if err := s.getChunk(ctx, typ, chunk, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) getChunk(ctx context.Context, typ string, ids []string, out map[string][]byte) error {
	args := make([]any, 0, len(ids)+1)
	args = append(args, typ)
	for _, id := range ids {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, body FROM records WHERE type = ? AND id IN (`+placeholders+`)`, args...,
	)
	if err != nil {
		return &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return &db.Error{Op: db.OpQuery, Err: err}
		}
		out[id] = body
	}
	if err := rows.Err(); err != nil {
		return &db.Error{Op: db.OpQuery, Err: err}
	}
	return nil
}

// Delete removes a record. Deleting a missing record is not an error.
func (s *Store) Delete(ctx context.Context, typ, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM records WHERE type = ? AND id = ?`, typ, id); err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	return nil
}

// List returns the ids of every record of the type, sorted.
func (s *Store) List(ctx context.Context, typ string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM records WHERE type = ? ORDER BY id`, typ)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return ids, nil
}
