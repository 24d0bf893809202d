// Package cache keeps the last successfully fetched property list in a local
// sqlite file so the CLI can print it without a network round trip.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dwellingly/dwellingly-cli/internal/api"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when nothing has been cached yet.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Store is a sqlite-backed snapshot cache.
type Store struct {
	db *sql.DB
}

// Snapshot is one cached fetch.
type Snapshot struct {
	FetchedAt  time.Time
	Source     string
	Properties []api.Property
}

// Open opens (creating if needed) the cache at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	// modernc.org/sqlite registers the "sqlite" driver name.
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("cache pragma: %w", err)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			payload_json TEXT NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := s.db.ExecContext(ctx, st); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the cached snapshot with props.
func (s *Store) Save(ctx context.Context, source string, props []api.Property, fetchedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties`); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO properties (id, position, payload_json) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare cache insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range props {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode property %d: %w", p.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, p.ID, i, string(payload)); err != nil {
			return fmt.Errorf("insert property %d: %w", p.ID, err)
		}
	}

	meta := map[string]string{
		"fetched_at_unixms": strconv.FormatInt(fetchedAt.UnixMilli(), 10),
		"source":            source,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`, k, v); err != nil {
			return fmt.Errorf("write cache meta: %w", err)
		}
	}
	return tx.Commit()
}

// Load returns the cached snapshot in original fetch order.
func (s *Store) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	var fetched string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'fetched_at_unixms'`).Scan(&fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return snap, ErrNoSnapshot
	}
	if err != nil {
		return snap, fmt.Errorf("read cache meta: %w", err)
	}
	ms, err := strconv.ParseInt(fetched, 10, 64)
	if err != nil {
		return snap, fmt.Errorf("parse cache timestamp: %w", err)
	}
	snap.FetchedAt = time.UnixMilli(ms)
	_ = s.db.QueryRowContext(ctx, `SELECT v FROM meta WHERE k = 'source'`).Scan(&snap.Source)

	rows, err := s.db.QueryContext(ctx, `SELECT payload_json FROM properties ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query cache: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return snap, fmt.Errorf("scan cache row: %w", err)
		}
		var p api.Property
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return snap, fmt.Errorf("decode cache row: %w", err)
		}
		snap.Properties = append(snap.Properties, p)
	}
	return snap, rows.Err()
}
