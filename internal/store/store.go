// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     store
// Description: SQLite-backed persistent cache for encoded parse results
// Author:      Mike Stoffels
// Created:     2025-03-08
// License:     MIT
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/ember/foundation/core/error"
)

// Entry describes a stored parse result without its payload
type Entry struct {
	Hash       string    `json:"hash"`
	Name       string    `json:"name"`
	Size       int       `json:"size"`
	Hits       int       `json:"hits"`
	CreatedAt  time.Time `json:"created_at"`
	AccessedAt time.Time `json:"accessed_at"`
}

// Config holds configuration for the SQLite store
type Config struct {
	Path string
	// MaxEntries bounds the number of stored trees; 0 means unbounded
	MaxEntries int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path:       "./data/ast.db",
		MaxEntries: 1000,
	}
}

// SQLiteStore keeps encoded ASTs keyed by source hash
type SQLiteStore struct {
	db         *sql.DB
	mu         sync.RWMutex
	maxEntries int
	now        func() time.Time
}

// Open creates or opens the store at cfg.Path
func Open(cfg Config) (*SQLiteStore, error) {
	dsn := cfg.Path
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, storageError(err, "failed to create directory").WithDetail("path", cfg.Path)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storageError(err, "failed to open database").WithDetail("path", cfg.Path)
	}
	if cfg.Path == ":memory:" {
		// every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, maxEntries: cfg.MaxEntries, now: time.Now}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema").WithDetail("path", cfg.Path)
	}

	return s, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS parse_results (
		hash TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		tree BLOB NOT NULL,
		hits INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		accessed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parse_results_accessed ON parse_results(accessed_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the encoded tree for a source hash and records the access
func (s *SQLiteStore) Get(ctx context.Context, hash string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tree []byte
	err := s.db.QueryRowContext(ctx, `SELECT tree FROM parse_results WHERE hash = ?`, hash).Scan(&tree)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, storageError(err, "failed to read parse result").WithDetail("hash", hash)
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE parse_results SET hits = hits + 1, accessed_at = ? WHERE hash = ?
	`, s.now().UTC(), hash)
	if err != nil {
		return nil, false, storageError(err, "failed to record access").WithDetail("hash", hash)
	}

	return tree, true, nil
}

// Put stores an encoded tree and prunes the least recently accessed
// entries beyond MaxEntries
func (s *SQLiteStore) Put(ctx context.Context, hash, name string, encoded []byte) error {
	if hash == "" {
		return mdwerror.New("hash is required").WithCode(mdwerror.CodeInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	now := s.now().UTC()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO parse_results (hash, name, tree, hits, created_at, accessed_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(hash) DO UPDATE SET name = excluded.name, tree = excluded.tree, accessed_at = excluded.accessed_at
	`, hash, name, encoded, now, now)
	if err != nil {
		return storageError(err, "failed to store parse result").WithDetail("hash", hash)
	}

	if s.maxEntries > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM parse_results WHERE hash IN (
				SELECT hash FROM parse_results
				ORDER BY accessed_at DESC, created_at DESC
				LIMIT -1 OFFSET ?
			)
		`, s.maxEntries)
		if err != nil {
			return storageError(err, "failed to prune parse results")
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError(err, "failed to commit parse result")
	}
	return nil
}

// Delete removes a stored tree
func (s *SQLiteStore) Delete(ctx context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM parse_results WHERE hash = ?`, hash); err != nil {
		return storageError(err, "failed to delete parse result").WithDetail("hash", hash)
	}
	return nil
}

// List returns stored entries, most recently accessed first
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT hash, name, length(tree), hits, created_at, accessed_at
		FROM parse_results
		ORDER BY accessed_at DESC, created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, storageError(err, "failed to list parse results")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Hash, &e.Name, &e.Size, &e.Hits, &e.CreatedAt, &e.AccessedAt); err != nil {
			return nil, storageError(err, "failed to scan parse result")
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to list parse results")
	}

	return entries, nil
}

// Clear removes all stored trees
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM parse_results`); err != nil {
		return storageError(err, "failed to clear parse results")
	}
	return nil
}

// Statistics returns store statistics
func (s *SQLiteStore) Statistics(ctx context.Context) (map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count, bytes, hits int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(length(tree)), 0), COALESCE(SUM(hits), 0) FROM parse_results
	`).Scan(&count, &bytes, &hits)
	if err != nil {
		return nil, storageError(err, "failed to read statistics")
	}

	return map[string]interface{}{
		"entries":     count,
		"bytes":       bytes,
		"hits":        hits,
		"max_entries": s.maxEntries,
	}, nil
}

// Ping checks that the database is reachable
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageError(err, "database not reachable")
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func storageError(err error, message string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).
		WithCode(mdwerror.CodeStorageError).
		WithOperation("store.sqlite")
}
