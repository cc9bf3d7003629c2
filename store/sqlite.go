/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteBlobs stores blobs as rows of a single table.
type SQLiteBlobs struct {
	db *sql.DB
}

// OpenSQLiteBlobs opens (creating if needed) the database at path.
func OpenSQLiteBlobs(path string) (*SQLiteBlobs, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("store.opensqlite: path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store.opensqlite: open %v: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store.opensqlite: ping %v: %w", path, err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store.opensqlite: create schema: %w", err)
	}

	return &SQLiteBlobs{db: db}, nil
}

func (sb *SQLiteBlobs) Close() error {
	if sb == nil || sb.db == nil {
		return nil
	}
	return sb.db.Close()
}

func (sb *SQLiteBlobs) Get(ctx context.Context, key string) ([]byte, bool,
	error) {

	var data []byte
	err := sb.db.QueryRowContext(ctx, `SELECT data FROM blobs WHERE key = ?`,
		key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store.get: sqlite %v: %w", key, err)
	}
	return data, true, nil
}

func (sb *SQLiteBlobs) Put(ctx context.Context, key string, data []byte) error {
	_, err := sb.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data,
		 updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store.put: sqlite %v: %w", key, err)
	}
	return nil
}

func (sb *SQLiteBlobs) Delete(ctx context.Context, key string) error {
	_, err := sb.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("store.delete: sqlite %v: %w", key, err)
	}
	return nil
}
