// Package store provides a SQLite-backed settings store and a cache of the
// raw tables last fetched from the spreadsheet.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/hbudget/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNoSnapshot is returned when a sheet has never been cached.
var ErrNoSnapshot = errors.New("no cached snapshot")

// Cache provides SQLite-backed settings and table snapshots.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the value stored under key and whether it exists.
func (c *Cache) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := c.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (c *Cache) Put(key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.Exec(`INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`, key, value, now)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(key string) error {
	_, err := c.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// SaveSnapshot stores the raw table fetched for sheet.
func (c *Cache) SaveSnapshot(sheet string, t model.Table, fetchedAt time.Time) error {
	headers, err := json.Marshal(t.Headers)
	if err != nil {
		return fmt.Errorf("encoding headers: %w", err)
	}
	rows, err := json.Marshal(t.Rows)
	if err != nil {
		return fmt.Errorf("encoding rows: %w", err)
	}

	_, err = c.db.Exec(`INSERT OR REPLACE INTO snapshots
		(sheet, headers, rows_json, row_count, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
		sheet, string(headers), string(rows), len(t.Rows), fetchedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// LoadSnapshot returns the cached table for sheet and when it was fetched.
func (c *Cache) LoadSnapshot(sheet string) (model.Table, time.Time, error) {
	var headers, rows, fetched string
	err := c.db.QueryRow(`SELECT headers, rows_json, fetched_at
		FROM snapshots WHERE sheet = ?`, sheet).Scan(&headers, &rows, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Table{}, time.Time{}, fmt.Errorf("%s: %w", sheet, ErrNoSnapshot)
	}
	if err != nil {
		return model.Table{}, time.Time{}, err
	}

	var t model.Table
	if err := json.Unmarshal([]byte(headers), &t.Headers); err != nil {
		return model.Table{}, time.Time{}, fmt.Errorf("decoding headers: %w", err)
	}
	if err := json.Unmarshal([]byte(rows), &t.Rows); err != nil {
		return model.Table{}, time.Time{}, fmt.Errorf("decoding rows: %w", err)
	}
	at, _ := time.Parse(time.RFC3339Nano, fetched)
	return t, at, nil
}

// SnapshotInfo summarizes one cached sheet.
type SnapshotInfo struct {
	Sheet     string
	Rows      int
	FetchedAt time.Time
}

// Snapshots lists cached sheets by name.
func (c *Cache) Snapshots() ([]SnapshotInfo, error) {
	rows, err := c.db.Query("SELECT sheet, row_count, fetched_at FROM snapshots ORDER BY sheet")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var fetched string
		if err := rows.Scan(&info.Sheet, &info.Rows, &fetched); err != nil {
			return nil, err
		}
		info.FetchedAt, _ = time.Parse(time.RFC3339Nano, fetched)
		out = append(out, info)
	}
	return out, rows.Err()
}

// ClearSnapshots drops every cached table; settings are kept.
func (c *Cache) ClearSnapshots() error {
	_, err := c.db.Exec("DELETE FROM snapshots")
	return err
}
