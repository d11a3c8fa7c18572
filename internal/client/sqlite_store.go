package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"

	"portfolio-chatbot/backend/internal/models"
)

// SQLiteStore keeps the transcript in a key-value table of a SQLite file,
// the terminal counterpart of browser local storage.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates if needed) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS local_storage (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create local_storage table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load implements Store
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Message, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM local_storage WHERE key = ?;`, StorageKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read transcript: %w", err)
	}

	messages, err := decodeTranscript([]byte(value))
	if err != nil {
		return nil, true, err
	}
	return messages, true, nil
}

// Save implements Store
func (s *SQLiteStore) Save(ctx context.Context, messages []models.Message) error {
	data, err := encodeTranscript(messages)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO local_storage (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, StorageKey, string(data))
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// Delete implements Store
func (s *SQLiteStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?;`, StorageKey); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	return nil
}

// Close releases the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
