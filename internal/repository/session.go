package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/anayy09/AcademiaFlow/internal/storage"
)

// ErrTableRequired is returned when no session table name is given.
var ErrTableRequired = errors.New("session table name is required")

// SessionKV stores session keys in a two-column table.
type SessionKV struct {
	repo  *Repository
	table string // quoted identifier
}

// NewSessionKV returns a storage.KV over table. The name is quoted, so it
// may contain any characters; schema-qualified names use "schema.table".
func NewSessionKV(repo *Repository, table string) (*SessionKV, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, ErrTableRequired
	}
	return &SessionKV{repo: repo, table: quoteTable(table)}, nil
}

// quoteTable quotes each dot-separated part of a table name.
func quoteTable(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

// Table returns the quoted table name.
func (s *SessionKV) Table() string {
	return s.table
}

// EnsureSchema creates the table if it does not exist.
func (s *SessionKV) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + s.table + ` (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.repo.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}
	return nil
}

// Get implements storage.KV.
func (s *SessionKV) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, storage.ErrEmptyKey
	}

	query := `SELECT value FROM ` + s.table + ` WHERE key = $1`

	var value string
	err := s.repo.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get session key: %w", err)
	}
	return value, true, nil
}

// Set implements storage.KV.
func (s *SessionKV) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	query := `
		INSERT INTO ` + s.table + ` (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := s.repo.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set session key: %w", err)
	}
	return nil
}

// Remove implements storage.KV.
func (s *SessionKV) Remove(ctx context.Context, key string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	query := `DELETE FROM ` + s.table + ` WHERE key = $1`
	if _, err := s.repo.pool.Exec(ctx, query, key); err != nil {
		return fmt.Errorf("failed to remove session key: %w", err)
	}
	return nil
}

var _ storage.KV = (*SessionKV)(nil)
