// Package preset keeps named stadium parameter sets in a SQLite database.
package preset

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kshypjn/CG-StadiaGenerator/pkg/spec"
)

// ErrNotFound is returned when no preset has the requested name.
var ErrNotFound = errors.New("preset not found")

// Summary describes a stored preset without decoding it.
type Summary struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a preset database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the preset database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating preset directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening preset database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS presets (
			name TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating presets table: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores sp under name, replacing any existing preset.
func (s *Store) Save(ctx context.Context, name string, sp *spec.StadiumSpec) error {
	if name == "" {
		return errors.New("preset name is empty")
	}
	body, err := spec.Encode(sp, spec.FormatYAML)
	if err != nil {
		return fmt.Errorf("encoding preset %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, name, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving preset %q: %w", name, err)
	}
	return nil
}

// Load returns the preset stored under name, decoded over the defaults.
func (s *Store) Load(ctx context.Context, name string) (*spec.StadiumSpec, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM presets WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading preset %q: %w", name, err)
	}
	sp, err := spec.Decode([]byte(body), spec.FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("decoding preset %q: %w", name, err)
	}
	return sp, nil
}

// List returns all presets ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, updated_at FROM presets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			updated string
		)
		if err := rows.Scan(&sum.Name, &updated); err != nil {
			return nil, fmt.Errorf("scanning preset: %w", err)
		}
		sum.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Delete removes the named preset.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting preset %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
