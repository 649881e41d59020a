package roster

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"whorl/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Bump when the schema changes; existing databases with another version
// are refused rather than silently migrated.
const schemaVersion = 1

var (
	// ErrNotFound indicates no roster entry with the requested name.
	ErrNotFound = errors.New("roster entry not found")
	// ErrDuplicate indicates the name is already enrolled.
	ErrDuplicate = errors.New("roster entry already exists")
	// ErrSchemaMismatch indicates the database was written by an
	// incompatible version.
	ErrSchemaMismatch = errors.New("roster schema version mismatch")
)

// Entry is one named enrollment.
type Entry struct {
	ID        int64
	Name      string
	Template  []byte
	CreatedAt time.Time
}

// Store manages roster persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the roster database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.RosterPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Save persists a template under a normalized display name.
func (s *Store) Save(ctx context.Context, name string, template []byte) (*Entry, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	if len(template) == 0 {
		return nil, errors.New("template must not be empty")
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO fingers (name, template, created_at) VALUES (?, ?, ?)`,
		normalized, template, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, normalized)
		}
		return nil, fmt.Errorf("insert roster entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getByID(ctx, id)
}

// Get returns the entry with the given name.
func (s *Store) Get(ctx context.Context, name string) (*Entry, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, template, created_at FROM fingers WHERE name = ?`, normalized)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, normalized)
	}
	return entry, err
}

// List returns all entries ordered by row id.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, template, created_at FROM fingers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query roster: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roster: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry with the given name.
func (s *Store) Remove(ctx context.Context, name string) error {
	normalized, err := NormalizeName(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM fingers WHERE name = ?`, normalized)
	if err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, normalized)
	}
	return nil
}

// Rename changes an entry's display name.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	from, err := NormalizeName(oldName)
	if err != nil {
		return err
	}
	to, err := NormalizeName(newName)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE fingers SET name = ? WHERE name = ?`, to, from)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", ErrDuplicate, to)
		}
		return fmt.Errorf("rename roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, from)
	}
	return nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fingers`); err != nil {
		return fmt.Errorf("clear roster: %w", err)
	}
	return nil
}

// Count returns the number of enrolled entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM fingers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}
	return count, nil
}

func (s *Store) getByID(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, template, created_at FROM fingers WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return entry, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var entry Entry
	var createdAt string
	if err := row.Scan(&entry.ID, &entry.Name, &entry.Template, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan roster entry: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = parsed
	}
	return &entry, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	// modernc.org/sqlite surfaces constraint failures as formatted
	// errors; matching the message avoids importing driver internals.
	return strings.Contains(err.Error(), "constraint failed")
}
