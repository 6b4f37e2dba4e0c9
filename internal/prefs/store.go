package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Flag names an onboarding flag.
type Flag string

const (
	FlagTour       Flag = "fileconverser_tour_completed"
	FlagResizeTour Flag = "fileconverser_resize_tour_completed"
)

// ErrUnknownFlag rejects flag names outside the known set.
var ErrUnknownFlag = errors.New("unknown onboarding flag")

// Flags returns the known flags in display order.
func Flags() []Flag {
	return []Flag{FlagTour, FlagResizeTour}
}

// ParseFlag accepts a full flag name or the short aliases "tour" and "resize".
func ParseFlag(value string) (Flag, error) {
	switch v := strings.ToLower(strings.TrimSpace(value)); v {
	case "tour", "general", string(FlagTour):
		return FlagTour, nil
	case "resize", "resize-tour", string(FlagResizeTour):
		return FlagResizeTour, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFlag, value)
	}
}

// Store reads and writes onboarding flags.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the flag database at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func validFlag(flag Flag) error {
	for _, known := range Flags() {
		if flag == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownFlag, flag)
}

// Get reports a flag; unset flags are false.
func (s *Store) Get(ctx context.Context, flag Flag) (bool, error) {
	if err := validFlag(flag); err != nil {
		return false, err
	}
	var value int
	err := s.db.QueryRowContext(ctx, "SELECT value FROM flags WHERE name = ?", string(flag)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read flag %s: %w", flag, err)
	}
	return value != 0, nil
}

// Set writes a flag.
func (s *Store) Set(ctx context.Context, flag Flag, value bool) error {
	if err := validFlag(flag); err != nil {
		return err
	}
	v := 0
	if value {
		v = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO flags (name, value, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(flag), v, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write flag %s: %w", flag, err)
	}
	return nil
}

// All returns every known flag with its current value.
func (s *Store) All(ctx context.Context) (map[Flag]bool, error) {
	out := make(map[Flag]bool, len(Flags()))
	for _, flag := range Flags() {
		value, err := s.Get(ctx, flag)
		if err != nil {
			return nil, err
		}
		out[flag] = value
	}
	return out, nil
}
