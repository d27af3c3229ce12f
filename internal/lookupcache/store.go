package lookupcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

// ErrLocked is returned by Open when another process holds the cache.
var ErrLocked = errors.New("lookup cache is locked by another cuesheet run")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Key identifies one cached lookup.
type Key struct {
	Name      string
	Model     string
	Reference string
}

func (k Key) normalized() Key {
	return Key{
		Name:      strings.TrimSpace(k.Name),
		Model:     strings.TrimSpace(k.Model),
		Reference: strings.TrimSpace(k.Reference),
	}
}

// Entry is a cached lookup payload.
type Entry struct {
	Key       Key
	Payload   string
	UpdatedAt time.Time
}

// Store manages lookup persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open creates or connects to the cache database at path and takes the
// writer lock.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("lookup cache: path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock}
	if err := store.initSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the database and releases the lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Get returns the cached payload for key.
func (s *Store) Get(ctx context.Context, key Key) (string, bool, error) {
	key = key.normalized()
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload FROM lookups WHERE name = ? AND model = ? AND reference = ?",
		key.Name, key.Model, key.Reference,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get lookup %q: %w", key.Name, err)
	}
	return payload, true, nil
}

// Put stores payload for key, replacing any previous value.
func (s *Store) Put(ctx context.Context, key Key, payload string) error {
	key = key.normalized()
	if key.Name == "" {
		return errors.New("put lookup: name required")
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO lookups (name, model, reference, payload, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(name, model, reference) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			key.Name, key.Model, key.Reference, payload, time.Now().UnixNano(),
		)
		return err
	})
}

// List returns every entry, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, model, reference, payload, updated_at FROM lookups ORDER BY updated_at DESC, name ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry   Entry
			updated int64
		)
		if err := rows.Scan(&entry.Key.Name, &entry.Key.Model, &entry.Key.Reference, &entry.Payload, &updated); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		entry.UpdatedAt = time.Unix(0, updated).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return entries, nil
}

// Clear removes every entry and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM lookups")
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear lookups: %w", err)
	}
	return removed, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil || !isSQLiteBusy(lastErr) {
			return lastErr
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay = min(delay*2, busyRetryMaxBackoff)
	}
	return lastErr
}
