// Package storage provides SQLite-based persistence for pack saves and
// level completions. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoSave is returned when a pack has no stored save.
var ErrNoSave = errors.New("storage: no save for pack")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SaveEntry is the stored save buffer of one pack.
type SaveEntry struct {
	Pack      string
	Layout    string
	Data      []byte
	UpdatedAt time.Time
}

// Completion records the first time a level was solved.
type Completion struct {
	Pack        string
	Level       int // 1-based
	CompletedAt time.Time
}

// PackProgress contains aggregated completion statistics for a pack.
type PackProgress struct {
	Pack          string
	Completed     int
	LastCompleted time.Time
	SavedAt       time.Time // zero when the pack has no save
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			pack TEXT PRIMARY KEY,
			layout TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS completions (
			pack TEXT NOT NULL,
			level INTEGER NOT NULL,
			completed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (pack, level)
		);
		CREATE INDEX IF NOT EXISTS idx_completions_pack ON completions(pack);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveState stores the save buffer of a pack, replacing any previous one.
func (s *Store) SaveState(pack, layout string, data []byte) error {
	_, err := s.db.Exec(
		`INSERT INTO saves (pack, layout, data, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(pack) DO UPDATE SET
		   layout = excluded.layout,
		   data = excluded.data,
		   updated_at = excluded.updated_at`,
		pack, layout, data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save state: %w", err)
	}
	return nil
}

// LoadState retrieves the save buffer of a pack.
// Returns ErrNoSave if the pack was never saved.
func (s *Store) LoadState(pack string) (*SaveEntry, error) {
	var e SaveEntry
	var updatedAt any

	err := s.db.QueryRow(
		"SELECT pack, layout, data, updated_at FROM saves WHERE pack = ?",
		pack,
	).Scan(&e.Pack, &e.Layout, &e.Data, &updatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load state: %w", err)
	}

	e.UpdatedAt = parseTime(updatedAt)
	return &e, nil
}

// DeleteState removes the save of a pack. Deleting a missing save is not
// an error.
func (s *Store) DeleteState(pack string) error {
	_, err := s.db.Exec("DELETE FROM saves WHERE pack = ?", pack)
	if err != nil {
		return fmt.Errorf("storage: cannot delete state: %w", err)
	}
	return nil
}

// MarkCompleted records that a level was solved. Only the first completion
// is kept. Reports whether this call recorded a new completion.
func (s *Store) MarkCompleted(pack string, level int) (bool, error) {
	result, err := s.db.Exec(
		"INSERT OR IGNORE INTO completions (pack, level) VALUES (?, ?)",
		pack, level,
	)
	if err != nil {
		return false, fmt.Errorf("storage: cannot mark completion: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("storage: cannot get affected rows: %w", err)
	}
	return n > 0, nil
}

// CompletedLevels retrieves the completions of a pack ordered by level.
func (s *Store) CompletedLevels(pack string) ([]Completion, error) {
	rows, err := s.db.Query(
		`SELECT pack, level, completed_at
		 FROM completions
		 WHERE pack = ?
		 ORDER BY level`,
		pack,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completions: %w", err)
	}
	defer rows.Close()

	var entries []Completion
	for rows.Next() {
		var c Completion
		var completedAt any
		if err := rows.Scan(&c.Pack, &c.Level, &completedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		c.CompletedAt = parseTime(completedAt)
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// PackProgress retrieves aggregated statistics for one pack.
func (s *Store) PackProgress(pack string) (*PackProgress, error) {
	p := &PackProgress{Pack: pack}

	var last any
	err := s.db.QueryRow(
		"SELECT COUNT(*), MAX(completed_at) FROM completions WHERE pack = ?",
		pack,
	).Scan(&p.Completed, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get pack progress: %w", err)
	}
	p.LastCompleted = parseTime(last)

	var savedAt any
	err = s.db.QueryRow("SELECT updated_at FROM saves WHERE pack = ?", pack).Scan(&savedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get save time: %w", err)
	}
	if err == nil {
		p.SavedAt = parseTime(savedAt)
	}

	return p, nil
}

// AllProgress retrieves statistics for every pack with a save or a
// completion.
func (s *Store) AllProgress() (map[string]*PackProgress, error) {
	rows, err := s.db.Query(
		`SELECT pack, COUNT(*), MAX(completed_at)
		 FROM completions
		 GROUP BY pack`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all progress: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*PackProgress)
	for rows.Next() {
		var p PackProgress
		var last any
		if err := rows.Scan(&p.Pack, &p.Completed, &last); err != nil {
			return nil, fmt.Errorf("storage: cannot scan progress row: %w", err)
		}
		p.LastCompleted = parseTime(last)
		stats[p.Pack] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	saveRows, err := s.db.Query("SELECT pack, updated_at FROM saves")
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer saveRows.Close()

	for saveRows.Next() {
		var pack string
		var savedAt any
		if err := saveRows.Scan(&pack, &savedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan save row: %w", err)
		}
		p, ok := stats[pack]
		if !ok {
			p = &PackProgress{Pack: pack}
			stats[pack] = p
		}
		p.SavedAt = parseTime(savedAt)
	}
	if err := saveRows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearProgress deletes the save and every completion of a pack.
func (s *Store) ClearProgress(pack string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM saves WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear save: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM completions WHERE pack = ?", pack); err != nil {
		return fmt.Errorf("storage: cannot clear completions: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// parseTime handles the datetime forms the driver returns.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
