package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/planforge/planforge/internal/plan"
	"gopkg.in/yaml.v3"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore implements Store on a single-file SQLite database. Documents
// live in one key/value table; directories are emulated from key prefixes
// plus an explicit table for directories created empty. Key semantics match
// the filesystem layout exactly, so all consumers work unchanged.
type SQLiteStore struct {
	db          *sql.DB
	path        string
	lockTimeout time.Duration
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	content    BLOB NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS directories (
	path TEXT PRIMARY KEY
);
`

// NewSQLiteStore opens (creating if needed) a SQLite-backed store at the
// given database path. The caller must Close it.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{db: db, path: path, lockTimeout: DefaultLockTimeout}, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SetLockTimeout overrides the advisory lock expiry window.
func (s *SQLiteStore) SetLockTimeout(d time.Duration) {
	if d > 0 {
		s.lockTimeout = d
	}
}

// RootDir returns the database path.
func (s *SQLiteStore) RootDir() string {
	return s.path
}

// IsInitialized reports whether a project document exists.
func (s *SQLiteStore) IsInitialized() bool {
	ok, err := s.Exists(KeyProject)
	return err == nil && ok
}

// readRaw fetches a document's bytes. Absence returns (nil, false, nil).
func (s *SQLiteStore) readRaw(key string) ([]byte, bool, error) {
	var content []byte
	err := s.db.QueryRow(`SELECT content FROM documents WHERE key = ?`, key).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return content, true, nil
}

// writeRaw upserts a document's bytes.
func (s *SQLiteStore) writeRaw(key string, content []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (key, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		key, content, timeNow().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// ReadJSON reads and decodes a JSON document.
func (s *SQLiteStore) ReadJSON(key string, out any) (bool, error) {
	data, found, err := s.readRaw(key)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON encodes and writes a JSON document.
func (s *SQLiteStore) WriteJSON(key string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return s.writeRaw(key, append(encoded, '\n'))
}

// ReadYAML reads and decodes a YAML document.
func (s *SQLiteStore) ReadYAML(key string, out any) (bool, error) {
	data, found, err := s.readRaw(key)
	if err != nil || !found {
		return false, err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return true, nil
}

// WriteYAML encodes and writes a YAML document.
func (s *SQLiteStore) WriteYAML(key string, data any) error {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return s.writeRaw(key, encoded)
}

// ReadText reads a raw text document.
func (s *SQLiteStore) ReadText(key string) (string, bool, error) {
	data, found, err := s.readRaw(key)
	if err != nil || !found {
		return "", false, err
	}
	return string(data), true, nil
}

// WriteText writes a raw text document.
func (s *SQLiteStore) WriteText(key, content string) error {
	return s.writeRaw(key, []byte(content))
}

// Exists reports whether a document exists at key.
func (s *SQLiteStore) Exists(key string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM documents WHERE key = ?`, key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return true, nil
}

// Delete removes a document. Absent keys delete cleanly.
func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM documents WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// List returns the filenames of documents directly under prefix.
func (s *SQLiteStore) List(prefix string) ([]string, error) {
	children, err := s.childKeys(prefix)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, rest := range children {
		if !strings.Contains(rest, "/") {
			names = append(names, rest)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListDirectories returns the sorted names of directories directly under
// prefix: every distinct first segment of deeper keys, plus directories
// created explicitly via EnsureDirectory.
func (s *SQLiteStore) ListDirectories(prefix string) ([]string, error) {
	children, err := s.childKeys(prefix)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, rest := range children {
		if idx := strings.Index(rest, "/"); idx > 0 {
			seen[rest[:idx]] = true
		}
	}

	rows, err := s.db.Query(`SELECT path FROM directories`)
	if err != nil {
		return nil, fmt.Errorf("listing directories under %s: %w", prefix, err)
	}
	defer rows.Close()
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("listing directories under %s: %w", prefix, err)
		}
		if rest, ok := childOf(prefix, path); ok && !strings.Contains(rest, "/") {
			seen[rest] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing directories under %s: %w", prefix, err)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// EnsureDirectory records a directory so it lists even while empty.
func (s *SQLiteStore) EnsureDirectory(key string) error {
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO directories (path) VALUES (?)`, key); err != nil {
		return fmt.Errorf("creating directory %s: %w", key, err)
	}
	return nil
}

// AcquireLock takes the advisory tree lock. See the Store contract.
func (s *SQLiteStore) AcquireLock(holder plan.LockHolder, task string) (bool, error) {
	return acquireLock(s, holder, task, s.lockTimeout)
}

// ReleaseLock drops the advisory tree lock.
func (s *SQLiteStore) ReleaseLock() error {
	return releaseLock(s)
}

// ReadLock returns the current lock record, or nil.
func (s *SQLiteStore) ReadLock() (*plan.Lock, error) {
	return readLock(s)
}

// childKeys returns every document key under prefix, with the prefix
// stripped. An empty prefix means the root.
func (s *SQLiteStore) childKeys(prefix string) ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}
	defer rows.Close()

	var children []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("listing %s: %w", prefix, err)
		}
		if rest, ok := childOf(prefix, key); ok {
			children = append(children, rest)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}
	return children, nil
}

// childOf strips prefix from key, reporting whether key lives under it.
func childOf(prefix, key string) (string, bool) {
	if prefix == "" {
		return key, key != ""
	}
	if !strings.HasPrefix(key, prefix+"/") {
		return "", false
	}
	return key[len(prefix)+1:], true
}
