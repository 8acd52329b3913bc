package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/planforge/planforge/internal/plan"
	"gopkg.in/yaml.v3"
)

// FileStore implements Store on the local filesystem. Each key maps to a
// file under the root directory; this is the canonical layout documented
// on the package.
type FileStore struct {
	root        string
	lockTimeout time.Duration
}

// NewFileStore creates a filesystem-backed store rooted at the given
// directory. The directory does not need to exist yet.
func NewFileStore(root string) *FileStore {
	return &FileStore{root: root, lockTimeout: DefaultLockTimeout}
}

// SetLockTimeout overrides the advisory lock expiry window.
func (fs *FileStore) SetLockTimeout(d time.Duration) {
	if d > 0 {
		fs.lockTimeout = d
	}
}

// RootDir returns the store's root directory.
func (fs *FileStore) RootDir() string {
	return fs.root
}

// IsInitialized reports whether a project document exists.
func (fs *FileStore) IsInitialized() bool {
	ok, err := fs.Exists(KeyProject)
	return err == nil && ok
}

// path maps a slash-separated key to an absolute filesystem path.
func (fs *FileStore) path(key string) string {
	return filepath.Join(fs.root, filepath.FromSlash(key))
}

// ReadJSON reads and decodes a JSON document. Absence is not an error:
// the boolean result is false and out is left untouched.
func (fs *FileStore) ReadJSON(key string, out any) (bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return true, nil
}

// WriteJSON encodes and writes a JSON document, creating parent
// directories as needed.
func (fs *FileStore) WriteJSON(key string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return fs.writeFile(key, append(encoded, '\n'))
}

// ReadYAML reads and decodes a YAML document with the same absence
// semantics as ReadJSON.
func (fs *FileStore) ReadYAML(key string, out any) (bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading %s: %w", key, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing %s: %w", key, err)
	}
	return true, nil
}

// WriteYAML encodes and writes a YAML document.
func (fs *FileStore) WriteYAML(key string, data any) error {
	encoded, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	return fs.writeFile(key, encoded)
}

// ReadText reads a raw text document. Absence returns ("", false, nil).
func (fs *FileStore) ReadText(key string) (string, bool, error) {
	data, err := os.ReadFile(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// WriteText writes a raw text document.
func (fs *FileStore) WriteText(key, content string) error {
	return fs.writeFile(key, []byte(content))
}

// Exists reports whether a document exists at key.
func (fs *FileStore) Exists(key string) (bool, error) {
	_, err := os.Stat(fs.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking %s: %w", key, err)
	}
	return true, nil
}

// Delete removes a document. Deleting an absent key is not an error.
func (fs *FileStore) Delete(key string) error {
	if err := os.Remove(fs.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// List returns the filenames of documents directly under prefix.
// A missing directory lists as empty, not as an error.
func (fs *FileStore) List(prefix string) ([]string, error) {
	entries, err := os.ReadDir(fs.path(prefix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ListDirectories returns the sorted names of directories directly under
// prefix. ReadDir already sorts lexically.
func (fs *FileStore) ListDirectories(prefix string) ([]string, error) {
	entries, err := os.ReadDir(fs.path(prefix))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", prefix, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// EnsureDirectory creates a directory (and parents) if absent.
func (fs *FileStore) EnsureDirectory(key string) error {
	if err := os.MkdirAll(fs.path(key), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", key, err)
	}
	return nil
}

// AcquireLock takes the advisory tree lock. See the Store contract.
func (fs *FileStore) AcquireLock(holder plan.LockHolder, task string) (bool, error) {
	return acquireLock(fs, holder, task, fs.lockTimeout)
}

// ReleaseLock drops the advisory tree lock.
func (fs *FileStore) ReleaseLock() error {
	return releaseLock(fs)
}

// ReadLock returns the current lock record, or nil.
func (fs *FileStore) ReadLock() (*plan.Lock, error) {
	return readLock(fs)
}

// writeFile writes raw bytes to a key, creating parent directories.
func (fs *FileStore) writeFile(key string, data []byte) error {
	path := fs.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
