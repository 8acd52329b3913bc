// Package store implements the entity store: a document store keyed by
// path-like strings, holding the whole planning tree plus one advisory lock.
//
// Two backends implement the same Store interface: a filesystem store
// (the canonical layout, one file per document) and a SQLite store (a
// single-file key/value table with the same key semantics). The key layout
// is a compatibility contract — any backend must preserve it:
//
//	project.json, config.yaml, task_queue.json, stuck_queue.json,
//	feedback_queue.json, .lock
//	discovery/{context,constraints,history}.json
//	milestones/index.json, milestones/<M-id>/discovery.json
//	epics/<E-id>-<slug>/{epic.json, prd.md, architecture.md,
//	                     stories.json, discovery.json}
//	validation/{coverage,links,issues}.json
package store

import (
	"time"

	"github.com/planforge/planforge/internal/plan"
)

// Top-level document keys.
const (
	KeyProject       = "project.json"
	KeyConfig        = "config.yaml"
	KeyTaskQueue     = "task_queue.json"
	KeyStuckQueue    = "stuck_queue.json"
	KeyFeedbackQueue = "feedback_queue.json"
	KeyLock          = ".lock"

	KeyDiscoveryContext     = "discovery/context.json"
	KeyDiscoveryConstraints = "discovery/constraints.json"
	KeyDiscoveryHistory     = "discovery/history.json"

	KeyMilestoneIndex = "milestones/index.json"

	KeyLinks    = "validation/links.json"
	KeyCoverage = "validation/coverage.json"
	KeyIssues   = "validation/issues.json"
)

// Directory prefixes.
const (
	DirDiscovery  = "discovery"
	DirMilestones = "milestones"
	DirEpics      = "epics"
	DirValidation = "validation"
)

// Files inside an epic directory.
const (
	FileEpic         = "epic.json"
	FilePRD          = "prd.md"
	FileArchitecture = "architecture.md"
	FileStories      = "stories.json"
	FileDiscovery    = "discovery.json"
)

// DefaultLockTimeout is how long an unreleased lock is honored before it
// self-expires. Holders are cooperative roles, not processes, so a crashed
// holder's lock simply ages out.
const DefaultLockTimeout = 10 * time.Minute

// Store is the entity store contract consumed by the status, compose, and
// validate packages. Keys are slash-separated path-like strings.
//
// Reads never fail for absence: the boolean result reports whether the
// document exists. Errors are reserved for backend I/O failures.
type Store interface {
	// IsInitialized reports whether a project document exists.
	IsInitialized() bool

	// RootDir returns the backend's root location (a directory for the
	// filesystem store, the database path for the SQLite store).
	RootDir() string

	ReadJSON(key string, out any) (bool, error)
	WriteJSON(key string, data any) error

	ReadYAML(key string, out any) (bool, error)
	WriteYAML(key string, data any) error

	ReadText(key string) (string, bool, error)
	WriteText(key, content string) error

	Exists(key string) (bool, error)
	Delete(key string) error

	// List returns the filenames (not full paths) of documents directly
	// under prefix.
	List(prefix string) ([]string, error)

	// ListDirectories returns the sorted names of directories directly
	// under prefix.
	ListDirectories(prefix string) ([]string, error)

	EnsureDirectory(key string) error

	// AcquireLock takes the single advisory lock. It returns false if an
	// unexpired lock is already held; it never blocks.
	AcquireLock(holder plan.LockHolder, task string) (bool, error)

	// ReleaseLock drops the lock. Releasing an absent lock is not an error.
	ReleaseLock() error

	// ReadLock returns the current lock record, or nil if none exists.
	// Expired records are still returned — expiry is the acquirer's check.
	ReadLock() (*plan.Lock, error)

	// SetLockTimeout overrides DefaultLockTimeout for subsequent acquires.
	SetLockTimeout(d time.Duration)
}

// EpicKey builds the key for a file inside an epic directory.
func EpicKey(dir, file string) string {
	return DirEpics + "/" + dir + "/" + file
}

// MilestoneDiscoveryKey builds the key for a milestone's discovery document.
func MilestoneDiscoveryKey(milestoneID string) string {
	return DirMilestones + "/" + milestoneID + "/" + FileDiscovery
}
