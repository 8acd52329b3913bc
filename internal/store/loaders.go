package store

import (
	"fmt"
	"strings"

	"github.com/planforge/planforge/internal/plan"
)

// Typed loaders over the raw Store. All tree traversal (milestone index,
// epic directory scans, per-epic artifacts) funnels through these so the
// status engine, composer, and validator walk the tree identically.

// LoadProject returns the project record, or nil if the tree is not
// initialized.
func LoadProject(s Store) (*plan.Project, error) {
	var p plan.Project
	found, err := s.ReadJSON(KeyProject, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// LoadConfig returns the optional project configuration, or nil.
func LoadConfig(s Store) (*plan.Config, error) {
	var cfg plan.Config
	found, err := s.ReadYAML(KeyConfig, &cfg)
	if err != nil || !found {
		return nil, err
	}
	return &cfg, nil
}

// LoadMilestoneIndex returns the milestone index. An absent index reads as
// empty, not as an error — a freshly initialized tree has no milestones yet.
func LoadMilestoneIndex(s Store) (*plan.MilestoneIndex, error) {
	var idx plan.MilestoneIndex
	if _, err := s.ReadJSON(KeyMilestoneIndex, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}

// EpicDirs returns the sorted epic directory names.
func EpicDirs(s Store) ([]string, error) {
	return s.ListDirectories(DirEpics)
}

// FindEpicDir locates the directory for an epic id by scanning for the
// "<id>-<slug>" prefix. Returns ("", false, nil) when no directory matches.
func FindEpicDir(s Store, epicID string) (string, bool, error) {
	dirs, err := EpicDirs(s)
	if err != nil {
		return "", false, err
	}
	for _, dir := range dirs {
		if strings.HasPrefix(dir, epicID+"-") {
			return dir, true, nil
		}
	}
	return "", false, nil
}

// LoadEpic reads the epic record from an epic directory, or nil if absent.
func LoadEpic(s Store, dir string) (*plan.Epic, error) {
	var e plan.Epic
	found, err := s.ReadJSON(EpicKey(dir, FileEpic), &e)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

// LoadStories reads an epic's stories, or nil if the stories file is absent.
func LoadStories(s Store, dir string) ([]plan.Story, error) {
	var set plan.StorySet
	found, err := s.ReadJSON(EpicKey(dir, FileStories), &set)
	if err != nil || !found {
		return nil, err
	}
	return set.Stories, nil
}

// LoadPRD reads an epic's PRD markdown.
func LoadPRD(s Store, dir string) (string, bool, error) {
	return s.ReadText(EpicKey(dir, FilePRD))
}

// LoadArchitecture reads an epic's architecture markdown.
func LoadArchitecture(s Store, dir string) (string, bool, error) {
	return s.ReadText(EpicKey(dir, FileArchitecture))
}

// LoadElementDiscovery reads the discovery document at the given key,
// or nil if absent.
func LoadElementDiscovery(s Store, key string) (*plan.ElementDiscovery, error) {
	var d plan.ElementDiscovery
	found, err := s.ReadJSON(key, &d)
	if err != nil || !found {
		return nil, err
	}
	return &d, nil
}

// DiscoveryKeyFor resolves the discovery document key for a milestone or
// epic id. Epic ids require a directory scan; a missing epic directory is
// reported as not-found by the caller, not here.
func DiscoveryKeyFor(s Store, elementID string) (string, error) {
	switch {
	case plan.ValidMilestoneID(elementID):
		return MilestoneDiscoveryKey(elementID), nil
	case plan.ValidEpicID(elementID):
		dir, found, err := FindEpicDir(s, elementID)
		if err != nil {
			return "", err
		}
		if !found {
			return "", plan.Errorf(plan.ErrNotFound, "epic %q not found", elementID)
		}
		return EpicKey(dir, FileDiscovery), nil
	default:
		return "", plan.Errorf(plan.ErrInvalidID, "%q is not a milestone or epic id", elementID)
	}
}

// LoadFeedbackQueue reads the feedback queue. Absent reads as empty.
func LoadFeedbackQueue(s Store) (*plan.FeedbackQueue, error) {
	var q plan.FeedbackQueue
	if _, err := s.ReadJSON(KeyFeedbackQueue, &q); err != nil {
		return nil, fmt.Errorf("reading feedback queue: %w", err)
	}
	return &q, nil
}

// LoadTaskQueue reads the task or stuck queue at the given key.
// Absent reads as empty.
func LoadTaskQueue(s Store, key string) (*plan.TaskQueue, error) {
	var q plan.TaskQueue
	if _, err := s.ReadJSON(key, &q); err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return &q, nil
}
