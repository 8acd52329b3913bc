// Package validate performs the full-tree integrity scan: link validation,
// requirement coverage, and issue synthesis.
//
// Structural inconsistencies — broken links, orphaned stories, coverage
// gaps — are results, never errors. The only errors that leave this
// package are store I/O failures and validating an uninitialized tree.
package validate

import (
	"fmt"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// Universe is the set of all valid identifiers in the tree, built fresh on
// every validation run. Re-parsing the PRDs each time is deliberate: the
// markdown is the source of truth for requirements, there is no cached
// index to drift out of date.
type Universe struct {
	ids map[string]plan.RefType
}

// Has reports whether an identifier is known.
func (u *Universe) Has(id string) bool {
	_, ok := u.ids[id]
	return ok
}

// TypeOf returns the kind of entity an identifier names.
func (u *Universe) TypeOf(id string) (plan.RefType, bool) {
	t, ok := u.ids[id]
	return t, ok
}

// Size returns the number of known identifiers.
func (u *Universe) Size() int {
	return len(u.ids)
}

func (u *Universe) add(id string, t plan.RefType) {
	if id != "" {
		u.ids[id] = t
	}
}

// BuildUniverse scans the whole tree and returns the identifier universe:
// milestone ids, project-level discovery value and constraint ids, and per
// epic directory the epic id, every requirement parsed from its PRD, and
// every story id in its stories file.
func BuildUniverse(s store.Store) (*Universe, error) {
	u := &Universe{ids: map[string]plan.RefType{}}

	idx, err := store.LoadMilestoneIndex(s)
	if err != nil {
		return nil, fmt.Errorf("loading milestone index: %w", err)
	}
	for _, m := range idx.Milestones {
		u.add(m.ID, plan.RefMilestone)
	}

	var discovery plan.DiscoveryContext
	if _, err := s.ReadJSON(store.KeyDiscoveryContext, &discovery); err != nil {
		return nil, fmt.Errorf("loading discovery context: %w", err)
	}
	for _, v := range discovery.Values {
		u.add(v.ID, plan.RefValue)
	}

	var constraints plan.ConstraintSet
	if _, err := s.ReadJSON(store.KeyDiscoveryConstraints, &constraints); err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	}
	for _, c := range constraints.Constraints {
		u.add(c.ID, plan.RefConstraint)
	}

	dirs, err := store.EpicDirs(s)
	if err != nil {
		return nil, fmt.Errorf("listing epics: %w", err)
	}
	for _, dir := range dirs {
		epicID, ok := epicIDForDir(s, dir)
		if !ok {
			continue
		}
		u.add(epicID, plan.RefEpic)

		prd, found, err := store.LoadPRD(s, dir)
		if err != nil {
			return nil, err
		}
		if found {
			for _, id := range plan.RequirementIDs(epicID, prd) {
				u.add(id, plan.RefRequirement)
			}
		}

		stories, err := store.LoadStories(s, dir)
		if err != nil {
			return nil, err
		}
		for _, st := range stories {
			u.add(st.ID, plan.RefStory)
		}
	}

	return u, nil
}

// epicIDForDir resolves a directory's epic id, preferring the stored
// record and falling back to the directory name.
func epicIDForDir(s store.Store, dir string) (string, bool) {
	epic, err := store.LoadEpic(s, dir)
	if err == nil && epic != nil && epic.ID != "" {
		return epic.ID, true
	}
	return plan.EpicIDFromDir(dir)
}
