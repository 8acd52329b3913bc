// Package status derives epic and milestone statuses. Statuses at these
// levels are never persisted: every read path re-derives them from the
// epic's artifacts and its stories' stored states.
//
// ForEpic and AggregateMilestone are pure. Resolver adds the store walk
// needed to feed them; it is the one shared implementation of "resolve an
// epic id to its directory, record, and stories".
package status

import (
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// EpicStatus is a derived epic state.
type EpicStatus string

const (
	EpicDeferred   EpicStatus = "deferred"
	EpicPlanned    EpicStatus = "planned"
	EpicDrafting   EpicStatus = "drafting"
	EpicReady      EpicStatus = "ready"
	EpicInProgress EpicStatus = "in_progress"
	EpicDone       EpicStatus = "done"
)

// MilestoneStatus is a derived milestone state. Deliberately coarser than
// EpicStatus: ready and drafting epics both surface as an in_progress
// milestone, so downstream consumers see a stable three-value enum.
type MilestoneStatus string

const (
	MilestonePlanned    MilestoneStatus = "planned"
	MilestoneInProgress MilestoneStatus = "in_progress"
	MilestoneDone       MilestoneStatus = "done"
)

// ForEpic derives an epic's status from its record and stories. Rules are
// checked in priority order; the first match wins:
//
//  1. deferred flag set           → deferred (even with all stories done)
//  2. no artifact, no stories     → planned
//  3. artifact done, no stories   → drafting
//  4. all stories done            → done
//  5. any story actively worked   → in_progress
//  6. stories exist, none started → ready
func ForEpic(epic *plan.Epic, stories []plan.Story) EpicStatus {
	if epic.Deferred {
		return EpicDeferred
	}

	prdDone := epic.Artifacts.PRD.Complete()
	archDone := epic.Artifacts.Architecture.Complete()

	if len(stories) == 0 {
		if !prdDone && !archDone {
			return EpicPlanned
		}
		return EpicDrafting
	}

	allDone := true
	anyActive := false
	for _, s := range stories {
		if s.Status != plan.StoryDone {
			allDone = false
		}
		if s.Status.Started() {
			anyActive = true
		}
	}

	switch {
	case allDone:
		return EpicDone
	case anyActive:
		return EpicInProgress
	default:
		return EpicReady
	}
}

// AggregateMilestone folds derived epic statuses into a milestone status.
// An empty slice (no epics, or none resolvable) aggregates to planned.
func AggregateMilestone(epicStatuses []EpicStatus) MilestoneStatus {
	if len(epicStatuses) == 0 {
		return MilestonePlanned
	}

	allDone := true
	anyMoving := false
	for _, s := range epicStatuses {
		if s != EpicDone {
			allDone = false
		}
		if s == EpicInProgress || s == EpicReady || s == EpicDrafting {
			anyMoving = true
		}
	}

	switch {
	case allDone:
		return MilestoneDone
	case anyMoving:
		return MilestoneInProgress
	default:
		return MilestonePlanned
	}
}

// Resolver walks the store to derive statuses for ids rather than
// already-loaded records.
type Resolver struct {
	store store.Store
}

// NewResolver creates a Resolver over the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// Epic derives the status for an epic id. The boolean result is false when
// no directory matches the id; that is not an error — partially initialized
// trees are expected.
func (r *Resolver) Epic(epicID string) (EpicStatus, bool, error) {
	dir, found, err := store.FindEpicDir(r.store, epicID)
	if err != nil || !found {
		return "", false, err
	}

	epic, err := store.LoadEpic(r.store, dir)
	if err != nil {
		return "", false, err
	}
	if epic == nil {
		// Directory without an epic.json: treated as absent.
		return "", false, nil
	}

	stories, err := store.LoadStories(r.store, dir)
	if err != nil {
		return "", false, err
	}

	return ForEpic(epic, stories), true, nil
}

// Milestone derives the status for a milestone by resolving each listed
// epic. Epics whose directories are missing are excluded, not treated as
// blocking. Always returns a status; only store I/O failures error.
func (r *Resolver) Milestone(m *plan.Milestone) (MilestoneStatus, error) {
	var statuses []EpicStatus
	for _, epicID := range m.Epics {
		s, found, err := r.Epic(epicID)
		if err != nil {
			return "", err
		}
		if !found {
			continue
		}
		statuses = append(statuses, s)
	}
	return AggregateMilestone(statuses), nil
}
