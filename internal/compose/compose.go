// Package compose assembles context packages: read-only, inheritance-
// composed views that bundle a node with all of its ancestors' data.
//
// The consumer is a planning agent with no persistent memory, so each
// level embeds its parent's complete context by value — holding the leaf
// context means holding the full ancestry with no further lookups.
// Nothing here is cached: every call re-reads the store.
package compose

import (
	"fmt"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/status"
	"github.com/planforge/planforge/internal/store"
)

// ProjectContext is the root view: the project plus its optional
// discovery, constraints, and configuration documents. The optional
// fields are nil when absent — never an error.
type ProjectContext struct {
	Project     plan.Project           `json:"project"`
	Discovery   *plan.DiscoveryContext `json:"discovery,omitempty"`
	Constraints *plan.ConstraintSet    `json:"constraints,omitempty"`
	Config      *plan.Config           `json:"config,omitempty"`
}

// EpicSummary is the shallow sibling view attached to milestone contexts.
type EpicSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MilestoneContext wraps the project context with one milestone's data.
type MilestoneContext struct {
	Project      ProjectContext         `json:"project"`
	Milestone    plan.Milestone         `json:"milestone"`
	Status       status.MilestoneStatus `json:"status"`
	Discovery    *plan.ElementDiscovery `json:"discovery,omitempty"`
	SiblingEpics []EpicSummary          `json:"sibling_epics"`
}

// DependencySummary describes one dependency epic's artifact readiness.
// Only the completion flags are carried — full dependency contexts would
// recurse without bound.
type DependencySummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	HasPRD          bool   `json:"has_prd"`
	HasArchitecture bool   `json:"has_architecture"`
}

// EpicContext wraps the milestone context with one epic's data.
type EpicContext struct {
	Milestone    MilestoneContext       `json:"milestone"`
	Epic         plan.Epic              `json:"epic"`
	Dir          string                 `json:"dir"` // epic directory name
	Status       status.EpicStatus      `json:"status"`
	Discovery    *plan.ElementDiscovery `json:"discovery,omitempty"`
	Dependencies []DependencySummary    `json:"dependencies"`
}

// StoryContext is the leaf view used for story generation. Both artifact
// documents must exist; the requirement list is parsed from the PRD with
// the same grammar the validator uses.
type StoryContext struct {
	Epic            EpicContext        `json:"epic"`
	PRD             string             `json:"prd"`
	Architecture    string             `json:"architecture"`
	Requirements    []plan.Requirement `json:"requirements"`
	ExistingStories []plan.Story       `json:"existing_stories"`
}

// Composer assembles context packages from an injected store.
type Composer struct {
	store    store.Store
	resolver *status.Resolver
}

// New creates a Composer over the given store.
func New(s store.Store) *Composer {
	return &Composer{store: s, resolver: status.NewResolver(s)}
}

// Project assembles the root context. Fails with NOT_INITIALIZED when no
// project document exists; the optional documents never fail for absence.
func (c *Composer) Project() (*ProjectContext, error) {
	project, err := store.LoadProject(c.store)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	if project == nil {
		return nil, plan.Errorf(plan.ErrNotInitialized, "no project found — initialize the planning tree first")
	}

	ctx := &ProjectContext{Project: *project}

	var discovery plan.DiscoveryContext
	if found, err := c.store.ReadJSON(store.KeyDiscoveryContext, &discovery); err != nil {
		return nil, fmt.Errorf("loading discovery context: %w", err)
	} else if found {
		ctx.Discovery = &discovery
	}

	var constraints plan.ConstraintSet
	if found, err := c.store.ReadJSON(store.KeyDiscoveryConstraints, &constraints); err != nil {
		return nil, fmt.Errorf("loading constraints: %w", err)
	} else if found {
		ctx.Constraints = &constraints
	}

	cfg, err := store.LoadConfig(c.store)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	ctx.Config = cfg

	return ctx, nil
}

// Milestone assembles the context for one milestone id.
func (c *Composer) Milestone(milestoneID string) (*MilestoneContext, error) {
	if !plan.ValidMilestoneID(milestoneID) {
		return nil, plan.Errorf(plan.ErrInvalidID, "%q is not a valid milestone id (want M<n>)", milestoneID)
	}

	parent, err := c.Project()
	if err != nil {
		return nil, err
	}

	idx, err := store.LoadMilestoneIndex(c.store)
	if err != nil {
		return nil, fmt.Errorf("loading milestone index: %w", err)
	}
	milestone := idx.Find(milestoneID)
	if milestone == nil {
		return nil, plan.Errorf(plan.ErrNotFound, "milestone %q not found", milestoneID)
	}

	derived, err := c.resolver.Milestone(milestone)
	if err != nil {
		return nil, fmt.Errorf("deriving milestone status: %w", err)
	}

	ctx := &MilestoneContext{
		Project:      *parent,
		Milestone:    *milestone,
		Status:       derived,
		SiblingEpics: []EpicSummary{},
	}

	discovery, err := store.LoadElementDiscovery(c.store, store.MilestoneDiscoveryKey(milestoneID))
	if err != nil {
		return nil, fmt.Errorf("loading milestone discovery: %w", err)
	}
	ctx.Discovery = discovery

	// Shallow sibling summaries; epics without a directory are excluded.
	for _, epicID := range milestone.Epics {
		dir, found, err := store.FindEpicDir(c.store, epicID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		epic, err := store.LoadEpic(c.store, dir)
		if err != nil {
			return nil, err
		}
		if epic == nil {
			continue
		}
		ctx.SiblingEpics = append(ctx.SiblingEpics, EpicSummary{
			ID:          epic.ID,
			Name:        epic.Name,
			Description: epic.Description,
		})
	}

	return ctx, nil
}

// Epic assembles the context for one epic id. A dangling milestone
// back-reference surfaces here as the milestone lookup failing — this is
// the one read path that exercises that invariant.
func (c *Composer) Epic(epicID string) (*EpicContext, error) {
	dir, found, err := store.FindEpicDir(c.store, epicID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, plan.Errorf(plan.ErrNotFound, "epic %q not found", epicID)
	}

	epic, err := store.LoadEpic(c.store, dir)
	if err != nil {
		return nil, err
	}
	if epic == nil {
		return nil, plan.Errorf(plan.ErrNotFound, "epic %q has no epic.json", epicID)
	}

	parent, err := c.Milestone(epic.Milestone)
	if err != nil {
		return nil, err
	}

	stories, err := store.LoadStories(c.store, dir)
	if err != nil {
		return nil, err
	}

	ctx := &EpicContext{
		Milestone:    *parent,
		Epic:         *epic,
		Dir:          dir,
		Status:       status.ForEpic(epic, stories),
		Dependencies: []DependencySummary{},
	}

	discovery, err := store.LoadElementDiscovery(c.store, store.EpicKey(dir, store.FileDiscovery))
	if err != nil {
		return nil, fmt.Errorf("loading epic discovery: %w", err)
	}
	ctx.Discovery = discovery

	for _, depID := range epic.Dependencies {
		depDir, found, err := store.FindEpicDir(c.store, depID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		dep, err := store.LoadEpic(c.store, depDir)
		if err != nil {
			return nil, err
		}
		if dep == nil {
			continue
		}
		ctx.Dependencies = append(ctx.Dependencies, DependencySummary{
			ID:              dep.ID,
			Name:            dep.Name,
			HasPRD:          dep.Artifacts.PRD.Complete(),
			HasArchitecture: dep.Artifacts.Architecture.Complete(),
		})
	}

	return ctx, nil
}

// Story assembles the leaf context for story generation under an epic.
// Both the PRD and the architecture document must exist as text; each
// missing artifact fails with its own kind so the caller can say exactly
// which precondition was unmet.
func (c *Composer) Story(epicID string) (*StoryContext, error) {
	parent, err := c.Epic(epicID)
	if err != nil {
		return nil, err
	}

	prd, found, err := store.LoadPRD(c.store, parent.Dir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, plan.Errorf(plan.ErrMissingPRD, "epic %q has no prd.md — write the PRD before generating stories", epicID)
	}

	arch, found, err := store.LoadArchitecture(c.store, parent.Dir)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, plan.Errorf(plan.ErrMissingArch, "epic %q has no architecture.md — write the architecture before generating stories", epicID)
	}

	stories, err := store.LoadStories(c.store, parent.Dir)
	if err != nil {
		return nil, err
	}
	if stories == nil {
		stories = []plan.Story{}
	}

	return &StoryContext{
		Epic:            *parent,
		PRD:             prd,
		Architecture:    arch,
		Requirements:    plan.ParseRequirements(epicID, prd),
		ExistingStories: stories,
	}, nil
}
