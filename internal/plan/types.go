// Package plan defines the planning-tree data model: projects, milestones,
// epics, stories, discovery documents, and the derived validation reports.
//
// Requirements are deliberately NOT a stored entity — they exist only as
// headings inside an epic's PRD document and are re-parsed on every read
// (see prd.go). Epic and milestone statuses are likewise never persisted;
// they are derived from children on demand (see the status package).
package plan

import "fmt"

// --- Project ---

// ProjectStatus is the stored lifecycle state of the whole project.
type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectComplete ProjectStatus = "complete"
)

// validProjectStatuses is the set of allowed project statuses.
var validProjectStatuses = map[ProjectStatus]bool{
	ProjectActive:   true,
	ProjectPaused:   true,
	ProjectComplete: true,
}

// ValidateProjectStatus returns an error if the status is not recognized.
func ValidateProjectStatus(s ProjectStatus) error {
	if !validProjectStatuses[s] {
		return fmt.Errorf("invalid project status %q: must be one of: active, paused, complete", s)
	}
	return nil
}

// ProjectStats holds rollup counts maintained by the planning commands.
type ProjectStats struct {
	Milestones int `json:"milestones"`
	Epics      int `json:"epics"`
	Stories    int `json:"stories"`
}

// Project is the root entity of the planning tree, persisted as project.json.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Stats       ProjectStats  `json:"stats"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

// --- Milestone ---

// Milestone groups epics under an ordered delivery phase. Milestones have
// no stored status: it is derived from their epics on every read.
type Milestone struct {
	ID          string   `json:"id"` // "M1"
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Order       int      `json:"order"`
	Epics       []string `json:"epics"` // epic ids, e.g. "E3"
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// MilestoneIndex is the single document holding all milestone records,
// persisted as milestones/index.json.
type MilestoneIndex struct {
	Milestones []Milestone `json:"milestones"`
}

// Find returns the milestone with the given id, or nil.
func (idx *MilestoneIndex) Find(id string) *Milestone {
	for i := range idx.Milestones {
		if idx.Milestones[i].ID == id {
			return &idx.Milestones[i]
		}
	}
	return nil
}

// --- Epic ---

// ArtifactStatus tracks completion of a single planning artifact.
type ArtifactStatus string

const (
	ArtifactMissing  ArtifactStatus = "missing"
	ArtifactDraft    ArtifactStatus = "draft"
	ArtifactComplete ArtifactStatus = "complete"
)

// ArtifactState records one artifact's completion status and revision.
type ArtifactState struct {
	Status  ArtifactStatus `json:"status"`
	Version int            `json:"version"`
}

// Complete reports whether the artifact has been finished.
func (a ArtifactState) Complete() bool {
	return a.Status == ArtifactComplete
}

// StoriesState records the status and count of an epic's story set.
type StoriesState struct {
	Status ArtifactStatus `json:"status"`
	Count  int            `json:"count"`
}

// EpicArtifacts tracks the three planning artifacts of an epic.
type EpicArtifacts struct {
	PRD          ArtifactState `json:"prd"`
	Architecture ArtifactState `json:"architecture"`
	Stories      StoriesState  `json:"stories"`
}

// EpicStats holds rollup counts for an epic.
type EpicStats struct {
	Requirements int `json:"requirements"`
	Stories      int `json:"stories"`
	Covered      int `json:"covered"`
}

// Epic is a unit of planned work, persisted as epics/<id>-<slug>/epic.json.
// Epics have no stored status: it is derived from artifacts and stories.
type Epic struct {
	ID           string        `json:"id"` // "E1"
	Slug         string        `json:"slug"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Milestone    string        `json:"milestone"` // back-reference, e.g. "M1"
	Deferred     bool          `json:"deferred"`
	Artifacts    EpicArtifacts `json:"artifacts"`
	Dependencies []string      `json:"dependencies,omitempty"` // other epic ids
	Stats        EpicStats     `json:"stats"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

// --- Story ---

// StoryStatus is the stored lifecycle state of a story. Stories are the
// only tree level with a persisted status.
type StoryStatus string

const (
	StoryTodo       StoryStatus = "todo"
	StoryAssigned   StoryStatus = "assigned"
	StoryInProgress StoryStatus = "in_progress"
	StoryReview     StoryStatus = "review"
	StoryDone       StoryStatus = "done"
	StoryBlocked    StoryStatus = "blocked"
	StoryDeferred   StoryStatus = "deferred"
)

// validStoryStatuses is the set of allowed story statuses.
var validStoryStatuses = map[StoryStatus]bool{
	StoryTodo:       true,
	StoryAssigned:   true,
	StoryInProgress: true,
	StoryReview:     true,
	StoryDone:       true,
	StoryBlocked:    true,
	StoryDeferred:   true,
}

// ValidateStoryStatus returns an error if the status is not recognized.
func ValidateStoryStatus(s StoryStatus) error {
	if !validStoryStatuses[s] {
		return fmt.Errorf("invalid story status %q: must be one of: todo, assigned, in_progress, review, done, blocked, deferred", s)
	}
	return nil
}

// Started reports whether the story is actively being worked
// (assigned, in progress, or in review).
func (s StoryStatus) Started() bool {
	return s == StoryAssigned || s == StoryInProgress || s == StoryReview
}

// Story is the smallest executable unit, implementing one or more
// requirements from its epic's PRD.
type Story struct {
	ID                 string      `json:"id"` // "E1.S2"
	Title              string      `json:"title"`
	Description        string      `json:"description,omitempty"`
	Type               string      `json:"type,omitempty"`
	Requirements       []string    `json:"requirements"` // "E1.R3" ids
	AcceptanceCriteria []string    `json:"acceptance_criteria,omitempty"`
	Dependencies       []string    `json:"dependencies,omitempty"` // other story ids
	Status             StoryStatus `json:"status"`
	BlockedReason      string      `json:"blocked_reason,omitempty"`
}

// StorySet is the document holding an epic's stories, persisted as
// epics/<id>-<slug>/stories.json.
type StorySet struct {
	EpicID  string  `json:"epic_id"`
	Stories []Story `json:"stories"`
}

// --- Discovery ---

// DiscoveryStatus tracks the lifecycle of a discovery document.
type DiscoveryStatus string

const (
	DiscoveryStarted  DiscoveryStatus = "started"
	DiscoveryComplete DiscoveryStatus = "complete"
)

// ElementDiscovery is a free-form scoping document attached to a milestone
// or epic, independent of status derivation.
type ElementDiscovery struct {
	Element         string          `json:"element"` // milestone or epic id
	Status          DiscoveryStatus `json:"status"`
	Problem         string          `json:"problem,omitempty"`
	Scope           []string        `json:"scope,omitempty"`
	OutOfScope      []string        `json:"out_of_scope,omitempty"`
	SuccessCriteria []string        `json:"success_criteria,omitempty"`
	Constraints     []string        `json:"constraints,omitempty"`
	History         []string        `json:"history,omitempty"`
	StartedAt       string          `json:"started_at"`
	CompletedAt     string          `json:"completed_at,omitempty"`
}

// DiscoveryValue is a named project value captured during project-level
// discovery. Its id participates in the identifier universe.
type DiscoveryValue struct {
	ID        string `json:"id"`
	Statement string `json:"statement"`
}

// DiscoveryContext is the project-level discovery document, persisted as
// discovery/context.json.
type DiscoveryContext struct {
	Vision string           `json:"vision,omitempty"`
	Values []DiscoveryValue `json:"values,omitempty"`
}

// Constraint is a project-level constraint. Its id participates in the
// identifier universe.
type Constraint struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ConstraintSet is the project-level constraints document, persisted as
// discovery/constraints.json.
type ConstraintSet struct {
	Constraints []Constraint `json:"constraints,omitempty"`
}

// --- Config ---

// Config is the optional project configuration, persisted as config.yaml.
type Config struct {
	Version            string `yaml:"version" json:"version"`
	LockTimeoutMinutes int    `yaml:"lock_timeout_minutes,omitempty" json:"lock_timeout_minutes,omitempty"`
	DefaultDetailLevel string `yaml:"default_detail_level,omitempty" json:"default_detail_level,omitempty"`
}

// --- Lock ---

// LockHolder is a cooperative role label, not a process identity.
type LockHolder string

const (
	HolderWorker LockHolder = "worker"
	HolderUser   LockHolder = "user"
	HolderSystem LockHolder = "system"
)

// validHolders is the set of allowed lock holders.
var validHolders = map[LockHolder]bool{
	HolderWorker: true,
	HolderUser:   true,
	HolderSystem: true,
}

// ValidateHolder returns an error if the holder label is not recognized.
func ValidateHolder(h LockHolder) error {
	if !validHolders[h] {
		return fmt.Errorf("invalid lock holder %q: must be one of: worker, user, system", h)
	}
	return nil
}

// Lock is the advisory tree-wide lock record, persisted as .lock.
// Timeout is the wall-clock expiry instant (RFC3339); a lock past its
// timeout is treated as released even if never explicitly dropped.
type Lock struct {
	Holder  LockHolder `json:"holder"`
	Task    string     `json:"task,omitempty"`
	Started string     `json:"started"`
	Timeout string     `json:"timeout"`
}

// --- Queues ---

// FeedbackItem is one entry in the feedback queue.
type FeedbackItem struct {
	ID        string `json:"id"`
	Source    string `json:"source,omitempty"`
	Message   string `json:"message"`
	Resolved  bool   `json:"resolved"`
	CreatedAt string `json:"created_at"`
}

// FeedbackQueue is the document persisted as feedback_queue.json.
type FeedbackQueue struct {
	Items []FeedbackItem `json:"items"`
}

// TaskItem is one entry in the task or stuck queue.
type TaskItem struct {
	ID        string `json:"id"`
	StoryID   string `json:"story_id,omitempty"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

// TaskQueue is the document persisted as task_queue.json / stuck_queue.json.
type TaskQueue struct {
	Tasks []TaskItem `json:"tasks"`
}
