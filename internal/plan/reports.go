package plan

// Derived validation artifacts. These are snapshots: every validation run
// overwrites them whole, there is no history or diffing.

// RefType identifies what kind of entity an identifier names.
type RefType string

const (
	RefProject     RefType = "project"
	RefMilestone   RefType = "milestone"
	RefEpic        RefType = "epic"
	RefStory       RefType = "story"
	RefRequirement RefType = "requirement"
	RefValue       RefType = "value"
	RefConstraint  RefType = "constraint"
)

// Ref is a typed identifier, one end of a Link.
type Ref struct {
	Type RefType `json:"type"`
	ID   string  `json:"id"`
}

// LinkType tags the semantics of a cross-reference.
type LinkType string

const (
	LinkImplements LinkType = "implements" // story → requirement
	LinkDependsOn  LinkType = "depends_on" // story → story
)

// Link is a single directed reference, tagged valid or broken against the
// identifier universe. Links are derived and ephemeral — rebuilt on every
// validation run, never mutated in place.
type Link struct {
	From  Ref      `json:"from"`
	To    Ref      `json:"to"`
	Type  LinkType `json:"type"`
	Valid bool     `json:"valid"`
}

// Orphan flags a story with no requirement links. This is a structural
// smell, not a broken reference, and is reported separately.
type Orphan struct {
	Type   RefType `json:"type"` // always "story" today
	ID     string  `json:"id"`
	Reason string  `json:"reason"`
}

// LinksSummary holds the rollup counts for a links report.
type LinksSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Broken  int `json:"broken"`
	Orphans int `json:"orphans"`
}

// LinksReport is persisted as validation/links.json.
type LinksReport struct {
	Links         []Link       `json:"links"`
	Orphans       []Orphan     `json:"orphans"`
	Summary       LinksSummary `json:"summary"`
	LastValidated string       `json:"last_validated"`
}

// CoverageStatus classifies how well a requirement is implemented.
// "partial" is declared for forward compatibility but never produced by
// the current binary covered/gap logic.
type CoverageStatus string

const (
	CoverageCovered CoverageStatus = "covered"
	CoveragePartial CoverageStatus = "partial"
	CoverageGap     CoverageStatus = "gap"
)

// CoverageEntry records which stories implement one parsed requirement.
type CoverageEntry struct {
	RequirementID string         `json:"requirement_id"`
	EpicID        string         `json:"epic_id"`
	Title         string         `json:"title,omitempty"`
	Stories       []string       `json:"stories"`
	Status        CoverageStatus `json:"status"`
}

// CoverageSummary holds the rollup counts for a coverage report.
// CoveragePercent is 0 (not NaN) when there are no requirements.
type CoverageSummary struct {
	TotalRequirements int     `json:"total_requirements"`
	Covered           int     `json:"covered"`
	Gaps              int     `json:"gaps"`
	CoveragePercent   float64 `json:"coverage_percent"`
}

// CoverageReport is persisted as validation/coverage.json.
type CoverageReport struct {
	Entries       []CoverageEntry `json:"entries"`
	Summary       CoverageSummary `json:"summary"`
	LastValidated string          `json:"last_validated"`
}

// Severity ranks a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is one finding from a full validation run.
type ValidationIssue struct {
	Severity   Severity `json:"severity"`
	Category   string   `json:"category"` // schema | link | orphan | coverage
	Message    string   `json:"message"`
	Ref        *Ref     `json:"ref,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// IssueSummary holds the rollup counts for an issues report.
type IssueSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// IssuesReport is persisted as validation/issues.json. RunID is a fresh
// identifier per validation run; it lives only here so the links and
// coverage snapshots stay byte-stable across identical runs.
type IssuesReport struct {
	RunID         string            `json:"run_id"`
	Issues        []ValidationIssue `json:"issues"`
	Summary       IssueSummary      `json:"summary"`
	LastValidated string            `json:"last_validated"`
}
