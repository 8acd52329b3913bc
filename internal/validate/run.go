package validate

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// Result bundles the three artifacts of a full validation run.
type Result struct {
	Links    *plan.LinksReport
	Coverage *plan.CoverageReport
	Issues   *plan.IssuesReport
}

// Run performs the full validation: schema-presence checks, the link pass,
// and the coverage pass, synthesized into an issues report. All three
// artifacts are persisted unconditionally — snapshots always overwrite,
// even with zero issues, so a run always leaves a complete report behind.
//
// Data-quality findings never fail the run. It errors only when the tree
// is uninitialized or the store itself fails.
func (v *Validator) Run() (*Result, error) {
	if !v.store.IsInitialized() {
		return nil, plan.Errorf(plan.ErrNotInitialized, "no project found — nothing to validate")
	}

	u, err := BuildUniverse(v.store)
	if err != nil {
		return nil, err
	}

	links, err := v.linksAgainst(u)
	if err != nil {
		return nil, err
	}
	coverage, err := v.Coverage()
	if err != nil {
		return nil, err
	}

	issues := &plan.IssuesReport{
		RunID:  uuid.NewString(),
		Issues: []plan.ValidationIssue{},
	}

	schemaIssues, err := v.checkSchemas()
	if err != nil {
		return nil, err
	}
	issues.Issues = append(issues.Issues, schemaIssues...)

	for _, l := range links.Links {
		if l.Valid {
			continue
		}
		issues.Issues = append(issues.Issues, plan.ValidationIssue{
			Severity: plan.SeverityError,
			Category: "link",
			Message:  fmt.Sprintf("story %s references unknown %s %q", l.From.ID, l.To.Type, l.To.ID),
			Ref:      &plan.Ref{Type: l.From.Type, ID: l.From.ID},
		})
	}

	for _, o := range links.Orphans {
		issues.Issues = append(issues.Issues, plan.ValidationIssue{
			Severity: plan.SeverityWarning,
			Category: "orphan",
			Message:  fmt.Sprintf("story %s has no requirement links", o.ID),
			Ref:      &plan.Ref{Type: o.Type, ID: o.ID},
		})
	}

	for _, e := range coverage.Entries {
		if e.Status != plan.CoverageGap {
			continue
		}
		issues.Issues = append(issues.Issues, plan.ValidationIssue{
			Severity:   plan.SeverityError,
			Category:   "coverage",
			Message:    fmt.Sprintf("requirement %s is not implemented by any story", e.RequirementID),
			Ref:        &plan.Ref{Type: plan.RefRequirement, ID: e.RequirementID},
			Suggestion: fmt.Sprintf("add a story to epic %s implementing %s, or remove the requirement from its PRD", e.EpicID, e.RequirementID),
		})
	}

	for _, issue := range issues.Issues {
		switch issue.Severity {
		case plan.SeverityError:
			issues.Summary.Errors++
		case plan.SeverityWarning:
			issues.Summary.Warnings++
		default:
			issues.Summary.Info++
		}
	}
	issues.LastValidated = timeNow().UTC().Format(time.RFC3339)

	if err := v.store.WriteJSON(store.KeyLinks, links); err != nil {
		return nil, fmt.Errorf("persisting links report: %w", err)
	}
	if err := v.store.WriteJSON(store.KeyCoverage, coverage); err != nil {
		return nil, fmt.Errorf("persisting coverage report: %w", err)
	}
	if err := v.store.WriteJSON(store.KeyIssues, issues); err != nil {
		return nil, fmt.Errorf("persisting issues report: %w", err)
	}

	return &Result{Links: links, Coverage: coverage, Issues: issues}, nil
}

// checkSchemas verifies the structural documents exist where the layout
// says they should: a project record, and an epic.json in every epic
// directory.
func (v *Validator) checkSchemas() ([]plan.ValidationIssue, error) {
	var found []plan.ValidationIssue

	dirs, err := store.EpicDirs(v.store)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		exists, err := v.store.Exists(store.EpicKey(dir, store.FileEpic))
		if err != nil {
			return nil, err
		}
		if !exists {
			found = append(found, plan.ValidationIssue{
				Severity: plan.SeverityError,
				Category: "schema",
				Message:  fmt.Sprintf("epic directory %q has no epic.json", dir),
			})
		}
	}

	return found, nil
}
