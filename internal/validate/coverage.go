package validate

import (
	"time"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// Coverage builds the coverage report: for every requirement parsed from
// every epic's PRD, the set of stories that list it. Classification is
// binary — one or more stories means covered, none means gap. The
// "partial" status exists in the schema for future partial-fulfillment
// semantics but is never produced here.
func (v *Validator) Coverage() (*plan.CoverageReport, error) {
	report := &plan.CoverageReport{Entries: []plan.CoverageEntry{}}

	dirs, err := store.EpicDirs(v.store)
	if err != nil {
		return nil, err
	}

	// One pass to index which stories implement which requirement,
	// tree-wide: a story may implement a requirement from another epic.
	implementors := map[string][]string{}
	for _, dir := range dirs {
		stories, err := store.LoadStories(v.store, dir)
		if err != nil {
			return nil, err
		}
		for _, story := range stories {
			for _, reqID := range story.Requirements {
				implementors[reqID] = append(implementors[reqID], story.ID)
			}
		}
	}

	for _, dir := range dirs {
		epicID, ok := epicIDForDir(v.store, dir)
		if !ok {
			continue
		}
		prd, found, err := store.LoadPRD(v.store, dir)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}

		for _, req := range plan.ParseRequirements(epicID, prd) {
			stories := implementors[req.ID]
			if stories == nil {
				stories = []string{}
			}
			status := plan.CoverageGap
			if len(stories) > 0 {
				status = plan.CoverageCovered
			}
			report.Entries = append(report.Entries, plan.CoverageEntry{
				RequirementID: req.ID,
				EpicID:        epicID,
				Title:         req.Title,
				Stories:       stories,
				Status:        status,
			})
		}
	}

	for _, e := range report.Entries {
		report.Summary.TotalRequirements++
		if e.Status == plan.CoverageCovered {
			report.Summary.Covered++
		} else {
			report.Summary.Gaps++
		}
	}
	// Guard the zero-requirement tree: percent is 0, not NaN.
	if report.Summary.TotalRequirements > 0 {
		report.Summary.CoveragePercent = float64(report.Summary.Covered) /
			float64(report.Summary.TotalRequirements) * 100
	}
	report.LastValidated = timeNow().UTC().Format(time.RFC3339)

	return report, nil
}
