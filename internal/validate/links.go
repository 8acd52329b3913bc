package validate

import (
	"time"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// Validator runs the integrity passes over an injected store.
type Validator struct {
	store store.Store
}

// New creates a Validator over the given store.
func New(s store.Store) *Validator {
	return &Validator{store: s}
}

// Links builds the links report: every story→requirement reference
// (implements) and story→story reference (depends_on), each tagged valid
// against the identifier universe. Stories with no requirement links are
// reported as orphans — a structural smell, kept apart from broken links.
func (v *Validator) Links() (*plan.LinksReport, error) {
	u, err := BuildUniverse(v.store)
	if err != nil {
		return nil, err
	}
	return v.linksAgainst(u)
}

func (v *Validator) linksAgainst(u *Universe) (*plan.LinksReport, error) {
	report := &plan.LinksReport{
		Links:   []plan.Link{},
		Orphans: []plan.Orphan{},
	}

	dirs, err := store.EpicDirs(v.store)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		stories, err := store.LoadStories(v.store, dir)
		if err != nil {
			return nil, err
		}
		for _, story := range stories {
			from := plan.Ref{Type: plan.RefStory, ID: story.ID}

			for _, reqID := range story.Requirements {
				report.Links = append(report.Links, plan.Link{
					From:  from,
					To:    plan.Ref{Type: plan.RefRequirement, ID: reqID},
					Type:  plan.LinkImplements,
					Valid: u.Has(reqID),
				})
			}
			for _, depID := range story.Dependencies {
				report.Links = append(report.Links, plan.Link{
					From:  from,
					To:    plan.Ref{Type: plan.RefStory, ID: depID},
					Type:  plan.LinkDependsOn,
					Valid: u.Has(depID),
				})
			}

			if len(story.Requirements) == 0 {
				report.Orphans = append(report.Orphans, plan.Orphan{
					Type:   plan.RefStory,
					ID:     story.ID,
					Reason: "no requirement links",
				})
			}
		}
	}

	for _, l := range report.Links {
		report.Summary.Total++
		if l.Valid {
			report.Summary.Valid++
		} else {
			report.Summary.Broken++
		}
	}
	report.Summary.Orphans = len(report.Orphans)
	report.LastValidated = timeNow().UTC().Format(time.RFC3339)

	return report, nil
}
