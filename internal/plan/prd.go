package plan

import (
	"bufio"
	"regexp"
	"strings"
)

// Requirement identifiers are not stored anywhere — they are parsed out of
// PRD markdown on every read. This is the single implementation of the
// heading grammar; both coverage validation and story-context assembly go
// through it so the two can never drift.

// requirementHeadingRe matches a PRD requirement heading:
//
//	### R3: Title
//	### E2.R3: Title
//
// The epic prefix is optional; both forms normalize to "<epicID>.R<n>".
var requirementHeadingRe = regexp.MustCompile(`^###\s+(?:E[1-9][0-9]*\.)?R([1-9][0-9]*):\s*(.*\S)\s*$`)

// Requirement is a parsed PRD heading. Line is the 1-based source line,
// kept for report readability only — identity is the ID alone.
type Requirement struct {
	ID    string `json:"id"` // canonical "E<n>.R<m>"
	Title string `json:"title"`
	Line  int    `json:"line"`
}

// ParseRequirements extracts all requirement headings from PRD markdown,
// in order of appearance, with ids normalized to the given epic's prefix.
// Duplicate ids keep their first occurrence.
func ParseRequirements(epicID, prd string) []Requirement {
	var reqs []Requirement
	seen := map[string]bool{}

	scanner := bufio.NewScanner(strings.NewReader(prd))
	line := 0
	for scanner.Scan() {
		line++
		m := requirementHeadingRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		id := epicID + ".R" + m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		reqs = append(reqs, Requirement{ID: id, Title: m[2], Line: line})
	}

	return reqs
}

// RequirementIDs returns just the canonical ids from a PRD, in parse order.
func RequirementIDs(epicID, prd string) []string {
	reqs := ParseRequirements(epicID, prd)
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	return ids
}
