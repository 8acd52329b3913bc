package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifier grammar for the planning tree:
//
//	milestone    M<n>        e.g. "M2"
//	epic         E<n>        e.g. "E7"
//	story        E<n>.S<m>   e.g. "E7.S3"
//	requirement  E<n>.R<m>   e.g. "E7.R12"
var (
	milestoneIDRe   = regexp.MustCompile(`^M[1-9][0-9]*$`)
	epicIDRe        = regexp.MustCompile(`^E[1-9][0-9]*$`)
	storyIDRe       = regexp.MustCompile(`^(E[1-9][0-9]*)\.S[1-9][0-9]*$`)
	requirementIDRe = regexp.MustCompile(`^(E[1-9][0-9]*)\.R[1-9][0-9]*$`)
)

// ValidMilestoneID reports whether id matches the M<n> pattern.
func ValidMilestoneID(id string) bool { return milestoneIDRe.MatchString(id) }

// ValidEpicID reports whether id matches the E<n> pattern.
func ValidEpicID(id string) bool { return epicIDRe.MatchString(id) }

// ValidStoryID reports whether id matches the E<n>.S<m> pattern.
func ValidStoryID(id string) bool { return storyIDRe.MatchString(id) }

// ValidRequirementID reports whether id matches the E<n>.R<m> pattern.
func ValidRequirementID(id string) bool { return requirementIDRe.MatchString(id) }

// StoryEpicID extracts the epic id from a story id ("E7.S3" → "E7").
func StoryEpicID(storyID string) (string, bool) {
	m := storyIDRe.FindStringSubmatch(storyID)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// RequirementEpicID extracts the epic id from a requirement id
// ("E7.R12" → "E7").
func RequirementEpicID(reqID string) (string, bool) {
	m := requirementIDRe.FindStringSubmatch(reqID)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// EpicDirName returns the directory name an epic lives under: "<id>-<slug>".
func EpicDirName(id, slug string) string {
	return id + "-" + slug
}

// EpicIDFromDir extracts the epic id from a directory name ("E2-auth" → "E2").
// Returns false for directories that don't follow the <E-id>-<slug> shape.
func EpicIDFromDir(dir string) (string, bool) {
	idx := strings.Index(dir, "-")
	if idx < 0 {
		return "", false
	}
	id := dir[:idx]
	if !ValidEpicID(id) {
		return "", false
	}
	return id, true
}

const maxSlugLen = 50

// Slugify converts a name into a filesystem-safe slug.
// Example: "User Auth & Sessions" → "user-auth-sessions"
//
// Rules:
//   - Lowercase
//   - Spaces and underscores become hyphens
//   - Non-alphanumeric characters (except hyphens) are removed
//   - Consecutive hyphens are collapsed
//   - Leading/trailing hyphens are trimmed
//   - Truncated to 50 characters (at a word boundary if possible)
//   - Empty input returns "unnamed"
func Slugify(name string) string {
	if strings.TrimSpace(name) == "" {
		return "unnamed"
	}

	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		case r == ' ' || r == '_' || r == '-':
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")

	if slug == "" {
		return "unnamed"
	}

	if len(slug) <= maxSlugLen {
		return slug
	}

	truncated := slug[:maxSlugLen]
	if lastHyphen := strings.LastIndex(truncated, "-"); lastHyphen > maxSlugLen/2 {
		truncated = truncated[:lastHyphen]
	}

	return strings.TrimRight(truncated, "-")
}

// NextID returns the next sequential id with the given prefix given the
// ids already in use ("M" with {M1,M2} → "M3"). Gaps are not reused.
func NextID(prefix string, existing []string) string {
	max := 0
	for _, id := range existing {
		var n int
		if _, err := fmt.Sscanf(id, prefix+"%d", &n); err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%d", prefix, max+1)
}
