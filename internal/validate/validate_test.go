package validate

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/planforge/planforge/internal/plan"
	"github.com/planforge/planforge/internal/store"
)

// freezeTime pins timeNow for deterministic report timestamps.
func freezeTime(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	t.Cleanup(func() { timeNow = orig })
	timeNow = func() time.Time { return at }
}

// seedTree builds a tree with one milestone and one epic (E1, requirements
// R1 and R2) plus the stories passed in.
func seedTree(t *testing.T, stories ...plan.Story) store.Store {
	t.Helper()
	s := store.NewFileStore(t.TempDir())

	if err := s.WriteJSON(store.KeyProject, plan.Project{ID: "p1", Name: "Shop", Status: plan.ProjectActive}); err != nil {
		t.Fatal(err)
	}
	idx := plan.MilestoneIndex{Milestones: []plan.Milestone{{ID: "M1", Name: "MVP", Epics: []string{"E1"}}}}
	if err := s.WriteJSON(store.KeyMilestoneIndex, idx); err != nil {
		t.Fatal(err)
	}

	epic := plan.Epic{ID: "E1", Slug: "auth", Name: "Auth", Milestone: "M1"}
	if err := s.WriteJSON(store.EpicKey("E1-auth", store.FileEpic), epic); err != nil {
		t.Fatal(err)
	}
	prd := "# PRD\n\n### R1: sign in\n\n### R2: sessions expire\n"
	if err := s.WriteText(store.EpicKey("E1-auth", store.FilePRD), prd); err != nil {
		t.Fatal(err)
	}
	if stories != nil {
		set := plan.StorySet{EpicID: "E1", Stories: stories}
		if err := s.WriteJSON(store.EpicKey("E1-auth", store.FileStories), set); err != nil {
			t.Fatal(err)
		}
	}

	return s
}

func story(id string, reqs ...string) plan.Story {
	if reqs == nil {
		reqs = []string{}
	}
	return plan.Story{ID: id, Title: id, Requirements: reqs, Status: plan.StoryTodo}
}

// --- Universe ---

func TestBuildUniverse_AllIdentifierKinds(t *testing.T) {
	s := seedTree(t, story("E1.S1", "E1.R1"))
	if err := s.WriteJSON(store.KeyDiscoveryContext, plan.DiscoveryContext{
		Values: []plan.DiscoveryValue{{ID: "V1", Statement: "quality"}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteJSON(store.KeyDiscoveryConstraints, plan.ConstraintSet{
		Constraints: []plan.Constraint{{ID: "C1", Description: "budget"}},
	}); err != nil {
		t.Fatal(err)
	}

	u, err := BuildUniverse(s)
	if err != nil {
		t.Fatalf("BuildUniverse: %v", err)
	}

	for _, id := range []string{"M1", "V1", "C1", "E1", "E1.R1", "E1.R2", "E1.S1"} {
		if !u.Has(id) {
			t.Errorf("universe should contain %q", id)
		}
	}
	if u.Has("E1.R999") {
		t.Error("universe should not contain unparsed requirement ids")
	}
	if typ, _ := u.TypeOf("E1.R1"); typ != plan.RefRequirement {
		t.Errorf("TypeOf(E1.R1) = %q", typ)
	}
}

// --- Links ---

func TestLinks_BrokenRequirementReference(t *testing.T) {
	s := seedTree(t, story("E1.S1", "E1.R999"))

	report, err := New(s).Links()
	if err != nil {
		t.Fatalf("Links: %v", err)
	}

	if len(report.Links) != 1 {
		t.Fatalf("links = %+v, want 1", report.Links)
	}
	l := report.Links[0]
	if l.Valid {
		t.Error("link to E1.R999 should be broken")
	}
	if l.Type != plan.LinkImplements || l.To.ID != "E1.R999" {
		t.Errorf("link = %+v", l)
	}
	if report.Summary.Broken != 1 || report.Summary.Valid != 0 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

func TestLinks_OrphanIsNotBroken(t *testing.T) {
	s := seedTree(t, story("E1.S1"))

	report, err := New(s).Links()
	if err != nil {
		t.Fatalf("Links: %v", err)
	}

	if report.Summary.Broken != 0 {
		t.Errorf("orphan story should produce no broken links, summary = %+v", report.Summary)
	}
	if len(report.Orphans) != 1 || report.Orphans[0].ID != "E1.S1" {
		t.Fatalf("orphans = %+v", report.Orphans)
	}
	if report.Orphans[0].Reason != "no requirement links" {
		t.Errorf("orphan reason = %q", report.Orphans[0].Reason)
	}
}

func TestLinks_StoryDependencies(t *testing.T) {
	s1 := story("E1.S1", "E1.R1")
	s2 := story("E1.S2", "E1.R2")
	s2.Dependencies = []string{"E1.S1", "E1.S99"}
	s := seedTree(t, s1, s2)

	report, err := New(s).Links()
	if err != nil {
		t.Fatalf("Links: %v", err)
	}

	// 2 implements + 2 depends_on.
	if report.Summary.Total != 4 || report.Summary.Valid != 3 || report.Summary.Broken != 1 {
		t.Errorf("summary = %+v", report.Summary)
	}
}

// --- Coverage ---

func TestCoverage_Arithmetic(t *testing.T) {
	s := seedTree(t, story("E1.S1", "E1.R1"))

	report, err := New(s).Coverage()
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}

	sum := report.Summary
	if sum.TotalRequirements != 2 || sum.Covered != 1 || sum.Gaps != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if sum.CoveragePercent != 50 {
		t.Errorf("coverage percent = %v, want 50", sum.CoveragePercent)
	}

	var gap *plan.CoverageEntry
	for i := range report.Entries {
		if report.Entries[i].Status == plan.CoverageGap {
			gap = &report.Entries[i]
		}
	}
	if gap == nil || gap.RequirementID != "E1.R2" {
		t.Errorf("gap entry = %+v, want E1.R2", gap)
	}
}

func TestCoverage_ZeroRequirementsIsZeroPercent(t *testing.T) {
	s := store.NewFileStore(t.TempDir())
	if err := s.WriteJSON(store.KeyProject, plan.Project{ID: "p1"}); err != nil {
		t.Fatal(err)
	}
	epic := plan.Epic{ID: "E1", Slug: "auth", Milestone: "M1"}
	if err := s.WriteJSON(store.EpicKey("E1-auth", store.FileEpic), epic); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteText(store.EpicKey("E1-auth", store.FilePRD), "# PRD with no requirement headings\n"); err != nil {
		t.Fatal(err)
	}

	report, err := New(s).Coverage()
	if err != nil {
		t.Fatalf("Coverage: %v", err)
	}
	if report.Summary.CoveragePercent != 0 {
		t.Errorf("coverage percent with no requirements = %v, want 0", report.Summary.CoveragePercent)
	}
}

// --- Full run ---

func TestRun_NotInitialized(t *testing.T) {
	v := New(store.NewFileStore(t.TempDir()))
	_, err := v.Run()
	if !plan.IsKind(err, plan.ErrNotInitialized) {
		t.Errorf("Run on empty tree = %v, want NOT_INITIALIZED", err)
	}
}

func TestRun_SynthesizesIssues(t *testing.T) {
	broken := story("E1.S1", "E1.R999") // broken link
	orphan := story("E1.S2")            // no requirement links
	s := seedTree(t, broken, orphan)

	result, err := New(s).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Broken link → error; orphan → warning; R1 and R2 uncovered → errors.
	if result.Issues.Summary.Errors != 3 {
		t.Errorf("errors = %d, want 3: %+v", result.Issues.Summary.Errors, result.Issues.Issues)
	}
	if result.Issues.Summary.Warnings != 1 {
		t.Errorf("warnings = %d, want 1", result.Issues.Summary.Warnings)
	}
	if result.Issues.RunID == "" {
		t.Error("run id should be set")
	}

	var sawSuggestion bool
	for _, issue := range result.Issues.Issues {
		if issue.Category == "coverage" && issue.Suggestion != "" {
			sawSuggestion = true
		}
	}
	if !sawSuggestion {
		t.Error("coverage gaps should carry a suggestion")
	}
}

func TestRun_PersistsAllArtifactsEvenWhenClean(t *testing.T) {
	s := seedTree(t, story("E1.S1", "E1.R1"), story("E1.S2", "E1.R2"))

	result, err := New(s).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Issues.Issues) != 0 {
		t.Errorf("clean tree should have no issues: %+v", result.Issues.Issues)
	}

	for _, key := range []string{store.KeyLinks, store.KeyCoverage, store.KeyIssues} {
		if ok, _ := s.Exists(key); !ok {
			t.Errorf("%s should be persisted even with zero issues", key)
		}
	}
}

func TestRun_SchemaCheckFlagsDirWithoutEpicJSON(t *testing.T) {
	s := seedTree(t, story("E1.S1", "E1.R1"), story("E1.S2", "E1.R2"))
	if err := s.EnsureDirectory(store.DirEpics + "/E7-empty"); err != nil {
		t.Fatal(err)
	}

	result, err := New(s).Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var sawSchema bool
	for _, issue := range result.Issues.Issues {
		if issue.Category == "schema" && issue.Severity == plan.SeverityError {
			sawSchema = true
		}
	}
	if !sawSchema {
		t.Error("epic dir without epic.json should raise a schema error")
	}
}

func TestRun_Idempotent(t *testing.T) {
	freezeTime(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	s := seedTree(t, story("E1.S1", "E1.R1"))
	v := New(s)

	first, err := v.Run()
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := v.Run()
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	// With no tree mutation between runs, links and coverage snapshots are
	// byte-identical (time is frozen here; in production only
	// last_validated differs).
	firstLinks, _ := json.Marshal(first.Links)
	secondLinks, _ := json.Marshal(second.Links)
	if !bytes.Equal(firstLinks, secondLinks) {
		t.Error("links reports differ across identical runs")
	}

	firstCov, _ := json.Marshal(first.Coverage)
	secondCov, _ := json.Marshal(second.Coverage)
	if !bytes.Equal(firstCov, secondCov) {
		t.Error("coverage reports differ across identical runs")
	}
}
