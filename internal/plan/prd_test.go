package plan

import "testing"

const samplePRD = `# PRD: Checkout

Some intro text.

### R1: Cart totals are recomputed server-side

Body text for R1.

### E4.R2: Payment provider failures surface a retryable error

More body.

## Not a requirement heading

### R10: Guest checkout requires only an email
`

func TestParseRequirements_NormalizesBothHeadingForms(t *testing.T) {
	reqs := ParseRequirements("E4", samplePRD)
	if len(reqs) != 3 {
		t.Fatalf("ParseRequirements returned %d requirements, want 3", len(reqs))
	}

	wantIDs := []string{"E4.R1", "E4.R2", "E4.R10"}
	for i, want := range wantIDs {
		if reqs[i].ID != want {
			t.Errorf("reqs[%d].ID = %q, want %q", i, reqs[i].ID, want)
		}
	}
}

func TestParseRequirements_TitlesAndLines(t *testing.T) {
	reqs := ParseRequirements("E4", samplePRD)
	if reqs[0].Title != "Cart totals are recomputed server-side" {
		t.Errorf("reqs[0].Title = %q", reqs[0].Title)
	}
	if reqs[0].Line != 5 {
		t.Errorf("reqs[0].Line = %d, want 5", reqs[0].Line)
	}
	if reqs[1].Title != "Payment provider failures surface a retryable error" {
		t.Errorf("reqs[1].Title = %q", reqs[1].Title)
	}
}

func TestParseRequirements_EmptyPRD(t *testing.T) {
	if got := ParseRequirements("E1", ""); got != nil {
		t.Errorf("ParseRequirements on empty PRD = %v, want nil", got)
	}
}

func TestParseRequirements_IgnoresNonRequirementHeadings(t *testing.T) {
	prd := "### Overview: not a requirement\n#### R1: wrong depth\n## R2: wrong depth\n### Rx: not numeric\n"
	if got := ParseRequirements("E1", prd); got != nil {
		t.Errorf("ParseRequirements = %v, want nil", got)
	}
}

func TestParseRequirements_DuplicateKeepsFirst(t *testing.T) {
	prd := "### R1: first\n### E9.R1: duplicate of first\n"
	reqs := ParseRequirements("E9", prd)
	if len(reqs) != 1 {
		t.Fatalf("got %d requirements, want 1", len(reqs))
	}
	if reqs[0].Title != "first" {
		t.Errorf("duplicate id should keep first occurrence, got title %q", reqs[0].Title)
	}
}

func TestParseRequirements_ForeignPrefixNormalizedToOwningEpic(t *testing.T) {
	// A heading written with another epic's prefix still normalizes to the
	// epic that owns the PRD — the prefix form is presentation, not identity.
	prd := "### E2.R5: copied from elsewhere\n"
	reqs := ParseRequirements("E7", prd)
	if len(reqs) != 1 || reqs[0].ID != "E7.R5" {
		t.Errorf("ParseRequirements = %+v, want single E7.R5", reqs)
	}
}

func TestRequirementIDs_ParseOrder(t *testing.T) {
	prd := "### R3: c\n### R1: a\n### R2: b\n"
	ids := RequirementIDs("E1", prd)
	want := []string{"E1.R3", "E1.R1", "E1.R2"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}
