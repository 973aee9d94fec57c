package lint

import (
	"bytes"
	"log"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"propdesk/api/internal/library"
	"propdesk/api/internal/proposal"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"em dash", "growth—fast", "growth-fast"},
		{"en dash", "2024–2025", "2024-2025"},
		{"space runs", "too   many    spaces", "too many spaces"},
		{"tabs", "tab\there", "tab here"},
		{"newline runs", "a\n\n\n\nb", "a\n\nb"},
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"trim", "  padded  ", "padded"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanTextCollapsesNewlineRuns(t *testing.T) {
	got := CleanText("a\n\n\n\n\nb")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("expected runs of 3+ newlines collapsed, got %q", got)
	}
}

func TestContainsDashArtifact(t *testing.T) {
	if !ContainsDashArtifact("an em—dash") {
		t.Error("expected em dash to be detected")
	}
	if !ContainsDashArtifact("an en–dash") {
		t.Error("expected en dash to be detected")
	}
	if ContainsDashArtifact("a plain - hyphen") {
		t.Error("plain hyphen should not be flagged")
	}
}

func TestLintCommentsDropsEmptyAndTruncates(t *testing.T) {
	c := proposal.CommentsBlock{
		Heading:      "Our  Thoughts",
		GreetingLine: "Hi Sara,",
		Paragraphs:   []string{"one", "  ", "two", "three", "four", "five", "six"},
		Signoff:      "— Kathryn",
	}
	out := LintComments(c)

	if out.Heading != "Our Thoughts" {
		t.Errorf("heading not cleaned: %q", out.Heading)
	}
	if len(out.Paragraphs) != MaxParagraphs {
		t.Fatalf("expected %d paragraphs, got %d", MaxParagraphs, len(out.Paragraphs))
	}
	if out.Paragraphs[1] != "two" {
		t.Errorf("empty paragraph should be dropped before truncation, got %v", out.Paragraphs)
	}
	if out.Signoff != "Kathryn" {
		t.Errorf("signoff should lose the dash prefix, got %q", out.Signoff)
	}
}

func TestLintCommentsLogsTruncation(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	LintComments(proposal.CommentsBlock{
		Paragraphs: []string{"one", "two", "three", "four", "five", "six"},
	})
	if !strings.Contains(buf.String(), "truncating to 5") {
		t.Errorf("truncation should be logged, got %q", buf.String())
	}

	buf.Reset()
	LintComments(proposal.CommentsBlock{Paragraphs: []string{"one", "two"}})
	if buf.Len() != 0 {
		t.Errorf("no log expected when under the limit, got %q", buf.String())
	}
}

func TestLintCommentsSignoffVariants(t *testing.T) {
	for _, in := range []string{"- Kathryn", "-- Kathryn", "—Kathryn", "Kathryn"} {
		if got := LintComments(proposal.CommentsBlock{Signoff: in}).Signoff; got != "Kathryn" {
			t.Errorf("Signoff %q -> %q, want Kathryn", in, got)
		}
	}
}

func testProposal() *proposal.Proposal {
	catalog := library.NewCatalog()
	return proposal.AssembleSkeleton(proposal.AssembleInput{
		OpportunityID:       "op-100",
		Brief:               proposal.ClientBrief{ClientName: "Sara Ortiz", Organization: "Ortiz Retail"},
		SelectedServiceKeys: []string{"marketing_machine", "seo_hosting"},
		BrandName:           "Propdesk Agency",
		PreparerName:        "Kathryn",
	}, catalog, time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC), nil)
}

func TestLintProposalRemovesAllDashes(t *testing.T) {
	doc := testProposal()
	doc.Comments.Paragraphs = []string{
		"We reviewed your goals—especially retention—and built this plan.",
		"Expect results within 2–3 months.",
	}
	doc.Cover.Title = "Growth—Fast"
	doc.Modules = append(doc.Modules, proposal.ModuleBlock{
		Key: "case_study", Title: "CASE—STUDY", BodyMarkdown: "A – B", Enabled: true,
	})

	now := time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)
	linted := LintProposal(doc, now)

	v := ValidateProposal(linted)
	for _, e := range v.Errors {
		if strings.Contains(e, "dash") {
			t.Fatalf("linted document still has dash artifacts: %v", v.Errors)
		}
	}
	if linted.Cover.Title != "Growth-Fast" {
		t.Errorf("cover title = %q", linted.Cover.Title)
	}
	if !linted.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", linted.UpdatedAt, now)
	}
}

func TestLintProposalCleansOverrides(t *testing.T) {
	doc := testProposal()
	if err := doc.UpdateServiceOverrides("marketing_machine", map[string]string{
		proposal.OverrideKey(1): "Custom copy—with a dash",
	}, time.Now()); err != nil {
		t.Fatal(err)
	}
	linted := LintProposal(doc, time.Now())
	got := linted.Service("marketing_machine").Overrides[proposal.OverrideKey(1)]
	if ContainsDashArtifact(got) {
		t.Errorf("override not cleaned: %q", got)
	}
}

func TestLintProposalIdempotent(t *testing.T) {
	doc := testProposal()
	doc.Comments.Paragraphs = []string{"First—paragraph.", "Second   paragraph."}

	now := time.Date(2025, 8, 12, 11, 0, 0, 0, time.UTC)
	once := LintProposal(doc, now)
	twice := LintProposal(once, now)

	if !reflect.DeepEqual(once, twice) {
		t.Error("linting twice with the same timestamp should be a no-op")
	}
}

func TestLintProposalDoesNotMutateInput(t *testing.T) {
	doc := testProposal()
	doc.Cover.Title = "Title—dash"
	_ = LintProposal(doc, time.Now())
	if doc.Cover.Title != "Title—dash" {
		t.Error("input document should not be mutated")
	}
}

func TestValidateProposalCollectsAllErrors(t *testing.T) {
	doc := &proposal.Proposal{}
	v := ValidateProposal(doc)
	if v.Valid {
		t.Fatal("empty proposal should not validate")
	}
	if len(v.Errors) < 3 {
		t.Errorf("expected every violation collected, got %v", v.Errors)
	}
}

func TestValidateProposalParagraphMinimum(t *testing.T) {
	doc := testProposal()
	doc.Comments.Paragraphs = []string{"only one paragraph"}
	v := ValidateProposal(doc)
	found := false
	for _, e := range v.Errors {
		if strings.Contains(e, "at least 2 paragraphs") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected paragraph minimum violation, got %v", v.Errors)
	}
}

func TestValidateProposalFreshSkeletonInvalid(t *testing.T) {
	// A skeleton has zero paragraphs until narrative or manual edits land.
	v := ValidateProposal(testProposal())
	if v.Valid {
		t.Error("fresh skeleton should fail validation on empty comments")
	}
}

func TestValidateProposalHappyPath(t *testing.T) {
	doc := testProposal()
	doc.Comments.Paragraphs = []string{"Thanks for walking us through your goals.", "Here is how we would start."}
	v := ValidateProposal(LintProposal(doc, time.Now()))
	if !v.Valid {
		t.Errorf("expected valid document, got errors %v", v.Errors)
	}
	if v.Errors == nil {
		t.Error("Errors must be empty slice, not nil")
	}
}

func TestValidateProposalRequiresEnabledService(t *testing.T) {
	doc := testProposal()
	doc.Comments.Paragraphs = []string{"Para one.", "Para two."}
	for _, svc := range []string{"marketing_machine", "seo_hosting"} {
		if err := doc.ToggleServiceEnabled(svc, false, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	v := ValidateProposal(doc)
	if v.Valid {
		t.Error("proposal with no enabled services should not validate")
	}
}
