package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"propdesk/api/internal/library"
	"propdesk/api/internal/proposal"
)

func testProposal(t *testing.T) *proposal.Proposal {
	t.Helper()
	doc := proposal.AssembleSkeleton(proposal.AssembleInput{
		OpportunityID:       "op-9001",
		Brief:               proposal.ClientBrief{ClientName: "Sara Ortiz", Organization: "Ortiz Retail"},
		SelectedServiceKeys: []string{"marketing_machine", "seo_hosting"},
		BrandName:           "Propdesk Agency",
		PreparerName:        "Kathryn",
	}, library.NewCatalog(), time.Date(2025, 8, 12, 9, 0, 0, 0, time.UTC), nil)
	doc.Comments.Paragraphs = []string{"Thanks for the call last week.", "Here is the plan we put together."}
	return doc
}

func TestBodyHTMLSectionOrder(t *testing.T) {
	doc := testProposal(t)
	body := BodyHTML(doc)

	order := []string{
		`<header class="cover">`,
		`<section class="comments">`,
		`<section class="service">`,
		`<section class="itemized">`,
		`<section class="terms">`,
		`<section class="signatures">`,
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(body, marker)
		if idx < 0 {
			t.Fatalf("missing section %q", marker)
		}
		if idx < last {
			t.Errorf("section %q out of order", marker)
		}
		last = idx
	}
}

func TestBodyHTMLCoverAndComments(t *testing.T) {
	doc := testProposal(t)
	body := BodyHTML(doc)

	if !strings.Contains(body, "<h1>Marketing Proposal for Ortiz Retail</h1>") {
		t.Error("cover title missing")
	}
	if !strings.Contains(body, "Prepared for Sara Ortiz, Ortiz Retail") {
		t.Error("client line missing")
	}
	if !strings.Contains(body, "<p>Hi Sara,</p>") {
		t.Error("greeting missing")
	}
	if !strings.Contains(body, "<p>Thanks for the call last week.</p>") {
		t.Error("comments paragraph missing")
	}
	if !strings.Contains(body, `<p class="signoff">Kathryn</p>`) {
		t.Error("signoff missing")
	}
}

func TestBodyHTMLSkipsDisabledServices(t *testing.T) {
	doc := testProposal(t)
	if err := doc.ToggleServiceEnabled("seo_hosting", false, time.Now()); err != nil {
		t.Fatal(err)
	}

	body := BodyHTML(doc)
	seo := doc.Service("seo_hosting").Template.DisplayName
	if strings.Contains(body, seo) {
		t.Errorf("disabled service %q should not render", seo)
	}
	mm := doc.Service("marketing_machine").Template.DisplayName
	if !strings.Contains(body, mm) {
		t.Errorf("enabled service %q should render", mm)
	}
}

func TestBodyHTMLUsesOverrides(t *testing.T) {
	doc := testProposal(t)
	svc := doc.Service("marketing_machine")
	sub := svc.Template.Subsections[0]
	if err := doc.UpdateServiceOverrides("marketing_machine",
		map[string]string{proposal.OverrideKey(sub.Number): "Client specific body for this engagement."},
		time.Now()); err != nil {
		t.Fatal(err)
	}

	body := BodyHTML(doc)
	if !strings.Contains(body, "Client specific body for this engagement.") {
		t.Error("override body should render")
	}
	if strings.Contains(body, sub.BodyMarkdown) {
		t.Error("template body should be replaced by the override")
	}
}

func TestBodyHTMLNumbersSubsections(t *testing.T) {
	doc := testProposal(t)
	body := BodyHTML(doc)
	sub := doc.Service("marketing_machine").Template.Subsections[0]
	if !strings.Contains(body, "<h3>1. "+sub.Title+"</h3>") {
		t.Errorf("expected numbered subsection heading for %q", sub.Title)
	}
}

func TestBodyHTMLTermsSortedByNumber(t *testing.T) {
	doc := testProposal(t)
	// Shuffle clauses; render must emit them by clause number.
	doc.Terms.Clauses[0], doc.Terms.Clauses[len(doc.Terms.Clauses)-1] =
		doc.Terms.Clauses[len(doc.Terms.Clauses)-1], doc.Terms.Clauses[0]

	body := BodyHTML(doc)
	first := strings.Index(body, "<h3>1. ")
	second := strings.Index(body, "<h3>2. ")
	if first < 0 || second < 0 || second < first {
		t.Error("terms clauses should render in numeric order")
	}
}

func TestPlainTextTermsSortedByNumber(t *testing.T) {
	doc := testProposal(t)
	// Shuffle clauses; plain text must emit them by clause number too.
	doc.Terms.Clauses[0], doc.Terms.Clauses[len(doc.Terms.Clauses)-1] =
		doc.Terms.Clauses[len(doc.Terms.Clauses)-1], doc.Terms.Clauses[0]

	text := PlainText(doc)
	terms := text[strings.Index(text, "Terms and Conditions"):]
	prev := -1
	for n := 1; n <= len(doc.Terms.Clauses); n++ {
		idx := strings.Index(terms, fmt.Sprintf("\n%d. ", n))
		if idx < 0 {
			t.Fatalf("clause %d missing from plain text terms", n)
		}
		if idx < prev {
			t.Errorf("clause %d rendered before clause %d", n, n-1)
		}
		prev = idx
	}
}

func TestBodyHTMLEscapesContent(t *testing.T) {
	doc := testProposal(t)
	doc.Comments.Paragraphs = []string{"Numbers <like> 1 & 2.", "Second paragraph."}
	body := BodyHTML(doc)
	if strings.Contains(body, "<like>") {
		t.Error("paragraph content must be escaped")
	}
	if !strings.Contains(body, "Numbers &lt;like&gt; 1 &amp; 2.") {
		t.Error("escaped paragraph missing")
	}
}

func TestMarkdownToHTML(t *testing.T) {
	md := "## Heading\n\nIntro line with **bold** text.\n\n- first\n- second"
	got := markdownToHTML(md)

	if !strings.Contains(got, "<h3>Heading</h3>") {
		t.Errorf("heading not expanded: %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("bold not expanded: %q", got)
	}
	if !strings.Contains(got, "<ul>\n<li>first</li>\n<li>second</li>\n</ul>") {
		t.Errorf("bullets not expanded: %q", got)
	}
}

func TestMarkdownToHTMLEscapesFirst(t *testing.T) {
	got := markdownToHTML("a <script> tag & **bold**")
	if strings.Contains(got, "<script>") {
		t.Error("raw HTML must not pass through")
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("expected escaped tag, got %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Error("bold should still expand after escaping")
	}
}

func TestMarkdownToPlain(t *testing.T) {
	md := "## Heading\n\nBody with **bold**.\n- first\n- second"
	got := markdownToPlain(md)
	if strings.Contains(got, "**") || strings.Contains(got, "##") {
		t.Errorf("markup should be stripped: %q", got)
	}
	if !strings.Contains(got, "- first\n- second") {
		t.Errorf("bullet line breaks should survive: %q", got)
	}
}

func TestPlainText(t *testing.T) {
	doc := testProposal(t)
	text := PlainText(doc)

	if strings.Contains(text, "<") {
		t.Error("plain text must carry no markup")
	}
	if !strings.Contains(text, "Marketing Proposal for Ortiz Retail") {
		t.Error("title missing")
	}
	if !strings.Contains(text, "Hi Sara,") {
		t.Error("greeting missing")
	}
	if !strings.Contains(text, "Terms and Conditions") {
		t.Error("terms heading missing")
	}
	if !strings.HasSuffix(text, "\n") {
		t.Error("plain text should end with a single trailing newline")
	}
}

func TestHTMLWrapsDocument(t *testing.T) {
	doc := testProposal(t)
	page, err := HTML(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(page, "<!DOCTYPE html>") && !strings.Contains(page, "<html") {
		t.Error("expected a full HTML document")
	}
	if !strings.Contains(page, "Marketing Proposal for Ortiz Retail") {
		t.Error("document title missing")
	}
}

func TestRenderFormats(t *testing.T) {
	doc := testProposal(t)

	cases := []struct {
		format Format
		mime   string
	}{
		{FormatHTML, "text/html; charset=utf-8"},
		{FormatBody, "text/html; charset=utf-8"},
		{FormatPlain, "text/plain; charset=utf-8"},
	}
	for _, tc := range cases {
		result, err := Render(doc, tc.format)
		if err != nil {
			t.Fatalf("Render(%s) failed: %v", tc.format, err)
		}
		if result.MimeType != tc.mime {
			t.Errorf("Render(%s) mime = %q, want %q", tc.format, result.MimeType, tc.mime)
		}
		if len(result.Data) == 0 {
			t.Errorf("Render(%s) produced no output", tc.format)
		}
	}

	if _, err := Render(doc, Format("docx")); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename("Marketing Proposal for Ortiz Retail!")
	if strings.ContainsAny(got, " !") {
		t.Errorf("filename not sanitized: %q", got)
	}
}
