// Package lint contains the deterministic text-normalization and structural
// validation pass every proposal goes through before it is persisted.
// Linting repairs what it can and Validate reports the rest. Nothing in
// this package ever returns an error.
package lint

import (
	"encoding/json"
	"log"
	"regexp"
	"strings"
	"time"

	"propdesk/api/internal/proposal"
)

// MaxParagraphs is the hard upper bound on comments paragraphs. Anything
// past it is truncated, not rejected.
const MaxParagraphs = 5

// MinParagraphs is the structural minimum Validate enforces.
const MinParagraphs = 2

var (
	dashReplacer = strings.NewReplacer("—", "-", "–", "-")
	reNewlines   = regexp.MustCompile(`\n{3,}`)
	reSpaceRuns  = regexp.MustCompile(`[ \t]+`)
)

// CleanText normalizes a single string: em and en dashes become plain
// hyphens, runs of 3+ newlines collapse to exactly 2, runs of spaces and
// tabs collapse to one space, and leading/trailing whitespace is trimmed.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = dashReplacer.Replace(s)
	s = reNewlines.ReplaceAllString(s, "\n\n")
	s = reSpaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ContainsDashArtifact reports whether s still carries an em or en dash.
// Exposed for callers that want a quick check without a full lint pass.
func ContainsDashArtifact(s string) bool {
	return strings.ContainsRune(s, '—') || strings.ContainsRune(s, '–')
}

// LintComments cleans every string field of a comments block, drops
// paragraphs that are empty after cleaning, truncates to MaxParagraphs, and
// strips the leading hyphen a removed em dash tends to leave on the signoff.
func LintComments(c proposal.CommentsBlock) proposal.CommentsBlock {
	out := c
	out.Heading = CleanText(c.Heading)
	out.GreetingLine = CleanText(c.GreetingLine)
	out.Signoff = cleanSignoff(c.Signoff)

	paragraphs := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		cleaned := CleanText(p)
		if cleaned == "" {
			continue
		}
		paragraphs = append(paragraphs, cleaned)
	}
	if len(paragraphs) > MaxParagraphs {
		log.Printf("lint: comments block has %d paragraphs, truncating to %d", len(paragraphs), MaxParagraphs)
		paragraphs = paragraphs[:MaxParagraphs]
	}
	out.Paragraphs = paragraphs
	return out
}

func cleanSignoff(s string) string {
	cleaned := CleanText(s)
	// "— Kathryn" arrives as "- Kathryn" after dash substitution
	for strings.HasPrefix(cleaned, "-") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "-"))
	}
	return cleaned
}

// LintProposal returns a cleaned copy of the document with UpdatedAt set to
// now. Idempotent: linting an already-linted document with the same
// timestamp yields an identical document.
func LintProposal(p *proposal.Proposal, now time.Time) *proposal.Proposal {
	out := p.Clone()

	out.Cover.Title = CleanText(out.Cover.Title)
	out.Cover.BrandName = CleanText(out.Cover.BrandName)
	out.Cover.PreparedBy = CleanText(out.Cover.PreparedBy)
	out.Cover.PreparedDate = CleanText(out.Cover.PreparedDate)
	out.Cover.ClientName = CleanText(out.Cover.ClientName)
	out.Cover.Organization = CleanText(out.Cover.Organization)
	out.Cover.ClientEmail = CleanText(out.Cover.ClientEmail)

	out.Comments = LintComments(out.Comments)

	for i := range out.Services {
		svc := &out.Services[i]
		svc.Template.DisplayName = CleanText(svc.Template.DisplayName)
		svc.Template.Timeline = CleanText(svc.Template.Timeline)
		svc.Template.Outcome = CleanText(svc.Template.Outcome)
		for j := range svc.Template.Subsections {
			sub := &svc.Template.Subsections[j]
			sub.Title = CleanText(sub.Title)
			sub.BodyMarkdown = CleanText(sub.BodyMarkdown)
		}
		for k, v := range svc.Overrides {
			svc.Overrides[k] = CleanText(v)
		}
	}

	for i := range out.Modules {
		out.Modules[i].Title = CleanText(out.Modules[i].Title)
		out.Modules[i].BodyMarkdown = CleanText(out.Modules[i].BodyMarkdown)
	}

	for i := range out.Terms.Clauses {
		out.Terms.Clauses[i].Title = CleanText(out.Terms.Clauses[i].Title)
		out.Terms.Clauses[i].Body = CleanText(out.Terms.Clauses[i].Body)
	}

	out.UpdatedAt = now
	return out
}

// Validation is the result of a structural completeness check.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateProposal checks the structural invariants a proposal must satisfy
// to be considered complete. All violations are collected, not just the
// first, and the document is never mutated. Callers decide whether failures
// are fatal; the house policy is that they block "complete", not saving a
// draft.
func ValidateProposal(p *proposal.Proposal) Validation {
	var errs []string

	if strings.TrimSpace(p.ID) == "" {
		errs = append(errs, "proposal id is required")
	}
	if strings.TrimSpace(p.Cover.Title) == "" {
		errs = append(errs, "cover must have a title")
	}
	if strings.TrimSpace(p.Cover.ClientName) == "" {
		errs = append(errs, "cover must have a client name")
	}
	if strings.TrimSpace(p.Cover.Organization) == "" {
		errs = append(errs, "cover must have a client organization")
	}

	nonEmpty := 0
	for _, para := range p.Comments.Paragraphs {
		if strings.TrimSpace(para) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < MinParagraphs {
		errs = append(errs, "comments should have at least 2 paragraphs")
	}

	if p.EnabledServiceCount() == 0 {
		errs = append(errs, "at least one service must be enabled")
	}
	if len(p.Terms.Clauses) == 0 {
		errs = append(errs, "terms must have at least one clause")
	}

	if serialized, err := json.Marshal(p); err == nil && ContainsDashArtifact(string(serialized)) {
		errs = append(errs, "document contains em or en dash characters")
	}

	if errs == nil {
		errs = []string{}
	}
	return Validation{Valid: len(errs) == 0, Errors: errs}
}
