// Package render turns an assembled proposal document into HTML, plain
// text, or PDF. Pure transforms over the document: rendering never mutates
// its input and never lints (input is assumed already linted).
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"propdesk/api/internal/library"
	"propdesk/api/internal/proposal"
)

// BodyHTML renders the proposal body fragment, without a document wrapper,
// for embedding. Sections come out in fixed document order: cover, comments,
// enabled services, enabled modules, itemized placeholder, terms, signature
// placeholder. Disabled services and modules are skipped entirely.
func BodyHTML(doc *proposal.Proposal) string {
	var out strings.Builder

	renderCoverHTML(&out, doc.Cover)
	renderCommentsHTML(&out, doc.Comments)

	for i := range doc.Services {
		svc := &doc.Services[i]
		if !svc.Enabled {
			continue
		}
		renderServiceHTML(&out, svc)
	}

	for _, mod := range doc.Modules {
		if !mod.Enabled {
			continue
		}
		out.WriteString(`<section class="module">` + "\n")
		if mod.Title != "" {
			fmt.Fprintf(&out, "<h2>%s</h2>\n", html.EscapeString(mod.Title))
		}
		out.WriteString(markdownToHTML(mod.BodyMarkdown))
		out.WriteString("</section>\n")
	}

	if doc.Itemized.Placeholder != "" {
		out.WriteString(`<section class="itemized">` + "\n")
		fmt.Fprintf(&out, "<p>%s</p>\n", html.EscapeString(doc.Itemized.Placeholder))
		out.WriteString("</section>\n")
	}

	renderTermsHTML(&out, doc)

	if doc.Signatures.Placeholder != "" {
		out.WriteString(`<section class="signatures">` + "\n")
		fmt.Fprintf(&out, "<p>%s</p>\n", html.EscapeString(doc.Signatures.Placeholder))
		out.WriteString("</section>\n")
	}

	return out.String()
}

func renderCoverHTML(out *strings.Builder, cover proposal.Cover) {
	out.WriteString(`<header class="cover">` + "\n")
	fmt.Fprintf(out, "<h1>%s</h1>\n", html.EscapeString(cover.Title))
	fmt.Fprintf(out, `<p class="client">Prepared for %s, %s</p>`+"\n",
		html.EscapeString(cover.ClientName), html.EscapeString(cover.Organization))
	fmt.Fprintf(out, `<p class="meta">%s | Prepared by %s | %s</p>`+"\n",
		html.EscapeString(cover.BrandName), html.EscapeString(cover.PreparedBy), html.EscapeString(cover.PreparedDate))
	out.WriteString("</header>\n")
}

func renderCommentsHTML(out *strings.Builder, c proposal.CommentsBlock) {
	out.WriteString(`<section class="comments">` + "\n")
	if c.Heading != "" {
		fmt.Fprintf(out, "<h2>%s</h2>\n", html.EscapeString(c.Heading))
	}
	if c.GreetingLine != "" {
		fmt.Fprintf(out, "<p>%s</p>\n", html.EscapeString(c.GreetingLine))
	}
	for _, para := range c.Paragraphs {
		fmt.Fprintf(out, "<p>%s</p>\n", html.EscapeString(para))
	}
	if c.Signoff != "" {
		fmt.Fprintf(out, `<p class="signoff">%s</p>`+"\n", html.EscapeString(c.Signoff))
	}
	out.WriteString("</section>\n")
}

func renderServiceHTML(out *strings.Builder, svc *proposal.ServiceBlock) {
	out.WriteString(`<section class="service">` + "\n")
	fmt.Fprintf(out, "<h2>%s</h2>\n", html.EscapeString(svc.Template.DisplayName))

	for _, sub := range svc.Template.Subsections {
		fmt.Fprintf(out, "<h3>%d. %s</h3>\n", sub.Number, html.EscapeString(sub.Title))
		out.WriteString(markdownToHTML(svc.ResolveSubsectionBody(sub)))
	}

	inv := svc.ResolveInvestment()
	if inv.RenderHint != "" {
		fmt.Fprintf(out, `<p class="investment"><strong>Investment:</strong> %s</p>`+"\n", html.EscapeString(inv.RenderHint))
	}
	if svc.Template.Timeline != "" {
		fmt.Fprintf(out, `<p class="timeline"><strong>Timeline:</strong> %s</p>`+"\n", html.EscapeString(svc.Template.Timeline))
	}
	if svc.Template.Outcome != "" {
		fmt.Fprintf(out, `<p class="outcome"><strong>Outcome:</strong> %s</p>`+"\n", html.EscapeString(svc.Template.Outcome))
	}
	out.WriteString("</section>\n")
}

func renderTermsHTML(out *strings.Builder, doc *proposal.Proposal) {
	if len(doc.Terms.Clauses) == 0 {
		return
	}
	out.WriteString(`<section class="terms">` + "\n")
	out.WriteString("<h2>Terms and Conditions</h2>\n")
	for _, idx := range clauseOrder(doc.Terms.Clauses) {
		clause := doc.Terms.Clauses[idx]
		if clause.Title != "" {
			fmt.Fprintf(out, "<h3>%d. %s</h3>\n", clause.Number, html.EscapeString(clause.Title))
		} else {
			fmt.Fprintf(out, "<h3>%d.</h3>\n", clause.Number)
		}
		fmt.Fprintf(out, "<p>%s</p>\n", html.EscapeString(clause.Body))
	}
	out.WriteString("</section>\n")
}

// clauseOrder returns clause indexes sorted by clause number, so terms come
// out numerically ordered regardless of the stored slice order.
func clauseOrder(clauses []library.Clause) []int {
	order := make([]int, len(clauses))
	for i := range clauses {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return clauses[order[a]].Number < clauses[order[b]].Number
	})
	return order
}

// PlainText renders the proposal for copy-paste into the CRM: markup
// stripped, paragraph and bullet line breaks preserved.
func PlainText(doc *proposal.Proposal) string {
	var out strings.Builder

	out.WriteString(doc.Cover.Title + "\n")
	fmt.Fprintf(&out, "Prepared for %s, %s\n", doc.Cover.ClientName, doc.Cover.Organization)
	fmt.Fprintf(&out, "%s | Prepared by %s | %s\n\n", doc.Cover.BrandName, doc.Cover.PreparedBy, doc.Cover.PreparedDate)

	if doc.Comments.Heading != "" {
		out.WriteString(doc.Comments.Heading + "\n\n")
	}
	if doc.Comments.GreetingLine != "" {
		out.WriteString(doc.Comments.GreetingLine + "\n\n")
	}
	for _, para := range doc.Comments.Paragraphs {
		out.WriteString(para + "\n\n")
	}
	if doc.Comments.Signoff != "" {
		out.WriteString(doc.Comments.Signoff + "\n\n")
	}

	for i := range doc.Services {
		svc := &doc.Services[i]
		if !svc.Enabled {
			continue
		}
		out.WriteString(svc.Template.DisplayName + "\n\n")
		for _, sub := range svc.Template.Subsections {
			fmt.Fprintf(&out, "%d. %s\n", sub.Number, sub.Title)
			out.WriteString(markdownToPlain(svc.ResolveSubsectionBody(sub)) + "\n\n")
		}
		inv := svc.ResolveInvestment()
		if inv.RenderHint != "" {
			fmt.Fprintf(&out, "Investment: %s\n", inv.RenderHint)
		}
		if svc.Template.Timeline != "" {
			fmt.Fprintf(&out, "Timeline: %s\n", svc.Template.Timeline)
		}
		if svc.Template.Outcome != "" {
			fmt.Fprintf(&out, "Outcome: %s\n", svc.Template.Outcome)
		}
		out.WriteString("\n")
	}

	for _, mod := range doc.Modules {
		if !mod.Enabled {
			continue
		}
		if mod.Title != "" {
			out.WriteString(mod.Title + "\n\n")
		}
		out.WriteString(markdownToPlain(mod.BodyMarkdown) + "\n\n")
	}

	if doc.Itemized.Placeholder != "" {
		out.WriteString(doc.Itemized.Placeholder + "\n\n")
	}

	if len(doc.Terms.Clauses) > 0 {
		out.WriteString("Terms and Conditions\n\n")
		for _, idx := range clauseOrder(doc.Terms.Clauses) {
			clause := doc.Terms.Clauses[idx]
			if clause.Title != "" {
				fmt.Fprintf(&out, "%d. %s\n", clause.Number, clause.Title)
			} else {
				fmt.Fprintf(&out, "%d.\n", clause.Number)
			}
			out.WriteString(clause.Body + "\n\n")
		}
	}

	if doc.Signatures.Placeholder != "" {
		out.WriteString(doc.Signatures.Placeholder + "\n")
	}

	return strings.TrimRight(out.String(), "\n") + "\n"
}
