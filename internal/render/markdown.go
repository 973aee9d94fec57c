package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// The content library is controlled, so only a deliberate markdown subset is
// expanded: **bold**, single-line #/##/### headings, and "- " bullets.
// Anything else passes through as literal text.

var reBold = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// markdownToHTML expands the markdown subset into HTML. Input text is
// escaped first; only the expansion itself introduces tags.
func markdownToHTML(md string) string {
	var out strings.Builder
	var paragraph []string
	inList := false

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(strings.Join(paragraph, "<br>"))
		out.WriteString("</p>\n")
		paragraph = nil
	}
	closeList := func() {
		if inList {
			out.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushParagraph()
			closeList()
		case strings.HasPrefix(trimmed, "### "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&out, "<h4>%s</h4>\n", inlineHTML(strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&out, "<h3>%s</h3>\n", inlineHTML(strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			flushParagraph()
			closeList()
			fmt.Fprintf(&out, "<h2>%s</h2>\n", inlineHTML(strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- "):
			flushParagraph()
			if !inList {
				out.WriteString("<ul>\n")
				inList = true
			}
			fmt.Fprintf(&out, "<li>%s</li>\n", inlineHTML(strings.TrimPrefix(trimmed, "- ")))
		default:
			closeList()
			paragraph = append(paragraph, inlineHTML(trimmed))
		}
	}
	flushParagraph()
	closeList()
	return out.String()
}

// inlineHTML escapes text and expands **bold** spans.
func inlineHTML(text string) string {
	escaped := html.EscapeString(text)
	return reBold.ReplaceAllString(escaped, "<strong>$1</strong>")
}

// markdownToPlain strips the markdown subset, keeping paragraph and bullet
// line breaks so the text survives a CRM paste.
func markdownToPlain(md string) string {
	var lines []string
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "### "):
			trimmed = strings.TrimPrefix(trimmed, "### ")
		case strings.HasPrefix(trimmed, "## "):
			trimmed = strings.TrimPrefix(trimmed, "## ")
		case strings.HasPrefix(trimmed, "# "):
			trimmed = strings.TrimPrefix(trimmed, "# ")
		}
		lines = append(lines, stripBold(trimmed))
	}
	return strings.Join(lines, "\n")
}

func stripBold(text string) string {
	return reBold.ReplaceAllString(text, "$1")
}
