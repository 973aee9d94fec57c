package render

import (
	"errors"
	"fmt"

	"propdesk/api/internal/proposal"
)

// Format selects a render output.
type Format string

const (
	FormatHTML  Format = "html"
	FormatBody  Format = "body"
	FormatPlain Format = "plain"
	FormatPDF   Format = "pdf"
)

// Result is a rendered artifact ready for the HTTP layer.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}

// ErrPDFDependencyMissing indicates the headless browser needed for PDF
// output is not installed.
var ErrPDFDependencyMissing = errors.New("render pdf dependency missing")

// ErrUnsupportedFormat indicates an unknown render format was requested.
var ErrUnsupportedFormat = errors.New("unsupported render format")

// HTML renders the full standalone HTML document.
func HTML(doc *proposal.Proposal) (string, error) {
	return wrapDocument(doc.Cover.Title, BodyHTML(doc))
}

// Render produces the requested format. PDF shells out to headless Chrome
// and is the only format that can fail for environmental reasons.
func Render(doc *proposal.Proposal, format Format) (*Result, error) {
	switch format {
	case FormatHTML:
		page, err := HTML(doc)
		if err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return &Result{
			Data:     []byte(page),
			Filename: sanitizeFilename(doc.Cover.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatBody:
		return &Result{
			Data:     []byte(BodyHTML(doc)),
			Filename: sanitizeFilename(doc.Cover.Title) + ".html",
			MimeType: "text/html; charset=utf-8",
		}, nil
	case FormatPlain:
		return &Result{
			Data:     []byte(PlainText(doc)),
			Filename: sanitizeFilename(doc.Cover.Title) + ".txt",
			MimeType: "text/plain; charset=utf-8",
		}, nil
	case FormatPDF:
		page, err := HTML(doc)
		if err != nil {
			return nil, fmt.Errorf("render html for pdf: %w", err)
		}
		return exportPDF(page, doc.Cover.Title)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// sanitizeFilename creates a safe filename from a proposal title.
func sanitizeFilename(title string) string {
	result := ""
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result += string(r)
		case r == ' ':
			result += "-"
		case r == '-', r == '_':
			result += string(r)
		}
	}
	if len(result) > 50 {
		result = result[:50]
	}
	if result == "" {
		result = "proposal"
	}
	return result
}
