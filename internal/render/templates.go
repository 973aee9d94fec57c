package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var proposalTemplate *template.Template

func init() {
	funcMap := template.FuncMap{
		"lower": strings.ToLower,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s)
		},
	}

	templateContent, err := templateFS.ReadFile("templates/proposal.html")
	if err != nil {
		// Fallback to built-in template if file not found
		proposalTemplate = template.Must(template.New("proposal").Funcs(funcMap).Parse(fallbackTemplate))
		return
	}
	proposalTemplate = template.Must(template.New("proposal").Funcs(funcMap).Parse(string(templateContent)))
}

type templateData struct {
	Title    string
	BodyHTML template.HTML
}

// wrapDocument puts the body fragment inside the full HTML document shell.
func wrapDocument(title, bodyHTML string) (string, error) {
	var buf bytes.Buffer
	err := proposalTemplate.Execute(&buf, templateData{
		Title:    title,
		BodyHTML: template.HTML(bodyHTML),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

const fallbackTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
</head>
<body>
{{.BodyHTML}}
</body>
</html>`
