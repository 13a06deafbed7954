package export

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/atlastravel/atlas/internal/domain"
)

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { max-width: 760px; margin: 2rem auto; padding: 0 1rem;
       font-family: -apple-system, "Segoe UI", sans-serif; line-height: 1.6; color: #1f2933; }
h1 { border-bottom: 2px solid #e4e7eb; padding-bottom: .3rem; }
h2 { margin-top: 2rem; color: #334e68; }
blockquote { border-left: 3px solid #9fb3c8; margin-left: 0; padding-left: 1rem; color: #52606d; }
li { margin: .25rem 0; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var htmlPage = template.Must(template.New("page").Parse(pageTemplate))

// HTML renders the itinerary as a standalone HTML page.
func HTML(it domain.Itinerary) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(Markdown(it)), &body); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}

	title := it.Destination.Name + " itinerary"
	var page bytes.Buffer
	err := htmlPage.Execute(&page, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return page.Bytes(), nil
}
