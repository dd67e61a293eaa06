/*
Package notify delivers the generated report by email.
*/
package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// RenderedMessage is an email ready for delivery.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// HTMLEmailRenderer renders the markdown report as a styled HTML email with a
// plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

type templateData struct {
	Title   string
	Content template.HTML
}

// Render converts the markdown report to HTML inside the styled page wrapper.
// The plain text alternative is the raw markdown.
func (r *HTMLEmailRenderer) Render(subject string, markdownBody string) (*RenderedMessage, error) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	body := markdown.ToHTML([]byte(markdownBody), p, renderer)

	var htmlBuf bytes.Buffer
	err := r.tmpl.Execute(&htmlBuf, templateData{
		Title:   subject,
		Content: template.HTML(body), //nolint:gosec // report HTML comes from our own markdown conversion
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    markdownBody,
		HTML:    htmlBuf.String(),
	}, nil
}
