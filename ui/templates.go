package ui

import (
	"bytes"
	"html/template"
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"lifeexp/internal/errors"
)

func parseTemplates(files fs.FS) (*template.Template, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
	}
	tmpl, err := template.New("").Funcs(funcMap).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse UI templates")
	}
	return tmpl, nil
}

// renderMarkdown turns a model card into HTML. Raw HTML in the card is
// dropped.
func renderMarkdown(md string) template.HTML {
	if md == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(md), p, r))
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	// render to a buffer so a failing template never sends a partial page
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.log.Error("template error for %s: %v", templateName, err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.log.Error("error writing template response: %v", err)
	}
}
