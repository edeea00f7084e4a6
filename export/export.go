// Package export renders a book and its pages for use outside bookmgr.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"book-manager/library"
)

// Format names an output encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Formats lists the accepted values for --format.
var Formats = []Format{FormatYAML, FormatJSON, FormatHTML}

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON, FormatHTML:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want yaml, json or html)", s)
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Bundle is the document written by the yaml and json encoders.
type Bundle struct {
	Book  library.Book    `json:"book" yaml:"book"`
	Pages []*library.Page `json:"pages" yaml:"pages"`
}

// Write encodes book and pages to w.
func Write(w io.Writer, format Format, book *library.Book, pages []*library.Page) error {
	if book == nil {
		return fmt.Errorf("export: nil book")
	}
	if pages == nil {
		pages = []*library.Page{}
	}
	b := Bundle{Book: *book, Pages: pages}

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(b); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatHTML:
		return writeHTML(w, b)
	}
	return fmt.Errorf("unknown export format %q", format)
}

type htmlPage struct {
	Anchor string
	Title  string
	Body   template.HTML
}

var pageTemplate = template.Must(template.New("book").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Georgia, serif; max-width: 44em; margin: 2em auto; line-height: 1.5; }
nav ol { columns: 3; }
section { border-top: 1px solid #ccc; margin-top: 2em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Pages}}
<nav><ol>
{{- range .Pages}}
<li><a href="#{{.Anchor}}">{{.Title}}</a></li>
{{- end}}
</ol></nav>
{{- range .Pages}}
<section id="{{.Anchor}}">
<h2>{{.Title}}</h2>
{{.Body}}
</section>
{{- end}}
{{- else}}
<p>This book has no pages.</p>
{{- end}}
</body>
</html>
`))

// writeHTML renders a standalone page. Page content is treated as Markdown;
// raw HTML inside it is dropped by goldmark's default renderer.
func writeHTML(w io.Writer, b Bundle) error {
	md := goldmark.New()
	data := struct {
		Title string
		Pages []htmlPage
	}{Title: b.Book.Title}

	for _, p := range b.Pages {
		var buf bytes.Buffer
		if err := md.Convert([]byte(p.Content), &buf); err != nil {
			return fmt.Errorf("render page %d: %w", p.Number, err)
		}
		data.Pages = append(data.Pages, htmlPage{
			Anchor: fmt.Sprintf("page-%d", p.ID),
			Title:  p.DisplayTitle(),
			Body:   template.HTML(buf.String()), //nolint:gosec // goldmark output with unsafe HTML disabled
		})
	}
	return pageTemplate.Execute(w, data)
}
