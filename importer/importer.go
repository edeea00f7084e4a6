// Package importer turns document files into page-sized sections that can be
// stored as a book.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"book-manager/library"
)

// Document is the result of parsing one file.
type Document struct {
	// Title suggested by the file (a <title> tag, or the file name).
	Title    string
	Sections []library.Section
}

// Parser converts a file on disk into a Document.
type Parser interface {
	Parse(path string) (*Document, error)
}

// Options tune the parsers.
type Options struct {
	// PageSize caps the characters of one plain-text page.
	PageSize int
}

// SupportedExtensions lists file extensions that can be imported.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{PageSize: opts.PageSize}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupported checks if a file extension can be imported.
func IsSupported(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// File parses the file at path with the parser matching its extension.
// Sections without content are dropped.
func File(path string, opts Options) (*Document, error) {
	p, err := ForFile(path, opts)
	if err != nil {
		return nil, err
	}
	doc, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	doc.Sections = compact(doc.Sections)
	if doc.Title == "" {
		doc.Title = baseTitle(path)
	}
	return doc, nil
}

func openFile(path string) (*os.File, error) {
	return os.Open(filepath.Clean(path))
}

// baseTitle derives a title from a file name: "the_two-towers.txt" -> "the two-towers".
func baseTitle(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}

func compact(sections []library.Section) []library.Section {
	out := sections[:0]
	for _, s := range sections {
		s.Title = strings.TrimSpace(s.Title)
		s.Content = strings.TrimSpace(s.Content)
		if s.Content == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// sectionBuilder collects heading-delimited sections. Text before the first
// heading becomes an untitled section.
type sectionBuilder struct {
	sections []library.Section
	title    string
	text     strings.Builder
	open     bool
}

func (b *sectionBuilder) heading(title string) {
	b.flush()
	b.title = title
	b.open = true
}

func (b *sectionBuilder) paragraph(t string) {
	t = strings.TrimSpace(t)
	if t == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n\n")
	}
	b.text.WriteString(t)
}

func (b *sectionBuilder) flush() {
	if b.open || b.text.Len() > 0 {
		b.sections = append(b.sections, library.Section{Title: b.title, Content: b.text.String()})
	}
	b.title = ""
	b.text.Reset()
	b.open = false
}

func (b *sectionBuilder) done() []library.Section {
	b.flush()
	return b.sections
}
