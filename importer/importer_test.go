package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "*importer.TextParser"},
		{"a.MD", "*importer.MarkdownParser"},
		{"a.htm", "*importer.HTMLParser"},
		{"a.pdf", "*importer.PDFParser"},
		{"a.docx", "*importer.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name, Options{})
		if err != nil {
			t.Fatalf("ForFile(%q): %v", tt.name, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("ForFile(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := ForFile("a.epub", Options{}); err == nil {
		t.Errorf("expected unsupported extension error")
	}
	if IsSupported("cover.png") || !IsSupported("NOTES.TXT") {
		t.Errorf("IsSupported mismatch")
	}
}

func typeName(p Parser) string {
	switch p.(type) {
	case *TextParser:
		return "*importer.TextParser"
	case *MarkdownParser:
		return "*importer.MarkdownParser"
	case *HTMLParser:
		return "*importer.HTMLParser"
	case *PDFParser:
		return "*importer.PDFParser"
	case *DOCXParser:
		return "*importer.DOCXParser"
	}
	return "unknown"
}

func TestTextPacksParagraphs(t *testing.T) {
	path := writeFile(t, "the_short_story.txt", "one\ntwo\n\nthree\n\n\nfour\n")
	doc, err := File(path, Options{PageSize: 1500})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if doc.Title != "the short story" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Sections) != 1 {
		t.Fatalf("want 1 page, got %d", len(doc.Sections))
	}
	if want := "one\ntwo\n\nthree\n\nfour"; doc.Sections[0].Content != want {
		t.Errorf("Content = %q, want %q", doc.Sections[0].Content, want)
	}
}

func TestTextRespectsPageSize(t *testing.T) {
	para := strings.Repeat("é", 25)
	content := para + "\n\n" + para + "\n\n" + strings.Repeat("x", 70)
	p := &TextParser{PageSize: 30}
	sections, err := p.parse(strings.NewReader(content))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// 25 | 25 | 30 | 30 | 10
	if len(sections) != 5 {
		t.Fatalf("want 5 pages, got %d", len(sections))
	}
	for i, s := range sections {
		if n := utf8.RuneCountInString(s.Content); n > 30 {
			t.Errorf("page %d has %d runes", i, n)
		}
	}
	if sections[4].Content != strings.Repeat("x", 10) {
		t.Errorf("last page = %q", sections[4].Content)
	}
}

func TestMarkdownSplitsOnHeadings(t *testing.T) {
	src := `Intro text before headings.

# Chapter One

It was *bright*.

Second paragraph.

## A Scene

- apples
- pears

# Empty Chapter

# Chapter Two

` + "```\ncode here\n```\n"

	path := writeFile(t, "novel.md", src)
	doc, err := File(path, Options{})
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	want := []struct{ title, contains string }{
		{"", "Intro text before headings."},
		{"Chapter One", "It was bright."},
		{"A Scene", "apples"},
		{"Chapter Two", "code here"},
	}
	if len(doc.Sections) != len(want) {
		t.Fatalf("want %d sections, got %d: %+v", len(want), len(doc.Sections), doc.Sections)
	}
	for i, w := range want {
		s := doc.Sections[i]
		if s.Title != w.title {
			t.Errorf("section %d title = %q, want %q", i, s.Title, w.title)
		}
		if !strings.Contains(s.Content, w.contains) {
			t.Errorf("section %d content = %q, want it to contain %q", i, s.Content, w.contains)
		}
	}
	if strings.Count(doc.Sections[1].Content, "It was") != 1 {
		t.Errorf("paragraph text duplicated: %q", doc.Sections[1].Content)
	}
	if !strings.Contains(doc.Sections[1].Content, "Second paragraph.") {
		t.Errorf("second paragraph missing: %q", doc.Sections[1].Content)
	}
}

func TestHTMLSplitsOnHeadings(t *testing.T) {
	src := `<html><head><title>Field Notes</title><style>p{}</style></head>
<body>
<nav>skip me</nav>
<h1>Day 1</h1>
<p>Walked   to the
river.</p>
<h2>Evening</h2>
<ul><li>fire</li><li>stars</li></ul>
<script>var x = 1;</script>
</body></html>`

	path := writeFile(t, "notes.html", src)
	doc, err := File(path, Options{})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if doc.Title != "Field Notes" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("want 2 sections, got %d: %+v", len(doc.Sections), doc.Sections)
	}
	if doc.Sections[0].Title != "Day 1" || doc.Sections[0].Content != "Walked to the river." {
		t.Errorf("section 0 = %+v", doc.Sections[0])
	}
	if doc.Sections[1].Title != "Evening" || doc.Sections[1].Content != "fire\n\nstars" {
		t.Errorf("section 1 = %+v", doc.Sections[1])
	}
	for _, s := range doc.Sections {
		if strings.Contains(s.Content, "skip me") || strings.Contains(s.Content, "var x") {
			t.Errorf("non-content leaked: %q", s.Content)
		}
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope.txt"), Options{}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
