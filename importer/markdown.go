package importer

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"book-manager/library"
)

// MarkdownParser handles Markdown files using goldmark. Every heading, at any
// level, starts a new page titled with the heading text.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(path string) (*Document, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sections, err := parseMarkdown(f)
	if err != nil {
		return nil, err
	}
	return &Document{Title: baseTitle(path), Sections: sections}, nil
}

func parseMarkdown(r io.Reader) ([]library.Section, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b sectionBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.heading(extractText(h, src))
			continue
		}
		b.paragraph(extractText(n, src))
	}
	return b.done(), nil
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		// Paragraph-like blocks keep their text in inline children instead.
		if n.HasChildren() && n.FirstChild().Type() == ast.TypeInline {
			lines = nil
		}
		for i := 0; lines != nil && i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(extractText(c, src))
	}
	return strings.TrimSpace(buf.String())
}
