package importer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"book-manager/library"
)

// TextParser handles plain text files. Paragraphs are packed into pages of at
// most PageSize characters; a paragraph longer than that is split.
type TextParser struct {
	PageSize int
}

func (p *TextParser) Parse(path string) (*Document, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sections, err := p.parse(f)
	if err != nil {
		return nil, err
	}
	return &Document{Title: baseTitle(path), Sections: sections}, nil
}

func (p *TextParser) parse(r io.Reader) ([]library.Section, error) {
	size := p.PageSize
	if size <= 0 {
		size = 1500
	}

	paragraphs, err := readParagraphs(r)
	if err != nil {
		return nil, err
	}

	var (
		sections []library.Section
		page     strings.Builder
		runes    int
	)
	emit := func() {
		if page.Len() > 0 {
			sections = append(sections, library.Section{Content: page.String()})
			page.Reset()
			runes = 0
		}
	}

	for _, para := range paragraphs {
		for _, chunk := range splitRunes(para, size) {
			n := utf8.RuneCountInString(chunk)
			if runes > 0 && runes+2+n > size {
				emit()
			}
			if runes > 0 {
				page.WriteString("\n\n")
				runes += 2
			}
			page.WriteString(chunk)
			runes += n
		}
	}
	emit()
	return sections, nil
}

func readParagraphs(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs, scanner.Err()
}

// splitRunes cuts s into chunks of at most size runes.
func splitRunes(s string, size int) []string {
	if utf8.RuneCountInString(s) <= size {
		return []string{s}
	}
	runes := []rune(s)
	chunks := make([]string, 0, len(runes)/size+1)
	for i := 0; i < len(runes); i += size {
		end := min(i+size, len(runes))
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
