package importer

import (
	"fmt"

	pdflib "github.com/ledongthuc/pdf"

	"book-manager/library"
)

// PDFParser handles PDF files. Each PDF page with text becomes one page.
type PDFParser struct{}

func (p *PDFParser) Parse(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var sections []library.Section
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		sections = append(sections, library.Section{Content: text})
	}
	return &Document{Title: baseTitle(path), Sections: sections}, nil
}
