package library

import "fmt"

// Book represents a named collection of pages with an optional cover image.
// The cover is referenced by path only; bookmgr never copies the file.
type Book struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	CoverPath string `json:"cover_path,omitempty" yaml:"cover_path,omitempty"`
}

// HasCover reports whether a cover image path was recorded.
func (b *Book) HasCover() bool { return b.CoverPath != "" }

// Page is a unit of text content belonging to exactly one book.
// Number is assigned at creation and never resequenced.
type Page struct {
	ID      int64  `json:"id" yaml:"id"`
	Number  int    `json:"number" yaml:"number"`
	Content string `json:"content" yaml:"content"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	BookID  int64  `json:"book_id" yaml:"book_id"`
}

// DisplayTitle returns the page title, falling back to "Page N".
func (p *Page) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return fmt.Sprintf("Page %d", p.Number)
}

// BookSummary is a book plus its page count, used for listings.
type BookSummary struct {
	Book
	PageCount int `json:"page_count" yaml:"page_count"`
}

// Section is a titled chunk of text ready to be stored as a page.
type Section struct {
	Title   string
	Content string
}
