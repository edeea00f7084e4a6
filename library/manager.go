package library

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LibraryManager is a thin façade over the Database, keeping CLI and TUI code
// simple. Every mutation is logged.
type LibraryManager struct {
	db  *Database
	log *slog.Logger
}

// NewLibraryManager opens (or creates) the SQLite database at dbPath.
// A nil logger falls back to slog.Default().
func NewLibraryManager(dbPath string, logger *slog.Logger) (*LibraryManager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", dbPath)
	return &LibraryManager{db: db, log: logger}, nil
}

// Close closes the underlying database.
func (lm *LibraryManager) Close() error { return lm.db.Close() }

// ------------------ Book helpers ------------------

// AddBook creates a book. A cover path that does not point at a readable file
// is still recorded; the user is expected to keep it stable.
func (lm *LibraryManager) AddBook(title, coverPath string) (*Book, error) {
	book, err := lm.db.CreateBook(title, coverPath)
	if err != nil {
		lm.log.Warn("add book failed", "title", title, "error", err)
		return nil, err
	}
	if book.HasCover() && !CoverExists(book.CoverPath) {
		lm.log.Warn("cover image not found", "book_id", book.ID, "path", book.CoverPath)
	}
	lm.log.Info("book added", "book_id", book.ID, "title", book.Title)
	return book, nil
}

func (lm *LibraryManager) GetBook(id int64) (*Book, error)            { return lm.db.GetBook(id) }
func (lm *LibraryManager) GetBookByTitle(title string) (*Book, error) { return lm.db.GetBookByTitle(title) }
func (lm *LibraryManager) ListBooks() ([]*BookSummary, error)         { return lm.db.ListBooks() }
func (lm *LibraryManager) CountPages(bookID int64) (int, error)       { return lm.db.CountPages(bookID) }

// ResolveBook accepts either a numeric id or an exact title.
func (lm *LibraryManager) ResolveBook(ref string) (*Book, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, invalid("book reference is required")
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		book, err := lm.db.GetBook(id)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return book, err
		}
		// A numeric title is still a title.
	}
	return lm.db.GetBookByTitle(ref)
}

// DeleteBook removes a book together with its pages.
func (lm *LibraryManager) DeleteBook(id int64) error {
	if err := lm.db.DeleteBook(id); err != nil {
		lm.log.Warn("delete book failed", "book_id", id, "error", err)
		return err
	}
	lm.log.Info("book deleted", "book_id", id)
	return nil
}

// ------------------ Page helpers ------------------

func (lm *LibraryManager) ListPages(bookID int64) ([]*Page, error) { return lm.db.ListPages(bookID) }
func (lm *LibraryManager) GetPage(bookID int64, number int) (*Page, error) {
	return lm.db.GetPage(bookID, number)
}
func (lm *LibraryManager) GetPageByID(id int64) (*Page, error)   { return lm.db.GetPageByID(id) }
func (lm *LibraryManager) SearchPages(q string) ([]*Page, error) { return lm.db.SearchPages(q) }

// AddPage appends a page to a book. An empty title displays as "Page N".
func (lm *LibraryManager) AddPage(bookID int64, title, content string) (*Page, error) {
	page, err := lm.db.CreatePage(bookID, title, content)
	if err != nil {
		lm.log.Warn("add page failed", "book_id", bookID, "error", err)
		return nil, err
	}
	lm.log.Info("page added", "book_id", bookID, "page_id", page.ID, "number", page.Number)
	return page, nil
}

// UpdatePageContent replaces the text of a page.
func (lm *LibraryManager) UpdatePageContent(id int64, content string) (*Page, error) {
	page, err := lm.db.UpdatePageContent(id, content)
	if err != nil {
		lm.log.Warn("update page failed", "page_id", id, "error", err)
		return nil, err
	}
	lm.log.Info("page updated", "book_id", page.BookID, "page_id", id, "number", page.Number)
	return page, nil
}

// DeletePage removes a page. Remaining pages keep their numbers.
func (lm *LibraryManager) DeletePage(id int64) error {
	if err := lm.db.DeletePage(id); err != nil {
		lm.log.Warn("delete page failed", "page_id", id, "error", err)
		return err
	}
	lm.log.Info("page deleted", "page_id", id)
	return nil
}

// ------------------ Pagination ------------------

// LoadMorePages reads the book's current pages and hands the next unseen
// batch to the caller. total is the live page count at the time of the call.
func (lm *LibraryManager) LoadMorePages(c *PaginationCursor) (batch []*Page, total int, err error) {
	pages, err := lm.db.ListPages(c.BookID)
	if err != nil {
		return nil, 0, err
	}
	batch = c.NextBatch(pages)
	lm.log.Debug("pages delivered", "book_id", c.BookID, "batch", len(batch), "delivered", c.Delivered(), "total", len(pages))
	return batch, len(pages), nil
}

// ------------------ Import ------------------

// ImportBook creates a book from pre-split sections in one transaction.
func (lm *LibraryManager) ImportBook(title, coverPath string, sections []Section) (*Book, []*Page, error) {
	if len(sections) == 0 {
		return nil, nil, invalid("nothing to import for %q", title)
	}
	book, pages, err := lm.db.CreateBookWithPages(title, coverPath, sections)
	if err != nil {
		lm.log.Warn("import failed", "title", title, "error", err)
		return nil, nil, err
	}
	lm.log.Info("book imported", "book_id", book.ID, "title", book.Title, "pages", len(pages))
	return book, pages, nil
}

// AppendSections adds sections as new pages at the end of an existing book.
func (lm *LibraryManager) AppendSections(bookID int64, sections []Section) ([]*Page, error) {
	pages, err := lm.db.AppendPages(bookID, sections)
	if err != nil {
		lm.log.Warn("append pages failed", "book_id", bookID, "error", err)
		return nil, err
	}
	lm.log.Info("pages appended", "book_id", bookID, "pages", len(pages))
	return pages, nil
}

// ------------------ Utilities ------------------

// CoverExists reports whether path names a regular file.
func CoverExists(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(filepath.Clean(path))
	return err == nil && fi.Mode().IsRegular()
}
