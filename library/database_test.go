package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("new db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustBook(t *testing.T, db *Database, title string) *Book {
	t.Helper()
	b, err := db.CreateBook(title, "")
	if err != nil {
		t.Fatalf("create book %q: %v", title, err)
	}
	return b
}

func mustPage(t *testing.T, db *Database, bookID int64, title, content string) *Page {
	t.Helper()
	p, err := db.CreatePage(bookID, title, content)
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return p
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.db")
	db, err := NewDatabase(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := db.CreateBook("Kept", ""); err != nil {
		t.Fatalf("create book: %v", err)
	}
	db.Close()

	db, err = NewDatabase(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer db.Close()
	books, err := db.ListBooks()
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Kept" {
		t.Fatalf("expected the book to survive reopening, got %+v", books)
	}
}

func TestCreateBook(t *testing.T) {
	db := tempDB(t)

	b, err := db.CreateBook("  Dune  ", "/covers/dune.png")
	if err != nil {
		t.Fatalf("create book: %v", err)
	}
	if b.Title != "Dune" {
		t.Errorf("title = %q, want trimmed %q", b.Title, "Dune")
	}

	got, err := db.GetBook(b.ID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.CoverPath != "/covers/dune.png" {
		t.Errorf("cover = %q", got.CoverPath)
	}

	noCover := mustBook(t, db, "Plain")
	got, _ = db.GetBook(noCover.ID)
	if got.HasCover() {
		t.Errorf("expected no cover, got %q", got.CoverPath)
	}
}

func TestCreateBookRequiresTitle(t *testing.T) {
	db := tempDB(t)
	for _, title := range []string{"", "   "} {
		if _, err := db.CreateBook(title, ""); !errors.Is(err, ErrValidation) {
			t.Errorf("CreateBook(%q) error = %v, want ErrValidation", title, err)
		}
	}
}

func TestGetBookNotFound(t *testing.T) {
	db := tempDB(t)
	if _, err := db.GetBook(99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBookByTitle(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Emma")

	got, err := db.GetBookByTitle("Emma")
	if err != nil {
		t.Fatalf("get by title: %v", err)
	}
	if got.ID != b.ID {
		t.Fatalf("got id %d, want %d", got.ID, b.ID)
	}

	if _, err := db.GetBookByTitle("Persuasion"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mustBook(t, db, "Emma")
	_, err = db.GetBookByTitle("Emma")
	if !errors.Is(err, ErrAmbiguous) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrAmbiguous wrapping ErrValidation, got %v", err)
	}
}

func TestListBooksCountsPages(t *testing.T) {
	db := tempDB(t)
	a := mustBook(t, db, "A")
	mustBook(t, db, "B")
	mustPage(t, db, a.ID, "", "one")
	mustPage(t, db, a.ID, "", "two")

	books, err := db.ListBooks()
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("want 2 books, got %d", len(books))
	}
	if books[0].PageCount != 2 || books[1].PageCount != 0 {
		t.Fatalf("page counts = %d, %d; want 2, 0", books[0].PageCount, books[1].PageCount)
	}
}

func TestFirstPageIsNumberOne(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Novel")

	p := mustPage(t, db, b.ID, "Chapter 1", "It was a dark and stormy night.")
	if p.Number != 1 {
		t.Fatalf("number = %d, want 1", p.Number)
	}
	if p.DisplayTitle() != "Chapter 1" {
		t.Fatalf("display title = %q", p.DisplayTitle())
	}

	untitled := mustPage(t, db, b.ID, "", "more")
	if untitled.Number != 2 || untitled.DisplayTitle() != "Page 2" {
		t.Fatalf("untitled page = #%d %q, want #2 \"Page 2\"", untitled.Number, untitled.DisplayTitle())
	}
}

func TestPageNumberFollowsCurrentCount(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Notes")

	first := mustPage(t, db, b.ID, "", "first")
	if err := db.DeletePage(first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again := mustPage(t, db, b.ID, "", "again")
	if again.Number != 1 {
		t.Fatalf("after delete+create number = %d, want 1", again.Number)
	}

	// count+1 can collide with a surviving page.
	second := mustPage(t, db, b.ID, "", "second")
	if err := db.DeletePage(again.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	third := mustPage(t, db, b.ID, "", "third")
	if third.Number != second.Number {
		t.Fatalf("expected duplicate number %d, got %d", second.Number, third.Number)
	}

	pages, err := db.ListPages(b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pages) != 2 || pages[0].ID != second.ID || pages[1].ID != third.ID {
		t.Fatalf("duplicates should be ordered by id, got %+v", pages)
	}

	got, err := db.GetPage(b.ID, 2)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if got.ID != second.ID {
		t.Fatalf("GetPage should prefer the oldest duplicate, got id %d", got.ID)
	}
}

func TestCreatePageUnknownBook(t *testing.T) {
	db := tempDB(t)
	if _, err := db.CreatePage(42, "", "orphan"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestListPagesOrderedByNumber(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Ordered")
	for i := 1; i <= 5; i++ {
		mustPage(t, db, b.ID, "", fmt.Sprintf("content %d", i))
	}

	pages, err := db.ListPages(b.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i, p := range pages {
		if p.Number != i+1 {
			t.Fatalf("pages[%d].Number = %d", i, p.Number)
		}
		if p.BookID != b.ID {
			t.Fatalf("pages[%d].BookID = %d", i, p.BookID)
		}
	}

	empty := mustBook(t, db, "Empty")
	pages, err = db.ListPages(empty.ID)
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if pages == nil || len(pages) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", pages)
	}
}

func TestListPagesUnknownBook(t *testing.T) {
	db := tempDB(t)
	if _, err := db.ListPages(7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePageContent(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Draft")
	p := mustPage(t, db, b.ID, "Intro", "old")

	updated, err := db.UpdatePageContent(p.ID, "new")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "new" || updated.Title != "Intro" || updated.Number != p.Number || updated.BookID != b.ID {
		t.Fatalf("unexpected page after update: %+v", updated)
	}

	if _, err := db.UpdatePageContent(99999, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePageIsNotIdempotent(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Gone")
	p := mustPage(t, db, b.ID, "", "bye")

	if err := db.DeletePage(p.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := db.DeletePage(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestDeleteBookCascades(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Doomed")
	keep := mustBook(t, db, "Kept")
	p := mustPage(t, db, b.ID, "", "a")
	mustPage(t, db, b.ID, "", "b")
	mustPage(t, db, keep.ID, "", "c")

	if err := db.DeleteBook(b.ID); err != nil {
		t.Fatalf("delete book: %v", err)
	}
	if _, err := db.ListPages(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ListPages after delete = %v, want ErrNotFound", err)
	}
	if _, err := db.GetPageByID(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("page should be gone, got %v", err)
	}
	if n, _ := db.CountPages(keep.ID); n != 1 {
		t.Fatalf("other book lost pages: %d", n)
	}

	if err := db.DeleteBook(b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestCreateBookWithPages(t *testing.T) {
	db := tempDB(t)
	sections := []Section{
		{Title: "Prologue", Content: "p"},
		{Content: "untitled"},
		{Title: "Epilogue", Content: "e"},
	}
	book, pages, err := db.CreateBookWithPages("Imported", "", sections)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("want 3 pages, got %d", len(pages))
	}
	for i, p := range pages {
		if p.Number != i+1 || p.BookID != book.ID {
			t.Fatalf("pages[%d] = %+v", i, p)
		}
	}
	if pages[1].DisplayTitle() != "Page 2" {
		t.Fatalf("display title = %q", pages[1].DisplayTitle())
	}

	more, err := db.AppendPages(book.ID, []Section{{Content: "appendix"}})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if more[0].Number != 4 {
		t.Fatalf("appended number = %d, want 4", more[0].Number)
	}
}

func TestCreateBookWithPagesRollsBack(t *testing.T) {
	db := tempDB(t)
	if _, _, err := db.CreateBookWithPages(" ", "", []Section{{Content: "x"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	books, _ := db.ListBooks()
	if len(books) != 0 {
		t.Fatalf("nothing should be stored, got %d books", len(books))
	}
}

func TestSearchPages(t *testing.T) {
	db := tempDB(t)
	b := mustBook(t, db, "Search")
	mustPage(t, db, b.ID, "Alpha", "the quick brown fox")
	mustPage(t, db, b.ID, "", "lazy dog")
	mustPage(t, db, b.ID, "", "100% sure")

	res, err := db.SearchPages("fox")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 1 || !strings.Contains(res[0].Content, "fox") {
		t.Fatalf("unexpected results: %+v", res)
	}

	res, _ = db.SearchPages("alpha")
	if len(res) != 1 {
		t.Fatalf("title match should be case-insensitive, got %d", len(res))
	}

	res, _ = db.SearchPages("%")
	if len(res) != 1 {
		t.Fatalf("%% should match literally, got %d", len(res))
	}

	res, _ = db.SearchPages("   ")
	if len(res) != 0 {
		t.Fatalf("blank query should return nothing")
	}
}

func TestStoreErrorMatching(t *testing.T) {
	err := storeErr("insert page", errors.New("disk I/O error"))
	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected ErrStore match")
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "insert page" {
		t.Fatalf("expected *StoreError with op, got %v", err)
	}
	if storeErr("noop", nil) != nil {
		t.Fatalf("nil error must stay nil")
	}
}
