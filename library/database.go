package library

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection.
type Database struct {
	db *sql.DB

	insertBookStmt *sql.Stmt
	insertPageStmt *sql.Stmt
	countPagesStmt *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies schema
// migrations, and prepares common statements.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, storeErr("open sqlite", err)
	}
	// One writer, one event loop.
	db.SetMaxOpenConns(1)

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	for _, stmt := range []*sql.Stmt{d.insertBookStmt, d.insertPageStmt, d.countPagesStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return storeErr("enable WAL", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return storeErr("create meta", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return storeErr("begin migration", err)
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            cover_path TEXT
        );`,
		// number is not UNIQUE: count+1 numbering can repeat after deletes.
		`CREATE TABLE IF NOT EXISTS pages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            number INTEGER NOT NULL,
            content TEXT NOT NULL,
            title TEXT,
            book_id INTEGER NOT NULL REFERENCES books(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_pages_book_number ON pages(book_id, number);`,
		`CREATE INDEX IF NOT EXISTS idx_books_title ON books(title);`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return storeErr("apply migration", err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return storeErr("record schema version", err)
	}

	return storeErr("commit migration", tx.Commit())
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.insertBookStmt, err = d.db.Prepare(`INSERT INTO books(title,cover_path) VALUES(?,?)`); err != nil {
		return storeErr("prepare insert book", err)
	}
	if d.insertPageStmt, err = d.db.Prepare(`INSERT INTO pages(number,content,title,book_id) VALUES(?,?,?,?)`); err != nil {
		return storeErr("prepare insert page", err)
	}
	if d.countPagesStmt, err = d.db.Prepare(`SELECT COUNT(*) FROM pages WHERE book_id=?`); err != nil {
		return storeErr("prepare count pages", err)
	}
	return nil
}

// withTx runs fn inside a transaction. The deferred Rollback is a no-op after
// a successful Commit, so every other exit path rolls back.
func (d *Database) withTx(op string, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return storeErr(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return storeErr(op, tx.Commit())
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// ---------------------------------------------------------------------------
// Books
// ---------------------------------------------------------------------------

// CreateBook inserts a book. The title is trimmed and must not be empty.
func (d *Database) CreateBook(title, coverPath string) (*Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("book title is required")
	}
	coverPath = strings.TrimSpace(coverPath)

	var book *Book
	err := d.withTx("create book", func(tx *sql.Tx) error {
		var err error
		book, err = insertBook(tx.Stmt(d.insertBookStmt), title, coverPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

func insertBook(stmt *sql.Stmt, title, coverPath string) (*Book, error) {
	res, err := stmt.Exec(title, nullable(coverPath))
	if err != nil {
		return nil, storeErr("insert book", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, storeErr("insert book", err)
	}
	return &Book{ID: id, Title: title, CoverPath: coverPath}, nil
}

// CreateBookWithPages inserts a book and its pages in one transaction.
// Used by importers, so a failed import leaves nothing behind.
func (d *Database) CreateBookWithPages(title, coverPath string, sections []Section) (*Book, []*Page, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil, invalid("book title is required")
	}

	var (
		book  *Book
		pages []*Page
	)
	err := d.withTx("create book with pages", func(tx *sql.Tx) error {
		var err error
		if book, err = insertBook(tx.Stmt(d.insertBookStmt), title, strings.TrimSpace(coverPath)); err != nil {
			return err
		}
		pages, err = d.appendPages(tx, book.ID, sections)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return book, pages, nil
}

// GetBook fetches a single book by id.
func (d *Database) GetBook(id int64) (*Book, error) {
	var b Book
	err := d.db.QueryRow(`SELECT id,title,COALESCE(cover_path,'') FROM books WHERE id=?`, id).
		Scan(&b.ID, &b.Title, &b.CoverPath)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("book %d", id)
	}
	if err != nil {
		return nil, storeErr("get book", err)
	}
	return &b, nil
}

// GetBookByTitle looks a book up by exact title. Titles are not unique, so a
// title shared by several books fails with ErrAmbiguous.
func (d *Database) GetBookByTitle(title string) (*Book, error) {
	rows, err := d.db.Query(`SELECT id,title,COALESCE(cover_path,'') FROM books WHERE title=? ORDER BY id LIMIT 2`, title)
	if err != nil {
		return nil, storeErr("get book by title", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.CoverPath); err != nil {
			return nil, storeErr("get book by title", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("get book by title", err)
	}

	switch len(books) {
	case 0:
		return nil, notFound("book %q", title)
	case 1:
		return books[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches more than one book, use its id", ErrAmbiguous, title)
	}
}

// ListBooks returns every book with its page count, ordered by id.
func (d *Database) ListBooks() ([]*BookSummary, error) {
	rows, err := d.db.Query(`
        SELECT b.id, b.title, COALESCE(b.cover_path,''), COUNT(p.id)
        FROM books b
        LEFT JOIN pages p ON p.book_id = b.id
        GROUP BY b.id
        ORDER BY b.id`)
	if err != nil {
		return nil, storeErr("list books", err)
	}
	defer rows.Close()

	var books []*BookSummary
	for rows.Next() {
		var b BookSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.CoverPath, &b.PageCount); err != nil {
			return nil, storeErr("list books", err)
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list books", err)
	}
	return books, nil
}

// DeleteBook removes a book and all of its pages.
func (d *Database) DeleteBook(id int64) error {
	return d.withTx("delete book", func(tx *sql.Tx) error {
		// Explicit page delete keeps the cascade even if foreign keys are off.
		if _, err := tx.Exec(`DELETE FROM pages WHERE book_id=?`, id); err != nil {
			return storeErr("delete pages", err)
		}
		res, err := tx.Exec(`DELETE FROM books WHERE id=?`, id)
		if err != nil {
			return storeErr("delete book", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("delete book", err)
		}
		if n == 0 {
			return notFound("book %d", id)
		}
		return nil
	})
}

func (d *Database) bookExists(q interface {
	QueryRow(string, ...any) *sql.Row
}, id int64) (bool, error) {
	var exists bool
	if err := q.QueryRow(`SELECT EXISTS(SELECT 1 FROM books WHERE id=?)`, id).Scan(&exists); err != nil {
		return false, storeErr("check book", err)
	}
	return exists, nil
}

// CountPages returns the number of pages currently stored for a book.
func (d *Database) CountPages(bookID int64) (int, error) {
	var n int
	if err := d.countPagesStmt.QueryRow(bookID).Scan(&n); err != nil {
		return 0, storeErr("count pages", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Pages
// ---------------------------------------------------------------------------

const pageColumns = `id, number, content, COALESCE(title,''), book_id`

func scanPage(row interface{ Scan(...any) error }) (*Page, error) {
	var p Page
	if err := row.Scan(&p.ID, &p.Number, &p.Content, &p.Title, &p.BookID); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPages returns every page of a book ordered by number, then id.
func (d *Database) ListPages(bookID int64) ([]*Page, error) {
	exists, err := d.bookExists(d.db, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("book %d", bookID)
	}

	rows, err := d.db.Query(`SELECT `+pageColumns+` FROM pages WHERE book_id=? ORDER BY number ASC, id ASC`, bookID)
	if err != nil {
		return nil, storeErr("list pages", err)
	}
	defer rows.Close()

	pages := []*Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, storeErr("list pages", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list pages", err)
	}
	return pages, nil
}

// CreatePage appends a page to a book. The number is the book's current page
// count plus one, so it can repeat a number freed by an earlier delete.
func (d *Database) CreatePage(bookID int64, title, content string) (*Page, error) {
	var page *Page
	err := d.withTx("create page", func(tx *sql.Tx) error {
		pages, err := d.appendPages(tx, bookID, []Section{{Title: title, Content: content}})
		if err != nil {
			return err
		}
		page = pages[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// AppendPages adds several pages to an existing book in one transaction.
func (d *Database) AppendPages(bookID int64, sections []Section) ([]*Page, error) {
	var pages []*Page
	err := d.withTx("append pages", func(tx *sql.Tx) error {
		var err error
		pages, err = d.appendPages(tx, bookID, sections)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (d *Database) appendPages(tx *sql.Tx, bookID int64, sections []Section) ([]*Page, error) {
	exists, err := d.bookExists(tx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, invalid("unknown book %d", bookID)
	}

	var count int
	if err := tx.Stmt(d.countPagesStmt).QueryRow(bookID).Scan(&count); err != nil {
		return nil, storeErr("count pages", err)
	}

	insert := tx.Stmt(d.insertPageStmt)
	pages := make([]*Page, 0, len(sections))
	for _, s := range sections {
		count++
		title := strings.TrimSpace(s.Title)
		res, err := insert.Exec(count, s.Content, nullable(title), bookID)
		if err != nil {
			return nil, storeErr("insert page", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, storeErr("insert page", err)
		}
		pages = append(pages, &Page{ID: id, Number: count, Content: s.Content, Title: title, BookID: bookID})
	}
	return pages, nil
}

// GetPage returns the page with the given number. When numbers repeat, the
// oldest page wins.
func (d *Database) GetPage(bookID int64, number int) (*Page, error) {
	row := d.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE book_id=? AND number=? ORDER BY id LIMIT 1`, bookID, number)
	p, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("page %d of book %d", number, bookID)
	}
	if err != nil {
		return nil, storeErr("get page", err)
	}
	return p, nil
}

// GetPageByID returns a page by its identity.
func (d *Database) GetPageByID(id int64) (*Page, error) {
	p, err := scanPage(d.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("page %d", id)
	}
	if err != nil {
		return nil, storeErr("get page", err)
	}
	return p, nil
}

// UpdatePageContent replaces a page's text. Title and owning book are fixed.
func (d *Database) UpdatePageContent(id int64, content string) (*Page, error) {
	var page *Page
	err := d.withTx("update page", func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE pages SET content=? WHERE id=?`, content, id)
		if err != nil {
			return storeErr("update page", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("update page", err)
		}
		if n == 0 {
			return notFound("page %d", id)
		}
		page, err = scanPage(tx.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id=?`, id))
		return storeErr("reload page", err)
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// DeletePage removes a page. Deleting an already deleted page fails with
// ErrNotFound.
func (d *Database) DeletePage(id int64) error {
	return d.withTx("delete page", func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM pages WHERE id=?`, id)
		if err != nil {
			return storeErr("delete page", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("delete page", err)
		}
		if n == 0 {
			return notFound("page %d", id)
		}
		return nil
	})
}

// SearchPages returns pages whose title or content contains q, ordered by
// book then number. It returns lightweight rows.
func (d *Database) SearchPages(q string) ([]*Page, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []*Page{}, nil
	}
	pattern := "%" + likeEscaper.Replace(q) + "%"
	rows, err := d.db.Query(`
        SELECT `+pageColumns+`
        FROM pages
        WHERE content LIKE ? ESCAPE '\' OR title LIKE ? ESCAPE '\'
        ORDER BY book_id, number, id`, pattern, pattern)
	if err != nil {
		return nil, storeErr("search pages", err)
	}
	defer rows.Close()

	var results []*Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, storeErr("search pages", err)
		}
		results = append(results, p)
	}
	return results, storeErr("search pages", rows.Err())
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
