package library

// DefaultBatchSize is how many pages one "load more" request reveals.
const DefaultBatchSize = 40

// PaginationCursor tracks how many of a book's pages have been handed to a
// view. It is created fresh every time a book is opened and never persisted.
//
// The cursor never reads the store itself: callers pass the complete, current
// page list on every call, so pages deleted between calls are tolerated.
type PaginationCursor struct {
	BookID int64

	batchSize int
	delivered int
}

// NewPaginationCursor returns a cursor for bookID with nothing delivered yet.
func NewPaginationCursor(bookID int64) *PaginationCursor {
	return &PaginationCursor{BookID: bookID, batchSize: DefaultBatchSize}
}

// NextBatch returns the next unseen slice of pages, which must be ordered by
// number. An empty result means every page has been delivered; the cursor is
// then left untouched.
func (c *PaginationCursor) NextBatch(pages []*Page) []*Page {
	total := len(pages)
	start := c.delivered
	// The list may have shrunk below what was already delivered.
	if total == 0 || start >= total {
		return []*Page{}
	}
	end := min(start+c.batchSize, total)
	c.delivered = end
	return pages[start:end]
}

// Delivered reports how many pages have been handed out so far.
func (c *PaginationCursor) Delivered() int { return c.delivered }

// BatchSize reports the fixed batch size.
func (c *PaginationCursor) BatchSize() int { return c.batchSize }

// Exhausted reports whether a collection of total pages has been fully
// delivered.
func (c *PaginationCursor) Exhausted(total int) bool { return c.delivered >= total }

// Reset forgets every delivered page.
func (c *PaginationCursor) Reset() { c.delivered = 0 }
