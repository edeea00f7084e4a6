package library

import "testing"

func makePages(n int) []*Page {
	pages := make([]*Page, n)
	for i := range pages {
		pages[i] = &Page{ID: int64(i + 1), Number: i + 1, BookID: 1}
	}
	return pages
}

func TestNextBatchExhaustsInOrder(t *testing.T) {
	for _, total := range []int{0, 1, 39, 40, 41, 45, 80, 81, 200} {
		pages := makePages(total)
		c := NewPaginationCursor(1)

		var seen []*Page
		nonEmpty := 0
		drained := false
		for i := 0; i < total/DefaultBatchSize+3; i++ {
			batch := c.NextBatch(pages)
			if len(batch) == 0 {
				drained = true
				continue
			}
			if drained {
				t.Fatalf("total=%d: empty batch followed by a non-empty one", total)
			}
			nonEmpty++
			seen = append(seen, batch...)
		}

		want := (total + DefaultBatchSize - 1) / DefaultBatchSize
		if nonEmpty != want {
			t.Errorf("total=%d: %d non-empty batches, want %d", total, nonEmpty, want)
		}
		if len(seen) != total {
			t.Fatalf("total=%d: delivered %d pages", total, len(seen))
		}
		for i, p := range seen {
			if p.Number != i+1 {
				t.Fatalf("total=%d: position %d holds page %d", total, i, p.Number)
			}
		}
		if c.Delivered() != total || !c.Exhausted(total) {
			t.Errorf("total=%d: delivered=%d exhausted=%v", total, c.Delivered(), c.Exhausted(total))
		}
	}
}

func TestNextBatchEmptyCollection(t *testing.T) {
	c := NewPaginationCursor(1)
	for i := 0; i < 3; i++ {
		if batch := c.NextBatch(nil); len(batch) != 0 {
			t.Fatalf("expected empty batch, got %d", len(batch))
		}
		if c.Delivered() != 0 {
			t.Fatalf("delivered changed to %d", c.Delivered())
		}
	}
}

func TestNextBatchFortyFivePages(t *testing.T) {
	pages := makePages(45)
	c := NewPaginationCursor(1)

	first := c.NextBatch(pages)
	if len(first) != 40 || first[0].Number != 1 || first[39].Number != 40 {
		t.Fatalf("first batch wrong: len=%d", len(first))
	}
	if c.Delivered() != 40 {
		t.Fatalf("delivered = %d, want 40", c.Delivered())
	}

	second := c.NextBatch(pages)
	if len(second) != 5 || second[0].Number != 41 || second[4].Number != 45 {
		t.Fatalf("second batch wrong: len=%d", len(second))
	}
	if c.Delivered() != 45 {
		t.Fatalf("delivered = %d, want 45", c.Delivered())
	}

	if third := c.NextBatch(pages); len(third) != 0 {
		t.Fatalf("third batch should be empty, got %d", len(third))
	}
	if c.Delivered() != 45 {
		t.Fatalf("delivered moved after exhaustion: %d", c.Delivered())
	}
}

func TestNextBatchAfterShrink(t *testing.T) {
	c := NewPaginationCursor(1)
	c.NextBatch(makePages(80))
	c.NextBatch(makePages(80))
	if c.Delivered() != 80 {
		t.Fatalf("delivered = %d", c.Delivered())
	}

	// Pages were deleted between calls.
	shrunk := makePages(10)
	if batch := c.NextBatch(shrunk); len(batch) != 0 {
		t.Fatalf("expected empty batch after shrink, got %d", len(batch))
	}
	if c.Delivered() != 80 {
		t.Fatalf("delivered changed after shrink: %d", c.Delivered())
	}
}

func TestNextBatchSeesGrowth(t *testing.T) {
	c := NewPaginationCursor(1)
	c.NextBatch(makePages(40))

	grown := makePages(43)
	batch := c.NextBatch(grown)
	if len(batch) != 3 || batch[0].Number != 41 {
		t.Fatalf("expected pages 41-43, got %d pages", len(batch))
	}
}

func TestReset(t *testing.T) {
	pages := makePages(50)
	c := NewPaginationCursor(3)
	c.NextBatch(pages)
	c.Reset()
	if c.Delivered() != 0 {
		t.Fatalf("delivered after reset = %d", c.Delivered())
	}
	if batch := c.NextBatch(pages); batch[0].Number != 1 {
		t.Fatalf("reset cursor should start over")
	}
	if c.BatchSize() != DefaultBatchSize || c.BookID != 3 {
		t.Fatalf("cursor fields changed: %+v", c)
	}
}
