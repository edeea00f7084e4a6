package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"book-manager/library"
)

// detailModel is the book screen. It owns the pagination cursor for the
// opened book; a fresh cursor is built every time a book is opened.
type detailModel struct {
	lm     *library.LibraryManager
	book   *library.Book
	cursor *library.PaginationCursor

	pages    []*library.Page // rendered so far, in order
	total    int             // page count seen on the last load
	selected int

	keys   keyMap
	width  int
	height int
}

func newDetailModel(lm *library.LibraryManager, book *library.Book, keys keyMap) (detailModel, error) {
	m := detailModel{
		lm:     lm,
		book:   book,
		cursor: library.NewPaginationCursor(book.ID),
		keys:   keys,
	}
	if err := m.loadMore(); err != nil {
		return m, err
	}
	return m, nil
}

// loadMore appends the next batch. The view is changed only after the
// store read succeeds.
func (m *detailModel) loadMore() error {
	batch, total, err := m.lm.LoadMorePages(m.cursor)
	if err != nil {
		return err
	}
	m.pages = append(m.pages, batch...)
	m.total = total
	return nil
}

// replay rebuilds the rendered pages from a reset cursor, loading batches
// until at least want pages are shown and, when reach is non-zero, the page
// with that id has been delivered. It stops early once the book is
// exhausted. Used after a mutation so the rendered list and the cursor stay
// in step.
func (m *detailModel) replay(want int, reach int64) error {
	cursor := library.NewPaginationCursor(m.book.ID)
	var (
		pages []*library.Page
		total int
	)
	found := reach == 0
	for {
		batch, n, err := m.lm.LoadMorePages(cursor)
		if err != nil {
			return err
		}
		for _, p := range batch {
			if p.ID == reach {
				found = true
			}
		}
		pages = append(pages, batch...)
		total = n
		if len(batch) == 0 || (len(pages) >= want && found) {
			break
		}
	}
	m.cursor, m.pages, m.total = cursor, pages, total
	m.selected = min(m.selected, max(len(m.pages)-1, 0))
	return nil
}

func (m detailModel) canLoadMore() bool {
	return !m.cursor.Exhausted(m.total)
}

// selectPage moves the selection to the rendered page with the given id.
func (m *detailModel) selectPage(id int64) {
	for i, p := range m.pages {
		if p.ID == id {
			m.selected = i
			return
		}
	}
}

func (m detailModel) grid() flowGrid {
	labels := make([]string, len(m.pages))
	for i, p := range m.pages {
		labels[i] = p.DisplayTitle()
	}
	return flowGrid{labels: labels, selected: m.selected, width: max(m.width, 20)}
}

func (m detailModel) help() bindingSet {
	b := bindingSet{m.keys.Select, m.keys.AddPage}
	if m.canLoadMore() {
		b = append(b, m.keys.LoadMore)
	}
	return append(b, m.keys.Delete, m.keys.Back)
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(k, m.keys.Back):
		return m, send(backMsg{})

	case key.Matches(k, m.keys.Left):
		m.selected = max(m.selected-1, 0)

	case key.Matches(k, m.keys.Right):
		m.selected = min(m.selected+1, max(len(m.pages)-1, 0))

	case key.Matches(k, m.keys.Up):
		m.selected = verticalNeighbor(m.grid().rows(), m.selected, -1)

	case key.Matches(k, m.keys.Down):
		m.selected = verticalNeighbor(m.grid().rows(), m.selected, 1)

	case key.Matches(k, m.keys.Select):
		if len(m.pages) > 0 {
			return m, send(openPageMsg{Page: m.pages[m.selected]})
		}

	case key.Matches(k, m.keys.AddPage):
		return m, send(showDialogMsg{Dialog: newPageForm(m.book.ID)})

	case key.Matches(k, m.keys.LoadMore):
		if !m.canLoadMore() {
			return m, nil
		}
		before := len(m.pages)
		if err := m.loadMore(); err != nil {
			return m, send(errMsg{err})
		}
		if len(m.pages) > before {
			m.selected = before
		}

	case key.Matches(k, m.keys.Delete):
		return m, send(showDialogMsg{Dialog: confirmDeleteBook(m.book, m.total)})
	}
	return m, nil
}

// detailChrome is the number of lines around the page grid.
const detailChrome = 8

func (m detailModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().Width(max(m.width, 20)).Align(lipgloss.Center)
	b.WriteString(title.Render(StyleHeader.Render(m.book.Title)))
	b.WriteString("\n")
	if m.book.HasCover() {
		b.WriteString(title.Render(StyleMeta.Render("cover: " + m.book.CoverPath)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.pages) == 0 {
		b.WriteString(StyleHelp.Render("No pages yet. Press a to add one."))
		b.WriteString("\n")
	} else {
		b.WriteString(StyleHelp.Render(fmt.Sprintf("Showing %d of %d pages", len(m.pages), m.total)))
		b.WriteString("\n\n")
		b.WriteString(m.grid().render(max(m.height-detailChrome, 3)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	actions := []string{styleAction.Render("Add Page")}
	if m.canLoadMore() {
		actions = append(actions, "  ", styleAction.Render("Load More Pages"))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, actions...))
	return b.String()
}
