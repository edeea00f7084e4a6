package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"book-manager/library"
)

// bookItem is one book card in the list.
type bookItem struct {
	library.BookSummary
	coverFound bool
}

func (b bookItem) FilterValue() string { return b.Title }

func newBookItem(s *library.BookSummary) bookItem {
	return bookItem{
		BookSummary: *s,
		coverFound:  s.HasCover() && library.CoverExists(s.CoverPath),
	}
}

// cardMeta is the second line of a card: page count and cover status.
func (b bookItem) cardMeta() string {
	pages := fmt.Sprintf("%d pages", b.PageCount)
	if b.PageCount == 1 {
		pages = "1 page"
	}
	switch {
	case !b.HasCover():
		return pages + " · no cover"
	case !b.coverFound:
		return pages + " · cover missing: " + b.CoverPath
	default:
		return pages + " · cover: " + b.CoverPath
	}
}

// bookDelegate renders book cards two lines high.
type bookDelegate struct{}

func (d bookDelegate) Height() int                             { return 2 }
func (d bookDelegate) Spacing() int                            { return 1 }
func (d bookDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	b, ok := item.(bookItem)
	if !ok {
		return
	}
	width := max(m.Width()-4, 10)

	prefix := "  "
	titleStyle := StyleNormal
	if index == m.Index() {
		prefix = "› "
		titleStyle = StyleHighlight
	}

	metaStyle := StyleHelp
	if b.HasCover() && !b.coverFound {
		metaStyle = StyleDanger
	}

	var s strings.Builder
	s.WriteString(prefix + titleStyle.Render(ansi.Truncate(b.Title, width, "…")))
	s.WriteString("\n")
	s.WriteString("  " + metaStyle.Render(ansi.Truncate(b.cardMeta(), width, "…")))
	_, _ = fmt.Fprint(w, s.String())
}

// booksModel is the home screen: a filterable list of book cards.
type booksModel struct {
	list list.Model
	keys keyMap
}

func newBooksModel(keys keyMap) booksModel {
	l := list.New(nil, bookDelegate{}, 0, 0)
	l.Title = "Books"
	l.Styles.Title = StyleHeader
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName("book", "books")
	return booksModel{list: l, keys: keys}
}

// setBooks replaces the cards, keeping the selection on selectID when it is
// still present.
func (m *booksModel) setBooks(books []*library.BookSummary, selectID int64) tea.Cmd {
	items := make([]list.Item, len(books))
	sel := -1
	for i, b := range books {
		items[i] = newBookItem(b)
		if b.ID == selectID {
			sel = i
		}
	}
	cmd := m.list.SetItems(items)
	if sel >= 0 {
		m.list.Select(sel)
	} else if m.list.Index() >= len(items) && len(items) > 0 {
		m.list.Select(len(items) - 1)
	}
	return cmd
}

func (m booksModel) selected() (bookItem, bool) {
	b, ok := m.list.SelectedItem().(bookItem)
	return b, ok
}

func (m booksModel) filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m booksModel) help() bindingSet {
	return bindingSet{m.keys.Select, m.keys.AddBook, m.keys.Delete, m.keys.About, m.keys.Quit}
}

func (m booksModel) Update(msg tea.Msg) (booksModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(k, m.keys.Select):
			if b, ok := m.selected(); ok {
				return m, send(openBookMsg{BookID: b.ID})
			}
			return m, nil
		case key.Matches(k, m.keys.AddBook):
			return m, send(showDialogMsg{Dialog: newBookForm()})
		case key.Matches(k, m.keys.Delete):
			if b, ok := m.selected(); ok {
				return m, send(showDialogMsg{Dialog: confirmDeleteBook(&b.Book, b.PageCount)})
			}
			return m, nil
		case key.Matches(k, m.keys.About):
			return m, send(showDialogMsg{Dialog: newAboutDialog()})
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m booksModel) View() string {
	if len(m.list.Items()) == 0 {
		return StyleHeader.Render("Books") + "\n\n" +
			StyleHelp.Render("No books yet. Press a to add one.")
	}
	return m.list.View()
}
