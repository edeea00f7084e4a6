package tui

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"book-manager/library"
)

type screen int

const (
	screenBooks screen = iota
	screenDetail
	screenPage
)

// Model is the root TUI model. It switches between screens, shows modal
// dialogs, and performs every store call on behalf of the screens.
type Model struct {
	lm   *library.LibraryManager
	log  *slog.Logger
	keys keyMap
	help help.Model

	screen screen
	width  int
	height int
	status string

	books  booksModel
	detail detailModel
	viewer viewerModel
	dialog dialog
}

// New builds the root model and loads the book list.
func New(lm *library.LibraryManager, logger *slog.Logger) (Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	keys := newKeyMap()
	m := Model{
		lm:     lm,
		log:    logger,
		keys:   keys,
		help:   help.New(),
		screen: screenBooks,
		books:  newBooksModel(keys),
	}
	if err := m.loadBooks(0); err != nil {
		return m, err
	}
	return m, nil
}

// Run starts the TUI on the alternate screen and blocks until it exits.
func Run(lm *library.LibraryManager, logger *slog.Logger) error {
	m, err := New(lm, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) loadBooks(selectID int64) error {
	books, err := m.lm.ListBooks()
	if err != nil {
		return err
	}
	m.books.setBooks(books, selectID)
	return nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Body height available to screens: one line of status and one of help.
func (m Model) bodyHeight() int {
	return max(m.height-3, 5)
}

func (m *Model) resize() {
	m.books.list.SetSize(m.width, m.bodyHeight())
	m.detail.width, m.detail.height = m.width, m.bodyHeight()
	if m.screen == screenPage {
		m.viewer.setSize(m.width, m.bodyHeight())
	}
	m.help.Width = m.width
}

// fail shows err in a modal and leaves the screens untouched.
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.dialog = newErrorDialog(err)
	return m, nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.dialog == nil && m.screen == screenBooks && !m.books.filtering() && msg.String() == "q" {
			return m, tea.Quit
		}

	case showDialogMsg:
		m.dialog = msg.Dialog
		return m, m.dialog.Init()

	case closeDialogMsg:
		m.dialog = nil
		return m, nil

	case errMsg:
		return m.fail(msg.err)

	case openBookMsg:
		return m.openBook(msg.BookID)

	case openPageMsg:
		m.viewer = newViewerModel(msg.Page, m.keys, m.width, m.bodyHeight())
		m.screen = screenPage
		m.status = ""
		return m, nil

	case backMsg:
		return m.back()

	case addBookMsg:
		return m.addBook(msg)

	case addPageMsg:
		return m.addPage(msg)

	case editPageMsg:
		return m.editPage(msg)

	case deletePageMsg:
		return m.deletePage(msg)

	case deleteBookMsg:
		return m.deleteBook(msg)
	}

	var cmd tea.Cmd
	if m.dialog != nil {
		m.dialog, cmd = m.dialog.Update(msg)
		return m, cmd
	}
	switch m.screen {
	case screenBooks:
		m.books, cmd = m.books.Update(msg)
	case screenDetail:
		m.detail, cmd = m.detail.Update(msg)
	case screenPage:
		m.viewer, cmd = m.viewer.Update(msg)
	}
	return m, cmd
}

func (m Model) openBook(id int64) (tea.Model, tea.Cmd) {
	book, err := m.lm.GetBook(id)
	if err != nil {
		return m.fail(err)
	}
	detail, err := newDetailModel(m.lm, book, m.keys)
	if err != nil {
		return m.fail(err)
	}
	detail.width, detail.height = m.width, m.bodyHeight()
	m.detail = detail
	m.screen = screenDetail
	m.status = ""
	return m, nil
}

func (m Model) back() (tea.Model, tea.Cmd) {
	m.status = ""
	switch m.screen {
	case screenPage:
		m.screen = screenDetail
	case screenDetail:
		var selectID int64
		if m.detail.book != nil {
			selectID = m.detail.book.ID
		}
		if err := m.loadBooks(selectID); err != nil {
			return m.fail(err)
		}
		m.screen = screenBooks
	}
	return m, nil
}

func (m Model) addBook(msg addBookMsg) (tea.Model, tea.Cmd) {
	book, err := m.lm.AddBook(msg.Title, msg.CoverPath)
	if err != nil {
		return m.fail(err)
	}
	m.dialog = nil
	if err := m.loadBooks(book.ID); err != nil {
		return m.fail(err)
	}
	m.status = fmt.Sprintf("Added %q", book.Title)
	if book.HasCover() && !library.CoverExists(book.CoverPath) {
		m.status += " (cover file not found)"
	}
	return m, nil
}

func (m Model) addPage(msg addPageMsg) (tea.Model, tea.Cmd) {
	page, err := m.lm.AddPage(msg.BookID, msg.Title, msg.Content)
	if err != nil {
		return m.fail(err)
	}
	m.dialog = nil
	if err := m.detail.replay(len(m.detail.pages)+1, page.ID); err != nil {
		return m.fail(err)
	}
	m.detail.selectPage(page.ID)
	m.status = fmt.Sprintf("Added %s", page.DisplayTitle())
	return m, nil
}

func (m Model) editPage(msg editPageMsg) (tea.Model, tea.Cmd) {
	page, err := m.lm.UpdatePageContent(msg.PageID, msg.Content)
	if err != nil {
		return m.fail(err)
	}
	m.dialog = nil
	m.viewer.setPage(page)
	if err := m.detail.replay(len(m.detail.pages), 0); err != nil {
		return m.fail(err)
	}
	m.status = fmt.Sprintf("Saved %s", page.DisplayTitle())
	return m, nil
}

func (m Model) deletePage(msg deletePageMsg) (tea.Model, tea.Cmd) {
	if err := m.lm.DeletePage(msg.PageID); err != nil {
		return m.fail(err)
	}
	m.dialog = nil
	m.screen = screenDetail
	if err := m.detail.replay(len(m.detail.pages)-1, 0); err != nil {
		return m.fail(err)
	}
	m.status = "Page deleted"
	return m, nil
}

func (m Model) deleteBook(msg deleteBookMsg) (tea.Model, tea.Cmd) {
	if err := m.lm.DeleteBook(msg.BookID); err != nil {
		return m.fail(err)
	}
	m.dialog = nil
	m.screen = screenBooks
	if err := m.loadBooks(0); err != nil {
		return m.fail(err)
	}
	m.status = "Book deleted"
	return m, nil
}

func (m Model) currentHelp() bindingSet {
	switch m.screen {
	case screenDetail:
		return m.detail.help()
	case screenPage:
		return m.viewer.help()
	}
	return m.books.help()
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case screenBooks:
		body = m.books.View()
	case screenDetail:
		body = m.detail.View()
	case screenPage:
		body = m.viewer.View()
	}

	if m.dialog != nil {
		body = lipgloss.Place(max(m.width, 1), m.bodyHeight(), lipgloss.Center, lipgloss.Center, m.dialog.View())
	}

	status := ""
	if m.status != "" {
		status = StyleSuccess.Render(m.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		"",
		status,
		m.help.View(m.currentHelp()),
	)
}
