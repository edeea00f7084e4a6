package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"book-manager/library"
)

// Screens emit these to ask the root model for a store call or a screen
// change. The root model performs the call and only then touches the view.

type openBookMsg struct{ BookID int64 }

type openPageMsg struct{ Page *library.Page }

type backMsg struct{}

type showDialogMsg struct{ Dialog dialog }

type closeDialogMsg struct{}

type addBookMsg struct {
	Title     string
	CoverPath string
}

type addPageMsg struct {
	BookID  int64
	Title   string
	Content string
}

type editPageMsg struct {
	PageID  int64
	Content string
}

type deleteBookMsg struct{ BookID int64 }

type deletePageMsg struct{ PageID int64 }

// errMsg reports a failed store call; it is shown in a modal.
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
