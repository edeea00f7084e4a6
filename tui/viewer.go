package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"book-manager/library"
)

// viewerModel shows one page read-only. Edits go through a dialog.
type viewerModel struct {
	page     *library.Page
	viewport viewport.Model
	keys     keyMap
}

func newViewerModel(page *library.Page, keys keyMap, width, height int) viewerModel {
	m := viewerModel{page: page, keys: keys, viewport: viewport.New(0, 0)}
	m.setSize(width, height)
	m.setPage(page)
	return m
}

// viewerChrome is the number of lines taken by the header.
const viewerChrome = 3

func (m *viewerModel) setSize(width, height int) {
	m.viewport.Width = max(width, 10)
	m.viewport.Height = max(height-viewerChrome, 3)
	if m.page != nil {
		m.setPage(m.page)
	}
}

func (m *viewerModel) setPage(page *library.Page) {
	m.page = page
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(page.Content))
}

func (m viewerModel) help() bindingSet {
	return bindingSet{m.keys.Up, m.keys.Down, m.keys.Edit, m.keys.Delete, m.keys.Back}
}

func (m viewerModel) Update(msg tea.Msg) (viewerModel, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.keys.Back):
			return m, send(backMsg{})
		case key.Matches(k, m.keys.Edit):
			return m, send(showDialogMsg{Dialog: newContentForm(m.page)})
		case key.Matches(k, m.keys.Delete):
			return m, send(showDialogMsg{Dialog: confirmDeletePage(m.page)})
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m viewerModel) View() string {
	header := StyleHeader.Render(m.page.DisplayTitle()) + "  " +
		StyleMeta.Render(fmt.Sprintf("page %d · %3.f%%", m.page.Number, m.viewport.ScrollPercent()*100))
	return header + "\n\n" + m.viewport.View()
}
