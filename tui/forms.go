package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"book-manager/library"
)

// dialog is a modal drawn over the current screen. It closes itself by
// emitting closeDialogMsg; submissions are messages the root model acts on.
type dialog interface {
	Init() tea.Cmd
	Update(tea.Msg) (dialog, tea.Cmd)
	View() string
}

const fieldWidth = 48

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = fieldWidth
	in.Prompt = "│ "
	return in
}

func renderFormError(err string) string {
	if err == "" {
		return ""
	}
	return "\n" + StyleDanger.Render(err) + "\n"
}

// ------------------ Add book ------------------

const (
	bookFieldTitle = iota
	bookFieldCover
)

type bookForm struct {
	inputs  []textinput.Model
	focused int
	err     string
}

func newBookForm() bookForm {
	f := bookForm{inputs: make([]textinput.Model, 2)}
	f.inputs[bookFieldTitle] = newInput("Book title", 200)
	f.inputs[bookFieldCover] = newInput("/path/to/cover.png (optional)", 1024)
	f.inputs[bookFieldTitle].Focus()
	return f
}

func (f bookForm) Init() tea.Cmd { return textinput.Blink }

func (f bookForm) focus(i int) (bookForm, tea.Cmd) {
	f.inputs[f.focused].Blur()
	f.focused = (i + len(f.inputs)) % len(f.inputs)
	return f, f.inputs[f.focused].Focus()
}

func (f bookForm) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return f, send(closeDialogMsg{})
		case "tab", "down":
			return f.focus(f.focused + 1)
		case "shift+tab", "up":
			return f.focus(f.focused - 1)
		case "enter":
			if f.focused < len(f.inputs)-1 {
				return f.focus(f.focused + 1)
			}
			title := strings.TrimSpace(f.inputs[bookFieldTitle].Value())
			if title == "" {
				f.err = "A title is required."
				return f.focus(bookFieldTitle)
			}
			return f, send(addBookMsg{
				Title:     title,
				CoverPath: strings.TrimSpace(f.inputs[bookFieldCover].Value()),
			})
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, cmd
}

func (f bookForm) View() string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Add Book"))
	b.WriteString("\n\n")
	b.WriteString(StyleNormal.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.inputs[bookFieldTitle].View())
	b.WriteString("\n\n")
	b.WriteString(StyleNormal.Render("Cover image"))
	b.WriteString("\n")
	b.WriteString(f.inputs[bookFieldCover].View())
	b.WriteString("\n")
	b.WriteString(renderFormError(f.err))
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render("tab next field · enter save · esc cancel"))
	return StyleDialog.Render(b.String())
}

// ------------------ Add page ------------------

type pageForm struct {
	bookID    int64
	title     textinput.Model
	content   textarea.Model
	onContent bool
	err       string
}

func newContentArea(value string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Page content"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(fieldWidth + 12)
	ta.SetHeight(12)
	ta.SetValue(value)
	return ta
}

func newPageForm(bookID int64) pageForm {
	f := pageForm{
		bookID:  bookID,
		title:   newInput("Page title (optional)", 200),
		content: newContentArea(""),
	}
	f.title.Focus()
	return f
}

func (f pageForm) Init() tea.Cmd { return textinput.Blink }

func (f pageForm) toggleFocus() (pageForm, tea.Cmd) {
	f.onContent = !f.onContent
	if f.onContent {
		f.title.Blur()
		return f, f.content.Focus()
	}
	f.content.Blur()
	return f, f.title.Focus()
}

func (f pageForm) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return f, send(closeDialogMsg{})
		case "tab", "shift+tab":
			return f.toggleFocus()
		case "enter":
			if !f.onContent {
				return f.toggleFocus()
			}
		case "ctrl+s":
			content := f.content.Value()
			if strings.TrimSpace(content) == "" {
				f.err = "Page content is required."
				if !f.onContent {
					return f.toggleFocus()
				}
				return f, nil
			}
			return f, send(addPageMsg{
				BookID:  f.bookID,
				Title:   strings.TrimSpace(f.title.Value()),
				Content: content,
			})
		}
	}

	var cmd tea.Cmd
	if f.onContent {
		f.content, cmd = f.content.Update(msg)
	} else {
		f.title, cmd = f.title.Update(msg)
	}
	return f, cmd
}

func (f pageForm) View() string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Add Page"))
	b.WriteString("\n\n")
	b.WriteString(StyleNormal.Render("Title"))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n\n")
	b.WriteString(StyleNormal.Render("Content"))
	b.WriteString("\n")
	b.WriteString(f.content.View())
	b.WriteString("\n")
	b.WriteString(renderFormError(f.err))
	b.WriteString("\n")
	b.WriteString(StyleHelp.Render("tab switch field · ctrl+s save · esc cancel"))
	return StyleDialog.Render(b.String())
}

// ------------------ Edit page content ------------------

type contentForm struct {
	page    *library.Page
	content textarea.Model
}

func newContentForm(page *library.Page) contentForm {
	f := contentForm{page: page, content: newContentArea(page.Content)}
	f.content.Focus()
	return f
}

func (f contentForm) Init() tea.Cmd { return textarea.Blink }

func (f contentForm) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "esc":
			return f, send(closeDialogMsg{})
		case "ctrl+s":
			return f, send(editPageMsg{PageID: f.page.ID, Content: f.content.Value()})
		}
	}
	var cmd tea.Cmd
	f.content, cmd = f.content.Update(msg)
	return f, cmd
}

func (f contentForm) View() string {
	var b strings.Builder
	b.WriteString(StyleHeader.Render("Edit " + f.page.DisplayTitle()))
	b.WriteString("\n\n")
	b.WriteString(f.content.View())
	b.WriteString("\n\n")
	b.WriteString(StyleHelp.Render("ctrl+s save · esc cancel"))
	return StyleDialog.Render(b.String())
}

// ------------------ Confirm ------------------

type confirmDialog struct {
	title   string
	lines   []string
	confirm tea.Msg
}

func confirmDeleteBook(book *library.Book, pages int) confirmDialog {
	return confirmDialog{
		title: "Delete Book",
		lines: []string{
			fmt.Sprintf("Delete %q?", book.Title),
			fmt.Sprintf("Its %d page(s) will be deleted too.", pages),
		},
		confirm: deleteBookMsg{BookID: book.ID},
	}
}

func confirmDeletePage(page *library.Page) confirmDialog {
	return confirmDialog{
		title:   "Delete Page",
		lines:   []string{fmt.Sprintf("Delete %q?", page.DisplayTitle())},
		confirm: deletePageMsg{PageID: page.ID},
	}
}

func (d confirmDialog) Init() tea.Cmd { return nil }

func (d confirmDialog) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "y", "enter":
			return d, send(d.confirm)
		case "n", "esc":
			return d, send(closeDialogMsg{})
		}
	}
	return d, nil
}

func (d confirmDialog) View() string {
	var b strings.Builder
	b.WriteString(StyleDanger.Render(d.title))
	b.WriteString("\n\n")
	for _, l := range d.lines {
		b.WriteString(StyleNormal.Render(l))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(StyleDanger.Render("This cannot be undone."))
	b.WriteString("\n\n")
	b.WriteString(StyleHelp.Render("y/enter confirm · n/esc cancel"))
	return StyleDialog.Render(b.String())
}

// ------------------ Message ------------------

// messageDialog shows text until dismissed. Errors and About use it.
type messageDialog struct {
	title string
	body  string
	style lipgloss.Style
}

func newErrorDialog(err error) messageDialog {
	return messageDialog{title: "Error", body: err.Error(), style: StyleDanger}
}

func (d messageDialog) Init() tea.Cmd { return nil }

func (d messageDialog) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc", "q", " ":
			return d, send(closeDialogMsg{})
		}
	}
	return d, nil
}

func (d messageDialog) View() string {
	var b strings.Builder
	b.WriteString(d.style.Render(d.title))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Width(fieldWidth + 12).Render(d.body))
	b.WriteString("\n\n")
	b.WriteString(StyleHelp.Render("enter OK"))
	return StyleDialog.Render(b.String())
}
