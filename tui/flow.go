package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	// buttonSpacing is the gap between page buttons on one row.
	buttonSpacing = 1
	// maxButtonLabel caps the visible width of a page title on its button.
	maxButtonLabel = 24
)

// FlowRows places items of the given widths left to right, starting a new
// row when the next item would run past width. A row always takes at least
// one item, so an item wider than width sits alone on its row. The result
// holds item indices per row.
func FlowRows(widths []int, width, spacing int) [][]int {
	var (
		rows [][]int
		row  []int
		x    int
	)
	for i, w := range widths {
		if len(row) > 0 && x+w > width {
			rows = append(rows, row)
			row = nil
			x = 0
		}
		row = append(row, i)
		x += w + spacing
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

// locate returns the row and column of item idx.
func locate(rows [][]int, idx int) (int, int) {
	for r, row := range rows {
		if len(row) > 0 && idx >= row[0] && idx <= row[len(row)-1] {
			return r, idx - row[0]
		}
	}
	return -1, -1
}

// verticalNeighbor returns the item above (dr = -1) or below (dr = 1) idx,
// keeping the column when the target row is long enough.
func verticalNeighbor(rows [][]int, idx, dr int) int {
	r, c := locate(rows, idx)
	if r < 0 {
		return idx
	}
	t := r + dr
	if t < 0 || t >= len(rows) {
		return idx
	}
	target := rows[t]
	return target[min(c, len(target)-1)]
}

// buttonLabel truncates a page title for its button.
func buttonLabel(title string) string {
	return ansi.Truncate(title, maxButtonLabel, "…")
}

// flowGrid renders page buttons into wrapped rows.
type flowGrid struct {
	labels   []string
	selected int
	width    int
}

func (g flowGrid) buttons() []string {
	out := make([]string, len(g.labels))
	for i, l := range g.labels {
		style := styleButton
		if i == g.selected {
			style = styleButtonSelected
		}
		out[i] = style.Render(buttonLabel(l))
	}
	return out
}

// rows lays the buttons out for the grid width.
func (g flowGrid) rows() [][]int {
	widths := make([]int, len(g.labels))
	for i, l := range g.labels {
		widths[i] = lipgloss.Width(styleButton.Render(buttonLabel(l)))
	}
	return FlowRows(widths, g.width, buttonSpacing)
}

// render draws at most maxRows rows, scrolled so the selected button is
// visible.
func (g flowGrid) render(maxRows int) string {
	if len(g.labels) == 0 {
		return ""
	}
	buttons := g.buttons()
	rows := g.rows()

	first := 0
	if maxRows > 0 && len(rows) > maxRows {
		sel, _ := locate(rows, g.selected)
		if sel >= maxRows {
			first = sel - maxRows + 1
		}
	}
	last := len(rows)
	if maxRows > 0 {
		last = min(first+maxRows, len(rows))
	}

	gap := strings.Repeat(" ", buttonSpacing)
	lines := make([]string, 0, last-first)
	for _, row := range rows[first:last] {
		cells := make([]string, len(row))
		for i, idx := range row {
			cells[i] = buttons[idx]
		}
		lines = append(lines, strings.Join(cells, gap))
	}
	return strings.Join(lines, "\n")
}
