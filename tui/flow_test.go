package tui

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFlowRows(t *testing.T) {
	tests := []struct {
		name    string
		widths  []int
		width   int
		spacing int
		want    [][]int
	}{
		{"empty", nil, 10, 1, nil},
		{"single row", []int{3, 3}, 10, 1, [][]int{{0, 1}}},
		{"exact fit", []int{5, 5, 5}, 11, 1, [][]int{{0, 1}, {2}}},
		{"wrap each", []int{6, 6, 6}, 8, 1, [][]int{{0}, {1}, {2}}},
		{"wide item alone", []int{30, 3, 3}, 10, 1, [][]int{{0}, {1, 2}}},
		{"spacing counts", []int{4, 4}, 8, 1, [][]int{{0}, {1}}},
		{"no spacing", []int{4, 4}, 8, 0, [][]int{{0, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlowRows(tt.widths, tt.width, tt.spacing)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlowRows(%v, %d, %d) = %v, want %v", tt.widths, tt.width, tt.spacing, got, tt.want)
			}
		})
	}
}

func TestFlowRowsKeepsOrder(t *testing.T) {
	widths := []int{7, 2, 9, 4, 4, 12, 1, 8, 3, 6}
	rows := FlowRows(widths, 15, 1)

	next := 0
	for r, row := range rows {
		if len(row) == 0 {
			t.Fatalf("row %d is empty", r)
		}
		used := 0
		for i, idx := range row {
			if idx != next {
				t.Fatalf("row %d: got item %d, want %d", r, idx, next)
			}
			next++
			used += widths[idx]
			if i > 0 {
				used++
			}
		}
		if len(row) > 1 && used > 15 {
			t.Errorf("row %d overflows: %d cells", r, used)
		}
	}
	if next != len(widths) {
		t.Errorf("placed %d of %d items", next, len(widths))
	}
}

func TestVerticalNeighbor(t *testing.T) {
	rows := [][]int{{0, 1, 2}, {3, 4}, {5}}
	tests := []struct {
		idx, dr, want int
	}{
		{2, 1, 4},  // column clamps to the shorter row
		{4, -1, 1}, // same column above
		{3, 1, 5},
		{5, 1, 5},  // bottom row stays
		{0, -1, 0}, // top row stays
		{9, 1, 9},  // unknown index is returned unchanged
	}
	for _, tt := range tests {
		if got := verticalNeighbor(rows, tt.idx, tt.dr); got != tt.want {
			t.Errorf("verticalNeighbor(%d, %d) = %d, want %d", tt.idx, tt.dr, got, tt.want)
		}
	}
}

func TestFlowGridRender(t *testing.T) {
	labels := make([]string, 25)
	for i := range labels {
		labels[i] = fmt.Sprintf("Page %d", i+1)
	}
	g := flowGrid{labels: labels, selected: 24, width: 40}

	rows := g.rows()
	out := g.render(0)
	lines := strings.Split(out, "\n")
	if len(lines) != len(rows) {
		t.Fatalf("rendered %d lines for %d rows", len(lines), len(rows))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 40 {
			t.Errorf("line %d is %d cells wide", i, w)
		}
	}

	// Limited height scrolls to keep the last (selected) button visible.
	clipped := strings.Split(g.render(2), "\n")
	if len(clipped) != 2 {
		t.Fatalf("want 2 lines, got %d", len(clipped))
	}
	if !strings.Contains(clipped[1], "Page 25") {
		t.Errorf("selected button not visible: %q", clipped[1])
	}
}

func TestButtonLabelTruncates(t *testing.T) {
	long := strings.Repeat("chapter ", 10)
	if w := lipgloss.Width(buttonLabel(long)); w != maxButtonLabel {
		t.Errorf("label width = %d, want %d", w, maxButtonLabel)
	}
	if got := buttonLabel("Page 3"); got != "Page 3" {
		t.Errorf("short label changed: %q", got)
	}
}
