// Package tui is the interactive terminal front end: a grid of book cards, a
// book detail screen with flow-wrapped page buttons, a page viewer and modal
// dialogs for adding, editing and deleting.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette matching the CLI's fatih/color usage
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#00AF00", Dark: "#00D700"}
	ColorCyan   = lipgloss.AdaptiveColor{Light: "#00AFAF", Dark: "#00D7D7"}
	ColorWhite  = lipgloss.AdaptiveColor{Light: "#262626", Dark: "#FFFFFF"}
	ColorGray   = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#808080"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#D7AF00", Dark: "#FFD700"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
)

var (
	StyleNormal = lipgloss.NewStyle().Foreground(ColorWhite)

	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	StyleHelp = lipgloss.NewStyle().Foreground(ColorGray)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)

	StyleMeta = lipgloss.NewStyle().Foreground(ColorCyan)

	StyleDanger = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)

	// StyleDialog frames modal dialogs.
	StyleDialog = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorCyan).
			Padding(1, 2)
)

// Page buttons in the book detail grid.
var (
	styleButton = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(lipgloss.AdaptiveColor{Light: "#E4E4E4", Dark: "#3A3A3A"}).
			Padding(0, 1)

	styleButtonSelected = styleButton.
				Foreground(lipgloss.Color("#000000")).
				Background(ColorYellow).
				Bold(true)

	// styleAction is used for the "Add Page" and "Load More Pages" controls.
	styleAction = lipgloss.NewStyle().
			Foreground(ColorCyan).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)
)
