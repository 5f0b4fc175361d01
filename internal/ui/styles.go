package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// Layout constants - single source of truth for viewport dimensions
const (
	MinViewportWidth = 80
	MaxViewportWidth = 130
	DefaultWidth     = 100 // Used when terminal size is unknown
	MinTableHeight   = 4
)

// DefaultTableRows caps the table body so one page of results fits without scrolling.
const DefaultTableRows = 10

// Layout holds computed dimensions for the current terminal size
type Layout struct {
	ViewportWidth int // clamped terminal width
	InnerWidth    int // ViewportWidth minus border chars
	TableHeight   int
}

// NewLayout creates a Layout from the terminal size, clamping the width
func NewLayout(terminalWidth, terminalHeight int) Layout {
	width := clamp(terminalWidth, MinViewportWidth, MaxViewportWidth)

	// Chrome above/below the table: title, divider, search row, candidate
	// list, filter row, labels, banner, help footer.
	tableHeight := clamp(terminalHeight-16, MinTableHeight, DefaultTableRows+1)

	return Layout{
		ViewportWidth: width,
		InnerWidth:    width - 2,
		TableHeight:   tableHeight,
	}
}

// DefaultLayout returns a layout using the default dimensions
func DefaultLayout() Layout {
	return NewLayout(DefaultWidth, 30)
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Color palette - centralized color definitions
var (
	ColorBorder    = lipgloss.Color("63")  // violet
	ColorHighlight = lipgloss.Color("57")  // deep violet background
	ColorText      = lipgloss.Color("15")  // bright white
	ColorAccent    = lipgloss.Color("86")  // cyan
	ColorTextDim   = lipgloss.Color("241") // gray
	ColorError     = lipgloss.Color("196") // red
)

// Common styles - reusable style definitions
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	AccentStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorHighlight).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	ValidationStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim).
			Bold(true)
)

// BorderedBox returns the style for the main content box
func BorderedBox(layout Layout) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Padding(0, 1).
		Width(layout.ViewportWidth)
}

// NewAppSpinner creates the standard spinner used everywhere in the app
func NewAppSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = AccentStyle
	return s
}

// ApplyTableStyles applies the app table styling to a bubbles table
func ApplyTableStyles(t *table.Model) {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorText)
	styles.Selected = styles.Selected.
		Foreground(ColorText).
		Background(ColorHighlight).
		Bold(false)
	t.SetStyles(styles)
}

// ViewHeader renders title + full-width divider
func ViewHeader(title string, innerWidth int) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(DimStyle.Render(strings.Repeat("─", innerWidth)))
	b.WriteString("\n")
	return b.String()
}
