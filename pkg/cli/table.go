package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for terminal tables.
type Theme struct {
	Primary lipgloss.Color // Main accent color
	Dim     lipgloss.Color // Dimmed/help text color
}

// DefaultTheme is the default bright green theme.
var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Styles holds all styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Border lipgloss.Style
	Dim    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Border: lipgloss.NewStyle().Foreground(t.Primary),
		Dim:    lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Tabler is implemented by results that have a table rendering.
type Tabler interface {
	Table() Table
}

// Table is a titled grid of cells.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
	Footer string
}

// Render renders the table inside a rounded border.
func (t Table) Render(s Styles) string {
	cols := len(t.Header)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	inner := 0
	for _, w := range widths {
		inner += w + 2
	}
	inner = max(inner, lipgloss.Width(t.Title)+2)

	bc := s.Border
	var lines []string
	lines = append(lines, bc.Render("╭"+strings.Repeat("─", inner)+"╮"))
	if t.Title != "" {
		title := s.Title.Render(t.Title)
		pad := max(0, inner-1-lipgloss.Width(title))
		lines = append(lines, bc.Render("│")+" "+title+strings.Repeat(" ", pad)+bc.Render("│"))
		lines = append(lines, bc.Render("├"+strings.Repeat("─", inner)+"┤"))
	}

	row := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(bc.Render("│"))
		used := 0
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			text := cell
			if style != nil {
				text = style.Render(cell)
			}
			b.WriteString(" " + text + strings.Repeat(" ", w-lipgloss.Width(cell)) + " ")
			used += w + 2
		}
		b.WriteString(strings.Repeat(" ", max(0, inner-used)))
		b.WriteString(bc.Render("│"))
		return b.String()
	}

	if len(t.Header) > 0 {
		lines = append(lines, row(t.Header, &s.Header))
	}
	for _, r := range t.Rows {
		lines = append(lines, row(r, nil))
	}
	lines = append(lines, bc.Render("╰"+strings.Repeat("─", inner)+"╯"))
	if t.Footer != "" {
		lines = append(lines, s.Dim.Render(t.Footer))
	}
	return strings.Join(lines, "\n") + "\n"
}
