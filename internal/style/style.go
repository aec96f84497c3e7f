// Package style provides the terminal styling used by recipectl.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Success is used for valid results (green).
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	// Warning is used for degraded results (yellow).
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	// Error is used for failures (red).
	Error = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	// Dim is used for secondary information.
	Dim = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	// Bold is used for headers.
	Bold = lipgloss.NewStyle().Bold(true)

	SuccessPrefix = Success.Render("✓")
	WarningPrefix = Warning.Render("⚠")
	ErrorPrefix   = Error.Render("✗")
)

// Table renders left-aligned columns sized to their widest cell.
type Table struct {
	headers []string
	rows    [][]string
	indent  string
}

// NewTable creates a table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, indent: "  "}
}

// AddRow appends a row, padding missing cells.
func (t *Table) AddRow(values ...string) *Table {
	for len(values) < len(t.headers) {
		values = append(values, "")
	}
	t.rows = append(t.rows, values)
	return t
}

// Render returns the formatted table.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i := range widths {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, render func(string) string) {
		sb.WriteString(t.indent)
		for i, w := range widths {
			cell := cells[i]
			sb.WriteString(render(cell))
			if i < len(widths)-1 {
				sb.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)+2))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.headers, func(s string) string { return Bold.Render(s) })
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(t.indent + Dim.Render(strings.Repeat("─", total-2)) + "\n")
	for _, row := range t.rows {
		writeRow(row, func(s string) string { return s })
	}
	return sb.String()
}
