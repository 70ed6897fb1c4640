package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column. Numeric columns set AlignRight.
type Column struct {
	Title      string
	Width      int
	AlignRight bool
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
	Marked  map[int]bool // rows drawn in the warning color
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols, Marked: map[int]bool{}}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// Mark highlights row i, e.g. a repeated recipient.
func (t *Table) Mark(i int) { t.Marked[i] = true }

// fit pads or truncates s to exactly width terminal cells.
func fit(s string, width int, right bool) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	gap := strings.Repeat(" ", width-lipgloss.Width(s))
	if right {
		return gap + s
	}
	return s + gap
}

// Render returns the full table as a string. Cells are padded before
// styling so colors never change column widths.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	markStyle := lipgloss.NewStyle().Foreground(ColorWarning)

	cells := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		cells[i] = headerStyle.Render(fit(col.Title, col.Width, col.AlignRight))
	}
	sb.WriteString(strings.Join(cells, " ") + "\n")

	for i, col := range t.Columns {
		cells[i] = StyleMeta.Render(strings.Repeat("-", col.Width))
	}
	sb.WriteString(strings.Join(cells, " ") + "\n")

	for r, row := range t.Rows {
		style := cellStyle
		if t.Marked[r] {
			style = markStyle
		}
		for i, col := range t.Columns {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			cells[i] = style.Render(fit(val, col.Width, col.AlignRight))
		}
		sb.WriteString(strings.Join(cells, " ") + "\n")
	}
	return sb.String()
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-18s", p[0]+":"))
		sb.WriteString("  " + key + " " + StyleValue.Render(p[1]) + "\n")
	}
	return StyleBorder.Render(strings.TrimSuffix(sb.String(), "\n"))
}
