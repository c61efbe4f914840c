package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableColumn is one column of a TableGrid. Width excludes separators.
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

const gridIndent = 2

var (
	gridLineStyle   = lipgloss.NewStyle().Foreground(colorBorder)
	gridHeaderStyle = lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
)

// TableGrid lays rows out in fixed-width columns under a header and a rule.
// Every line is exactly tableWidth cells wide; the last column absorbs any
// slack so the grid fits a box content area.
func TableGrid(columns []TableColumn, rows [][]string, tableWidth int) string {
	if tableWidth <= 0 {
		return ""
	}
	if len(columns) == 0 {
		return padRight("", tableWidth)
	}

	border := lipgloss.RoundedBorder()
	cols := fitColumns(columns, tableWidth)
	sep := gridLineStyle.Inline(true).Render(border.Left)

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}

	out := make([]string, 0, len(rows)+2)
	out = append(out, gridLine(cols, headers, sep, tableWidth, gridHeaderStyle.Inline(true)))

	rule := make([]string, len(cols))
	for i, c := range cols {
		rule[i] = strings.Repeat(border.Top, c.Width)
	}
	out = append(out, gridLineStyle.Inline(true).Render(
		padRight(strings.Repeat(" ", gridIndent)+strings.Join(rule, border.Middle), tableWidth)))

	for _, row := range rows {
		out = append(out, gridLine(cols, row, sep, tableWidth, lipgloss.NewStyle()))
	}
	return strings.Join(out, "\n")
}

// fitColumns stretches or shrinks the last column so the row, including
// one separator cell between each pair of columns, fills tableWidth.
func fitColumns(columns []TableColumn, tableWidth int) []TableColumn {
	cols := make([]TableColumn, len(columns))
	copy(cols, columns)

	used := len(cols) - 1
	for i := range cols {
		cols[i].Width = max(cols[i].Width, 1)
		used += cols[i].Width
	}
	available := max(tableWidth-gridIndent, len(cols))
	last := &cols[len(cols)-1]
	last.Width = max(last.Width+available-used, 1)
	return cols
}

func gridLine(cols []TableColumn, cells []string, sep string, tableWidth int, style lipgloss.Style) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		text := ""
		if i < len(cells) {
			text = cells[i]
		}
		parts[i] = style.Render(alignCell(text, c.Width, c.Align))
	}
	return padRight(strings.Repeat(" ", gridIndent)+strings.Join(parts, sep), tableWidth)
}

func alignCell(text string, width int, align lipgloss.Position) string {
	if width <= 0 {
		return ""
	}
	cell := ClampTextWidth(text, width)
	pad := width - lipgloss.Width(cell)
	if pad <= 0 {
		return cell
	}
	switch align {
	case lipgloss.Right:
		return strings.Repeat(" ", pad) + cell
	case lipgloss.Center:
		left := pad / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", pad-left)
	default:
		return cell + strings.Repeat(" ", pad)
	}
}
