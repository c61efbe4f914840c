package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	hintDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
	keyCapStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#16161d")).
			Background(lipgloss.Color("#888ba4")).
			Bold(true).
			Padding(0, 1)
	statusBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorBorder).
			PaddingLeft(2)
)

const hintGap = "   "

// StatusBar renders key hints under a rule, wrapping onto extra lines when
// they do not fit in width. A zero width keeps everything on one line.
func StatusBar(hints []string, width int) string {
	if len(hints) == 0 {
		return ""
	}
	style := statusBarStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(wrapHints(hints, width-2), "\n"))
}

// Hint formats a single key hint like "Cancel ctrl+c".
func Hint(key, desc string) string {
	return hintDescStyle.Render(desc+" ") + keyCapStyle.Render(key)
}

func wrapHints(hints []string, width int) []string {
	if width <= 0 {
		return []string{strings.Join(hints, hintGap)}
	}
	var rows []string
	var line string
	for _, h := range hints {
		switch {
		case line == "":
			line = h
		case lipgloss.Width(line)+len(hintGap)+lipgloss.Width(h) > width:
			rows = append(rows, line)
			line = h
		default:
			line += hintGap + h
		}
	}
	return append(rows, line)
}
