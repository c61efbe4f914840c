package components

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

const (
	colorBorder      = lipgloss.Color("#273540")
	colorTitle       = lipgloss.Color("#7f57b4")
	colorLabel       = lipgloss.Color("#436b77")
	colorMuted       = lipgloss.Color("#9ba0bf")
	colorValue       = lipgloss.Color("#d7d9da")
	colorErrorBorder = lipgloss.Color("#7a2f3a")
	colorErrorTitle  = lipgloss.Color("#e06c75")
	colorErrorBody   = lipgloss.Color("#d6b5b5")
)

var (
	boxBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)

	boxHeaderStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	boxMutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	boxValueStyle = lipgloss.NewStyle().
			Foreground(colorValue)

	errorBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorErrorBorder).
			Padding(1, 2)

	errorHeaderStyle = lipgloss.NewStyle().
				Foreground(colorErrorTitle).
				Bold(true)

	errorBodyStyle = lipgloss.NewStyle().
			Foreground(colorErrorBody)
)

// boxWidth is ~70% of the terminal, kept within [40, 80] and never wider
// than the terminal itself. Zero means unknown width.
func boxWidth(width int) int {
	if width <= 0 {
		return 0
	}
	w := min(max(width*70/100, 40), 80)
	return min(w, width)
}

// Box renders content inside a bordered box.
func Box(content string, width int) string {
	return boxBorder.Width(boxWidth(width)).Render(content)
}

// BoxContentWidth returns the inner content width excluding border and padding.
func BoxContentWidth(width int) int {
	w := boxWidth(width)
	if w <= 0 {
		return 0
	}
	// Border adds 2, padding adds 4 (left+right).
	return max(w-6, 0)
}

// ClampTextWidth sanitizes text to one line and truncates it to width.
func ClampTextWidth(text string, width int) string {
	cleaned := SanitizeOneLine(text)
	if width <= 0 || lipgloss.Width(cleaned) <= width {
		return cleaned
	}
	return truncateRunes(cleaned, width)
}

// ErrorBox renders a red bordered box for errors.
func ErrorBox(title, message string, width int) string {
	var body strings.Builder
	if title != "" {
		body.WriteString(errorHeaderStyle.Render(title) + "\n\n")
	}
	body.WriteString(errorBodyStyle.Render(message))
	return errorBorder.Width(boxWidth(width)).Render(body.String())
}

// TitledBox renders a box with its title set into the top border.
func TitledBox(title, content string, width int) string {
	boxed := Box(content, width)
	if title == "" {
		return boxed
	}
	lines := strings.Split(boxed, "\n")
	lineWidth := lipgloss.Width(lines[0])
	if lineWidth < 4 {
		return boxed
	}
	lines[0] = titleBorder(title, lineWidth)
	return strings.Join(lines, "\n")
}

// titleBorder draws a rounded top border of lineWidth cells with the title
// centered in it.
func titleBorder(title string, lineWidth int) string {
	border := lipgloss.RoundedBorder()
	inner := lineWidth - 2

	label := fmt.Sprintf(" [ %s ] ", SanitizeOneLine(title))
	if lipgloss.Width(label) > inner {
		label = truncateRunes(label, inner)
	}
	labelWidth := lipgloss.Width(label)
	left := max((inner-labelWidth)/2, 0)
	right := max(inner-labelWidth-left, 0)

	edge := lipgloss.NewStyle().Foreground(colorBorder)
	return edge.Render(border.TopLeft+strings.Repeat(border.Top, left)) +
		boxHeaderStyle.Render(label) +
		edge.Render(strings.Repeat(border.Top, right)+border.TopRight)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// InfoRow renders a label: value row for detail views.
func InfoRow(label, value string) string {
	return boxMutedStyle.Render(SanitizeOneLine(label)+": ") + boxValueStyle.Render(SanitizeOneLine(value))
}
