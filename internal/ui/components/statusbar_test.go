package components

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestHintIncludesKeyAndDesc(t *testing.T) {
	out := Hint("ctrl+c", "Cancel")
	assert.Contains(t, out, "Cancel")
	assert.Contains(t, out, "ctrl+c")
}

func TestStatusBarRendersHints(t *testing.T) {
	out := StatusBar([]string{Hint("q", "Quit")}, 0)
	assert.Contains(t, out, "Quit")
	assert.Empty(t, StatusBar(nil, 40))
}

func TestWrapHintsWrapsWhenNarrow(t *testing.T) {
	rows := wrapHints([]string{"123456", "abcdef", "ghijkl"}, 10)
	assert.Len(t, rows, 3)
	for _, row := range rows {
		assert.LessOrEqual(t, lipgloss.Width(row), 10)
	}

	rows = wrapHints([]string{"ab", "cd"}, 10)
	assert.Equal(t, []string{"ab   cd"}, rows)
}
