package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ██████   █████ █████  █████ ██████████   █████
░░██████ ░░███ ░░███  ░░███ ░░███░░░░███ ░░███
 ░███░███ ░███  ░███   ░███  ░███   ░░███ ░███
 ░███░░███░███  ░███   ░███  ░███    ░███ ░███
 ░███ ░░██████  ░███   ░███  ░███    ░███ ░███
 ░███  ░░█████  ░███   ░███  ░███    ███  ░███
 █████  ░░█████ ░░████████   ██████████   █████
░░░░░    ░░░░░   ░░░░░░░░   ░░░░░░░░░░   ░░░░░`

const bannerSubtitle = "Testable Submissions • Command-Line Interface"

// RenderBanner returns the styled block-letter banner with its subtitle
// centered underneath.
func RenderBanner() string {
	var b strings.Builder
	b.WriteString("\n")
	artWidth := 0
	for _, line := range strings.Split(strings.Trim(bannerArt, "\n"), "\n") {
		artWidth = max(artWidth, lipgloss.Width(line))
		b.WriteString(BannerStyle.Render(line) + "\n")
	}

	subWidth := lipgloss.Width(bannerSubtitle)
	centered := lipgloss.NewStyle().Width(max(artWidth, subWidth)).Align(lipgloss.Center)
	b.WriteString("\n")
	b.WriteString(centered.Foreground(colorMuted).Render(bannerSubtitle) + "\n")
	b.WriteString(centered.Foreground(colorRule).Render(strings.Repeat("─", subWidth)) + "\n")
	return b.String()
}
