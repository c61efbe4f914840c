package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the notifier, previews and the upload view.
var (
	colorBrand   = lipgloss.Color("#7f57b4")
	colorLink    = lipgloss.Color("#436b77")
	colorAccent  = lipgloss.Color("#a7754e")
	colorText    = lipgloss.Color("#d7d9da")
	colorMuted   = lipgloss.Color("#9ba0bf")
	colorOK      = lipgloss.Color("#3f866b")
	colorFailure = lipgloss.Color("#e06c75")
	colorWarning = lipgloss.Color("#c78854")
	colorRule    = lipgloss.Color("#273540")
)

var (
	BannerStyle  = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	NormalStyle  = lipgloss.NewStyle().Foreground(colorText)
	MutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(colorOK)
	ErrorStyle   = lipgloss.NewStyle().Foreground(colorFailure).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	AccentStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	LinkStyle    = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// HeaderStyle titles the upload view.
	HeaderStyle = lipgloss.NewStyle().Foreground(colorLink).Bold(true).PaddingBottom(1)
)
