package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// The board must stay readable on light and dark terminals, so colors are
// adaptive pairs rather than fixed codes.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorAccent     = ac("162", "212")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorDoneFg     = ac("245", "240")

	headerStyle = lipgloss.NewStyle().Bold(true)
	tabStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	tabActive   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	groupHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorMuted)

	rowStyle = lipgloss.NewStyle()
	rowFocus = lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true)
	rowDim  = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	rowDone = lipgloss.NewStyle().Foreground(colorDoneFg).Strikethrough(true)

	dropMarkStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(ac("160", "203"))
	previewStyle  = lipgloss.NewStyle().Foreground(colorAccent).Italic(true)
)

// applyAccent overrides the accent pair from config ("212" or "#RRGGBB").
func applyAccent(accent string) {
	accent = strings.TrimSpace(accent)
	if accent == "" {
		return
	}
	colorAccent = ac(accent, accent)
	tabActive = tabActive.Foreground(colorAccent)
	dropMarkStyle = dropMarkStyle.Foreground(colorAccent)
	previewStyle = previewStyle.Foreground(colorAccent)
}
