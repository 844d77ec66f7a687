package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	correct     lipgloss.Style
	incorrect   lipgloss.Style
	pending     lipgloss.Style
	currentWord lipgloss.Style
	footer      lipgloss.Style
	title       lipgloss.Style
	accent      lipgloss.Style
	muted       lipgloss.Style
}

func newPalette(fg, bad, pending, current, footer, accent string) palette {
	return palette{
		correct:     lipgloss.NewStyle().Foreground(lipgloss.Color(fg)),
		incorrect:   lipgloss.NewStyle().Foreground(lipgloss.Color(bad)),
		pending:     lipgloss.NewStyle().Foreground(lipgloss.Color(pending)),
		currentWord: lipgloss.NewStyle().Foreground(lipgloss.Color(current)),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color(footer)),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),
		accent:      lipgloss.NewStyle().Foreground(lipgloss.Color(accent)),
		muted:       lipgloss.NewStyle().Foreground(lipgloss.Color(pending)),
	}
}

var palettes = map[string]palette{
	"default": newPalette("#F0F0F0", "#FF4D4F", "#8C8C8C", "#C89A3A", "#6E6E6E", "#C89A3A"),
	"dark":    newPalette("#D9D9D9", "#FF7875", "#595959", "#69C0FF", "#595959", "#69C0FF"),
	"light":   newPalette("#141414", "#CF1322", "#8C8C8C", "#AD6800", "#8C8C8C", "#AD6800"),
}

// paletteFor falls back to the default theme for unknown names.
func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["default"]
}
