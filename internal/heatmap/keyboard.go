package heatmap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Rows is the US keyboard layout drawn by RenderKeyboard. The final row is
// the space bar.
var Rows = [][]string{
	{"`", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="},
	{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]", "\\"},
	{"a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'"},
	{"z", "x", "c", "v", "b", "n", "m", ",", ".", "/"},
	{" "},
}

var rowIndent = []int{0, 2, 3, 4, 12}

var (
	keyStyle = lipgloss.NewStyle().Padding(0, 1)

	intensityStyles = map[Intensity]lipgloss.Style{
		None:   keyStyle.Foreground(lipgloss.Color("#B0B0B0")).Background(lipgloss.Color("#303030")),
		Low:    keyStyle.Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#52C41A")),
		Medium: keyStyle.Foreground(lipgloss.Color("#101010")).Background(lipgloss.Color("#FADB14")),
		High:   keyStyle.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#FF4D4F")),
	}
	legendStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// StyleFor returns the keycap style for an intensity.
func StyleFor(i Intensity) lipgloss.Style {
	return intensityStyles[i]
}

// RenderKeyboard draws the layout with each key coloured by intensity.
func RenderKeyboard(t *Table) string {
	lines := make([]string, 0, len(Rows))
	for i, row := range Rows {
		caps := make([]string, 0, len(row))
		for _, key := range row {
			label := key
			if key == " " {
				label = strings.Repeat(" ", 10) + "space" + strings.Repeat(" ", 10)
			}
			caps = append(caps, StyleFor(t.Intensity(key)).Render(label))
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, caps...)
		lines = append(lines, strings.Repeat(" ", rowIndent[i])+line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderLegend explains the colours.
func RenderLegend() string {
	parts := []string{
		StyleFor(Low).Render("low"),
		StyleFor(Medium).Render("medium"),
		StyleFor(High).Render("high"),
	}
	return legendStyle.Render("errors: ") + strings.Join(parts, " ")
}

// RenderTopList lists the worst keys as plain text.
func RenderTopList(t *Table, n int) string {
	top := t.Top(n)
	if len(top) == 0 {
		return "No key errors recorded."
	}
	var b strings.Builder
	for i, kc := range top {
		key := kc.Key
		if key == " " {
			key = "space"
		}
		fmt.Fprintf(&b, "%2d. %-6s %d\n", i+1, key, kc.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}
