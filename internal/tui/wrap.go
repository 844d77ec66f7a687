package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Shamsear/typevelocity/internal/typing"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders each prompt position from its classification.
// Spaces are drawn as typing.SpaceGlyph so mistyped spaces stay visible.
func buildStyledRunes(p palette, prompt []rune, classes []typing.Class, cursorIndex int) []styledRune {
	words := findWords(prompt)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(prompt))
	for i, target := range prompt {
		class := typing.Untyped
		if i < len(classes) {
			class = classes[i]
		}
		style := p.pending
		switch class {
		case typing.Correct:
			style = p.correct
		case typing.Incorrect:
			style = p.incorrect
		default:
			if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
				style = p.currentWord
			}
		}
		if i == cursorIndex && class == typing.Untyped {
			style = style.Underline(true)
		}
		displayed := typing.DisplayRune(target)
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(prompt []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range prompt {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(prompt)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return &words[len(words)-1]
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits. The space at a
// break is kept at the end of the line so the glyph stays typeable.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if item.isSpace {
				line = append(line, item)
				i++
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				continue
			}
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx+1]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
