package tui

import (
	"strings"
	"testing"

	"github.com/Shamsear/typevelocity/internal/typing"
)

func TestBuildStyledRunesCursor(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("ab")
	input := []rune("a")

	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, input), len(input))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != p.correct.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != p.currentWord.Underline(true).Render("b") {
		t.Fatalf("expected cursor style for second rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("ab")
	input := []rune("ax")

	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, input), -1)
	if runes[1].s != p.incorrect.Render("b") {
		t.Fatalf("expected prompt rune drawn in incorrect style")
	}
}

func TestBuildStyledRunesSpaceGlyph(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("a b")
	input := []rune("ax")

	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, input), len(input))
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != p.incorrect.Render(string(typing.SpaceGlyph)) {
		t.Fatalf("expected space glyph for mistyped space")
	}
	if !runes[1].isSpace {
		t.Fatalf("expected space flag on glyph")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("one two")
	input := []rune("o")

	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, input), len(input))
	if runes[2].s != p.currentWord.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != p.pending.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("aaa bbb ccc")
	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, nil), -1)

	out := wrapStyledRunes(runes, 5)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	for _, line := range lines[:2] {
		if !strings.Contains(line, string(typing.SpaceGlyph)) {
			t.Fatalf("expected break space kept at line end: %q", line)
		}
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	p := paletteFor("default")
	prompt := []rune("abcdefgh")
	runes := buildStyledRunes(p, prompt, typing.Classify(prompt, nil), -1)

	out := wrapStyledRunes(runes, 3)
	if got := strings.Count(out, "\n"); got != 2 {
		t.Fatalf("expected hard breaks inside a long word, got %d", got)
	}
}

func TestPaletteForUnknownTheme(t *testing.T) {
	if paletteFor("neon").correct.Render("x") != paletteFor("default").correct.Render("x") {
		t.Fatalf("expected default palette fallback")
	}
}
