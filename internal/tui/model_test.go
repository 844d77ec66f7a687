package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/profile"
	"github.com/Shamsear/typevelocity/internal/session"
	"github.com/Shamsear/typevelocity/internal/store"
)

type fixedSource string

func (s fixedSource) Next(context.Context, int) string {
	return string(s)
}

func newTestModel(t *testing.T, prompt string) (*Model, *clock.Fixed) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tui.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	clk := &clock.Fixed{T: time.Date(2024, 5, 6, 9, 0, 0, 0, time.Local)}
	log := logging.Discard()
	ctx := context.Background()
	engine := session.New(ctx, session.Deps{
		Clock:        clk,
		Log:          log,
		Profiles:     profile.NewRepository(st, log, clk, profile.Goals{}),
		Leaderboards: leaderboard.NewRepository(st, log),
		Heatmap:      heatmap.NewRepository(st, log),
	})
	m := NewModel(ctx, engine, fixedSource(prompt))
	t.Cleanup(m.Close)
	if cmd := m.Init(); cmd == nil {
		t.Fatalf("expected prompt fetch command")
	}
	m.Update(promptMsg{text: prompt})
	return m, clk
}

func typeText(m *Model, clk *clock.Fixed, text string) {
	for _, r := range text {
		clk.Advance(500 * time.Millisecond)
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPromptStartsSession(t *testing.T) {
	m, _ := newTestModel(t, "ab c")
	if m.screen != screenTyping {
		t.Fatalf("expected typing screen, got %d", m.screen)
	}
	if m.engine.State() != session.Active {
		t.Fatalf("expected active engine, got %s", m.engine.State())
	}
	if string(m.prompt) != "ab c" {
		t.Fatalf("unexpected prompt %q", string(m.prompt))
	}
}

func TestTypingCompletesSession(t *testing.T) {
	m, clk := newTestModel(t, "ab c")
	typeText(m, clk, "ab c")

	if m.screen != screenResults {
		t.Fatalf("expected results screen, got %d", m.screen)
	}
	if m.result == nil || m.result.Session.Accuracy != 100 {
		t.Fatalf("expected perfect result, got %+v", m.result)
	}
	found := false
	for _, n := range m.notices {
		if strings.HasPrefix(n, "Achievement unlocked: First Steps") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected first session notice, got %v", m.notices)
	}
	view := m.View()
	if !strings.Contains(view, "Session complete") || !strings.Contains(view, "XP") {
		t.Fatalf("results view missing summary: %s", view)
	}
}

func TestBackspaceAndMistype(t *testing.T) {
	m, clk := newTestModel(t, "abc")
	typeText(m, clk, "ax")
	if m.engine.KeyErrors()["x"] != 1 {
		t.Fatalf("expected mistyped key recorded, got %v", m.engine.KeyErrors())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if string(m.input) != "a" {
		t.Fatalf("expected input trimmed, got %q", string(m.input))
	}
	typeText(m, clk, "bc")
	if m.screen != screenResults {
		t.Fatalf("expected results after correction")
	}
}

func TestPasteIsIgnored(t *testing.T) {
	m, _ := newTestModel(t, "ab c")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab c"), Paste: true})
	if len(m.input) != 0 {
		t.Fatalf("pasted text must not be typed, got %q", string(m.input))
	}
	if m.screen != screenTyping || m.result != nil {
		t.Fatalf("paste must not complete the session, screen %d", m.screen)
	}
	if n := m.engine.Profile().Stats.TotalSessions; n != 0 {
		t.Fatalf("expected no recorded session, got %d", n)
	}
}

func TestStaleTickIsDropped(t *testing.T) {
	m, clk := newTestModel(t, "ab")
	first := m.tickSeq
	typeText(m, clk, "ab")
	m.nextPrompt()
	m.Update(promptMsg{text: "ab"})
	if m.tickSeq == first {
		t.Fatalf("expected a new tick sequence for the next session")
	}

	if _, cmd := m.Update(tickMsg{seq: first}); cmd != nil {
		t.Fatalf("tick from a finished session must not reschedule")
	}
	if _, cmd := m.Update(tickMsg{seq: m.tickSeq}); cmd == nil {
		t.Fatalf("current tick must reschedule")
	}
}

func TestEscCancels(t *testing.T) {
	m, clk := newTestModel(t, "abc")
	typeText(m, clk, "a")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenCancelled {
		t.Fatalf("expected cancelled screen")
	}
	if m.engine.State() != session.Cancelled {
		t.Fatalf("expected cancelled engine, got %s", m.engine.State())
	}
	if p := m.engine.Profile(); p.Stats.TotalSessions != 0 {
		t.Fatalf("cancelled session must not be recorded")
	}
	if !strings.Contains(m.View(), "Session cancelled") {
		t.Fatalf("expected cancel notice")
	}
	if cmd := m.nextPrompt(); cmd == nil || m.screen != screenLoading {
		t.Fatalf("expected a new prompt fetch after cancel")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, clk := newTestModel(t, "abcd")
	typeText(m, clk, "ab")
	m.profile.Preferences.ShowWPM = true
	m.live.WPM = 72
	m.live.Accuracy = 98

	out := m.renderFooter()
	for _, want := range []string{"Progress 50%", "72 WPM", "98%", "Lv 1", "Streak"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}

	m.profile.Preferences.ShowWPM = false
	if strings.Contains(m.renderFooter(), "WPM") {
		t.Fatalf("expected live speed hidden")
	}
}

func TestFormatRanksOrder(t *testing.T) {
	got := formatRanks(map[string]int{leaderboard.AllTime: 3, leaderboard.Daily: 1})
	if got != "Rank: daily #1 · all-time #3" {
		t.Fatalf("unexpected ranks %q", got)
	}
}
