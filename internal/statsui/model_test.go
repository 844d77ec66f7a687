package statsui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/profile"
	"github.com/Shamsear/typevelocity/internal/stats"
)

func sampleReport() stats.Report {
	now := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	p := profile.Default(now)
	p.Stats.History = []model.Session{
		{ID: "b", Date: now, WPM: 48, Accuracy: 96, Duration: 30, WordsTyped: 24},
		{ID: "a", Date: now.Add(-time.Hour), WPM: 40, Accuracy: 90, Duration: 30, WordsTyped: 20},
	}
	p.Stats.TotalSessions = 2
	p.Stats.AverageWPM = 44
	p.Stats.BestWPM = 48
	p.Achievements = []model.Achievement{{ID: "first_session", Title: "First Steps", DateEarned: now}}
	boards := leaderboard.Init(p, leaderboard.DefaultName, now)
	leaderboard.Update(&boards, leaderboard.Result{WPM: 48, Accuracy: 96, Level: 1}, leaderboard.BlendMean, leaderboard.DefaultName, now)
	return stats.BuildReport(p, boards, model.KeyErrorTable{"e": 4, "t": 1}, 0)
}

func sized(t *testing.T, m *Model) *Model {
	t.Helper()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestOverviewShowsCards(t *testing.T) {
	m := sized(t, NewModel(sampleReport, 3))
	view := m.View()
	for _, want := range []string{"Overview", "Best WPM", "48", "Trends", "WPM: 40-44 wpm", "Legend:"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
}

func TestTabsCycleAndRender(t *testing.T) {
	m := sized(t, NewModel(sampleReport, 3))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabHistory || !strings.Contains(m.View(), "96%") {
		t.Fatalf("expected history table, got tab %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "First Steps") {
		t.Fatalf("expected trophy wall")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "Board: daily") {
		t.Fatalf("expected daily board")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}})
	if !strings.Contains(m.View(), "Board: weekly") {
		t.Fatalf("expected weekly board after cycling")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if !strings.Contains(m.View(), "space") {
		t.Fatalf("expected keyboard heatmap")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected wraparound to overview, got %d", m.activeTab)
	}
}

func TestWindowClamped(t *testing.T) {
	m := NewModel(sampleReport, 1)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}})
	if m.window != minWindow {
		t.Fatalf("expected window clamp at %d, got %d", minWindow, m.window)
	}
	if NewModel(sampleReport, 99).window != maxWindow {
		t.Fatalf("expected upper clamp")
	}
}

func TestEmptyReport(t *testing.T) {
	m := sized(t, NewModel(func() stats.Report { return stats.Report{} }, 3))
	if !strings.Contains(m.View(), "No sessions found.") {
		t.Fatalf("expected empty notice")
	}
}
