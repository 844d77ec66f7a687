package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Shamsear/typevelocity/internal/model"
)

func TestBuildReportLimitsHistory(t *testing.T) {
	p := model.Profile{Level: 2, XP: 10, XPToNextLevel: 283}
	p.Stats.History = sampleHistory()
	p.Achievements = []model.Achievement{{ID: "speed_30", Title: "Getting Faster"}}

	report := BuildReport(p, model.Leaderboards{}, model.KeyErrorTable{"e": 4}, 2)
	if len(report.History) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.History))
	}
	if report.History[0].WPM != 60 {
		t.Fatalf("expected newest session first, got %+v", report.History[0])
	}
	if report.Summary.Sessions != 2 || report.Summary.BestWPM != 60 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	unlocked := 0
	for _, tr := range report.Trophies {
		if tr.Unlocked {
			unlocked++
		}
	}
	if unlocked != 1 {
		t.Fatalf("expected one unlocked trophy, got %d", unlocked)
	}
}

func TestTopKeys(t *testing.T) {
	top := TopKeys(model.KeyErrorTable{" ": 3, "a": 3, "b": 7, "c": 0}, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 keys, got %v", top)
	}
	if top[0] != [2]string{"b", "7"} || top[1] != [2]string{"space", "3"} {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestRenderReport(t *testing.T) {
	p := model.Profile{Level: 1, XPToNextLevel: 100, DailyGoal: 500, DailyXPGoal: 200}
	p.Stats.History = sampleHistory()
	boards := model.Leaderboards{AllTime: model.Board{Entries: []model.LeaderboardEntry{
		{ID: "current-user", Name: "You", Level: 1, WPM: 60, Accuracy: 96, Rank: 1},
	}}}
	var buf bytes.Buffer
	if err := RenderReport(&buf, BuildReport(p, boards, model.KeyErrorTable{"q": 2}, 0), 3, 40); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Level: 1 (0/100 XP)", "Session Trends", "Most Mistyped Keys", "All-time Leaderboard", "Trophies", "First Steps"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("missing %q in report:\n%s", needle, out)
		}
	}
}
