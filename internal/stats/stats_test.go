package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Shamsear/typevelocity/internal/model"
)

func sampleHistory() []model.Session {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	// Newest first, as stored on the profile.
	return []model.Session{
		{Date: base.Add(2 * time.Hour), WPM: 60, Accuracy: 98, Errors: 1, Duration: 30, WordsTyped: 30},
		{Date: base.Add(time.Hour), WPM: 40, Accuracy: 90, Errors: 4, Duration: 45, WordsTyped: 30},
		{Date: base, WPM: 20, Accuracy: 80, Errors: 9, Duration: 60, WordsTyped: 20},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleHistory())
	if s.Sessions != 3 || s.BestWPM != 60 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.AvgWPM != 40 {
		t.Fatalf("expected avg 40, got %.2f", s.AvgWPM)
	}
	if s.TotalWords != 80 || s.TotalErrors != 14 {
		t.Fatalf("unexpected totals: %+v", s)
	}
}

func TestChronologicalReverses(t *testing.T) {
	out := Chronological(sampleHistory())
	if out[0].WPM != 20 || out[2].WPM != 60 {
		t.Fatalf("expected oldest first, got %+v", out)
	}
}

func TestMovingAverage(t *testing.T) {
	out := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: expected %.1f, got %.1f", i, want[i], out[i])
		}
	}
}

func TestSparklineFlat(t *testing.T) {
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("expected min/max glyphs, got %q", got)
	}
}

func TestRenderSummaryAndHistory(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sampleHistory()); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if err := RenderTrends(&buf, sampleHistory(), 1, 0); err != nil {
		t.Fatalf("render trends: %v", err)
	}
	if err := RenderHistoryTable(&buf, sampleHistory(), 2); err != nil {
		t.Fatalf("render history: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Sessions: 3", "Best WPM: 60", "WPM      |", "Recent Sessions"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("missing %q in output:\n%s", needle, out)
		}
	}
	if !strings.Contains(out, "98%") || strings.Contains(out, " 80%") {
		t.Fatalf("expected only the two newest sessions in history table:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("expected empty notice")
	}
}

func TestSelectWeakKeys(t *testing.T) {
	weak := SelectWeakKeys(model.KeyErrorTable{"a": 5, "s": 9, "d": 1, "f": 0}, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak keys, got %d", len(weak))
	}
	if _, ok := weak['s']; !ok {
		t.Fatalf("expected s in weak set")
	}
	if _, ok := weak['a']; !ok {
		t.Fatalf("expected a in weak set")
	}
}
