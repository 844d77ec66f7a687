package stats

import (
	"testing"
	"time"
)

func TestLiveMetricsNothingTyped(t *testing.T) {
	m := LiveMetrics(0, 0, 0)
	if m.WPM != 0 || m.Accuracy != 100 {
		t.Fatalf("expected 0 WPM and 100%% accuracy, got %+v", m)
	}
}

func TestLiveMetricsClampsZeroElapsed(t *testing.T) {
	m := LiveMetrics(5, 0, 0)
	// 1 word over 0.001 minutes.
	if m.WPM != 1000 {
		t.Fatalf("expected clamped WPM 1000, got %d", m.WPM)
	}
}

func TestLiveMetricsAccuracy(t *testing.T) {
	m := LiveMetrics(9, 1, time.Minute)
	if m.Accuracy != 90 {
		t.Fatalf("expected 90%% accuracy, got %d", m.Accuracy)
	}
	if m.WPM != 2 {
		t.Fatalf("expected 2 WPM, got %d", m.WPM)
	}
}

func TestFinalMetricsFiftyCharsInThirtySeconds(t *testing.T) {
	m := FinalMetrics(50, 50, 30*time.Second)
	if m.WPM != 20 {
		t.Fatalf("expected 20 WPM, got %d", m.WPM)
	}
	if m.Accuracy != 100 {
		t.Fatalf("expected 100%% accuracy, got %d", m.Accuracy)
	}
}

func TestFinalMetricsUsesPromptLength(t *testing.T) {
	m := FinalMetrics(100, 75, time.Minute)
	if m.WPM != 20 {
		t.Fatalf("expected 20 WPM from prompt length, got %d", m.WPM)
	}
	if m.Accuracy != 75 {
		t.Fatalf("expected 75%% accuracy, got %d", m.Accuracy)
	}
}

func TestRoundHalfUp(t *testing.T) {
	if Round(2.5) != 3 || Round(2.4999) != 2 || Round(0) != 0 {
		t.Fatalf("unexpected rounding")
	}
}
