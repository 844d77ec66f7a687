// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Shamsear/typevelocity/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a slice of session history.
type Summary struct {
	Sessions    int
	AvgWPM      float64
	BestWPM     int
	AvgAccuracy float64
	TotalWords  float64
	TotalTime   float64
	TotalErrors int
}

// Summarize aggregates the given sessions.
func Summarize(sessions []model.Session) Summary {
	var s Summary
	if len(sessions) == 0 {
		return s
	}
	var totalWPM, totalAcc float64
	for _, sess := range sessions {
		totalWPM += float64(sess.WPM)
		totalAcc += float64(sess.Accuracy)
		if sess.WPM > s.BestWPM {
			s.BestWPM = sess.WPM
		}
		s.TotalWords += sess.WordsTyped
		s.TotalTime += sess.Duration
		s.TotalErrors += sess.Errors
	}
	s.Sessions = len(sessions)
	s.AvgWPM = totalWPM / float64(len(sessions))
	s.AvgAccuracy = totalAcc / float64(len(sessions))
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Chronological returns history oldest-first. Profile history is stored
// newest-first.
func Chronological(history []model.Session) []model.Session {
	out := make([]model.Session, len(history))
	for i, s := range history {
		out[len(history)-1-i] = s
	}
	return out
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.Session) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Avg WPM: %.1f", s.AvgWPM),
		fmt.Sprintf("Best WPM: %d", s.BestWPM),
		fmt.Sprintf("Avg Accuracy: %.1f%%", s.AvgAccuracy),
		fmt.Sprintf("Words: %.0f", s.TotalWords),
		fmt.Sprintf("Time: %.0fs", s.TotalTime),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrends prints WPM and accuracy sparklines, oldest session first,
// limited to the last width sessions.
func RenderTrends(w io.Writer, history []model.Session, window, width int) error {
	sessions := Chronological(history)
	if len(sessions) == 0 {
		return nil
	}
	if width > 0 && len(sessions) > width {
		sessions = sessions[len(sessions)-width:]
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = float64(s.WPM)
		accs[i] = float64(s.Accuracy)
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)
	lines := []string{
		"Trends (oldest to newest)",
		fmt.Sprintf("WPM      |%s|", Sparkline(wpms)),
		fmt.Sprintf("Accuracy |%s|", Sparkline(accs)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistoryTable prints the most recent sessions, newest first.
func RenderHistoryTable(w io.Writer, history []model.Session, limit int) error {
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	headers := []string{"Date", "WPM", "Accuracy", "Errors", "Time (s)", "Words"}
	rows := make([][]string, 0, len(history))
	for _, s := range history {
		rows = append(rows, []string{
			s.Date.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%.1f", s.Duration),
			fmt.Sprintf("%.1f", s.WordsTyped),
		})
	}
	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	return writeTable(w, headers, rows, map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true})
}
