package progress

import (
	"fmt"

	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/stats"
)

// DefaultInsight is shown when nothing else stands out.
const DefaultInsight = "Keep practicing consistently to improve your typing skills!"

// InsightInput carries what the results screen knows about a session.
// Before holds the profile stats as they were prior to the session, so
// comparisons are against the old averages and record.
type InsightInput struct {
	Profile         model.Profile
	Before          model.ProfileStats
	Session         model.Session
	NewAchievements []model.Achievement
	LeveledUp       bool
}

// DailyProgress returns word and XP goal completion percentages, capped at 100.
func DailyProgress(p model.Profile) (words, xp int) {
	return percent(p.DailyWordsTyped, float64(p.DailyGoal)), percent(float64(p.DailyXP), float64(p.DailyXPGoal))
}

func percent(v, goal float64) int {
	if goal <= 0 {
		return 0
	}
	return min(100, stats.Round(v/goal*100))
}

// Insights builds plain-text feedback lines for a completed session.
func Insights(in InsightInput) []string {
	var out []string
	p := in.Profile
	wpm := in.Session.WPM
	accuracy := in.Session.Accuracy

	if in.LeveledUp {
		out = append(out,
			fmt.Sprintf("You've reached level %d!", p.Level),
			fmt.Sprintf("Next level requires %d XP", p.XPToNextLevel))
	}
	if len(in.NewAchievements) > 0 {
		out = append(out, "New Achievements:")
		for _, a := range in.NewAchievements {
			out = append(out, fmt.Sprintf("  %s - %s", a.Title, a.Description))
		}
	}

	wordsPct, xpPct := DailyProgress(p)
	switch {
	case wordsPct >= 100:
		out = append(out, fmt.Sprintf("Daily word goal achieved! (%.0f/%d)", p.DailyWordsTyped, p.DailyGoal))
	case wordsPct >= 75:
		out = append(out, fmt.Sprintf("You're %d%% toward your daily word goal!", wordsPct))
	case wordsPct >= 50:
		out = append(out, fmt.Sprintf("Halfway to your daily word goal (%.0f/%d)", p.DailyWordsTyped, p.DailyGoal))
	}
	switch {
	case xpPct >= 100:
		out = append(out, fmt.Sprintf("Daily XP goal achieved! (%d/%d XP)", p.DailyXP, p.DailyXPGoal))
	case xpPct >= 75:
		out = append(out, fmt.Sprintf("You're %d%% toward your daily XP goal!", xpPct))
	}

	switch {
	case p.Streak >= 7:
		out = append(out, fmt.Sprintf("%d day streak! Keep it up!", p.Streak))
	case p.Streak >= 3:
		out = append(out, fmt.Sprintf("%d day streak! You're building momentum!", p.Streak))
	}

	before := in.Before
	if before.TotalSessions > 0 {
		switch {
		case wpm > before.AverageWPM && before.AverageWPM > 0:
			improvement := stats.Round(float64(wpm-before.AverageWPM) / float64(before.AverageWPM) * 100)
			out = append(out, fmt.Sprintf("%d%% faster than your average speed!", improvement))
		case wpm < before.AverageWPM:
			out = append(out, fmt.Sprintf("You're %d WPM below your average. Try to maintain a steady rhythm.", before.AverageWPM-wpm))
		}
		switch {
		case accuracy > before.AverageAccuracy:
			out = append(out, fmt.Sprintf("Great accuracy! %d%% is above your average of %d%%.", accuracy, before.AverageAccuracy))
		case accuracy < before.AverageAccuracy-5:
			out = append(out, "Focus on accuracy. Slow down slightly to reduce errors.")
		}
		if wpm > before.BestWPM {
			out = append(out, fmt.Sprintf("New personal best! Previous record: %d WPM", before.BestWPM))
		}
	}

	if len(out) == 0 {
		out = append(out, DefaultInsight)
	}
	return out
}
