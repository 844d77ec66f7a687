// Package progress implements experience, level and streak rules.
package progress

import (
	"math"

	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/stats"
)

// MinSessionXP is the floor applied to every award.
const MinSessionXP = 5

// Breakdown records every step of an XP award. Each step is rounded before
// the next multiplier is applied.
type Breakdown struct {
	Base               int
	AccuracyMultiplier float64
	AfterAccuracy      int
	LengthMultiplier   float64
	AfterLength        int
	StreakMultiplier   float64
	AfterStreak        int
	LevelMultiplier    float64
	AfterLevel         int
	Total              int
}

// AccuracyMultiplier is a step function of session accuracy.
func AccuracyMultiplier(accuracy int) float64 {
	switch {
	case accuracy >= 100:
		return 2.0
	case accuracy >= 95:
		return 1.5
	case accuracy >= 90:
		return 1.2
	case accuracy >= 80:
		return 1.0
	case accuracy >= 70:
		return 0.8
	default:
		return 0.6
	}
}

// StreakMultiplier is a step function of the daily streak.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 1.5
	case streak >= 14:
		return 1.3
	case streak >= 7:
		return 1.2
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

// LengthMultiplier rewards longer prompts.
func LengthMultiplier(promptLength int) float64 {
	return 1 + float64(promptLength)/1000
}

// LevelMultiplier adds 2% per level.
func LevelMultiplier(level int) float64 {
	return 1 + float64(level)*0.02
}

// CalculateXP computes the award for a session given the profile's current
// streak and level.
func CalculateXP(session model.Session, streak, level int) Breakdown {
	b := Breakdown{
		Base:               stats.Round(float64(session.WPM) * 0.5),
		AccuracyMultiplier: AccuracyMultiplier(session.Accuracy),
		LengthMultiplier:   LengthMultiplier(session.PromptLength),
		StreakMultiplier:   StreakMultiplier(streak),
		LevelMultiplier:    LevelMultiplier(level),
	}
	b.AfterAccuracy = stats.Round(float64(b.Base) * b.AccuracyMultiplier)
	b.AfterLength = stats.Round(float64(b.AfterAccuracy) * b.LengthMultiplier)
	b.AfterStreak = stats.Round(float64(b.AfterLength) * b.StreakMultiplier)
	b.AfterLevel = stats.Round(float64(b.AfterStreak) * b.LevelMultiplier)
	b.Total = b.AfterLevel
	if b.Total < MinSessionXP {
		b.Total = MinSessionXP
	}
	return b
}

// XPForLevel is the experience needed to advance past level.
func XPForLevel(level int) int {
	return stats.Round(100 * math.Pow(float64(level), 1.5))
}

// ResolveLevelUps advances the profile while it holds enough XP and reports
// whether at least one level was gained.
func ResolveLevelUps(p *model.Profile) bool {
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = XPForLevel(max(p.Level, 1))
	}
	leveled := false
	for p.XP >= p.XPToNextLevel {
		p.Level++
		p.XP -= p.XPToNextLevel
		p.XPToNextLevel = XPForLevel(p.Level)
		leveled = true
	}
	return leveled
}

// HistoryLimit caps the stored session history.
const HistoryLimit = 100

// RecordSession prepends session to the history, evicting the oldest entries.
func RecordSession(p *model.Profile, session model.Session) {
	history := make([]model.Session, 0, min(len(p.Stats.History)+1, HistoryLimit))
	history = append(history, session)
	history = append(history, p.Stats.History...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	p.Stats.History = history
}

// AwardSession applies a completed session to the profile: word totals, XP,
// level-ups, running averages, best WPM and last activity. A session always
// counts as a day of activity, so the streak is at least 1 afterwards. It
// reports whether the profile levelled up.
func AwardSession(p *model.Profile, session model.Session, xp int, today string) bool {
	p.TotalWordsTyped += session.WordsTyped
	p.DailyWordsTyped += session.WordsTyped
	p.XP += xp
	p.DailyXP += xp

	leveled := ResolveLevelUps(p)

	s := &p.Stats
	s.TotalSessions++
	n := float64(s.TotalSessions)
	s.AverageWPM = stats.Round((float64(s.AverageWPM)*(n-1) + float64(session.WPM)) / n)
	s.AverageAccuracy = stats.Round((float64(s.AverageAccuracy)*(n-1) + float64(session.Accuracy)) / n)
	if session.WPM > s.BestWPM {
		s.BestWPM = session.WPM
	}
	p.Streak = max(p.Streak, 1)
	p.LastActive = today
	return leveled
}
