package progress

import (
	"time"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/model"
)

// UpdateDailyStreak rolls the profile over to today. Activity yesterday
// extends the streak, any other gap restarts it at 1. Daily counters are
// cleared whenever the day changes. It reports whether the profile changed.
func UpdateDailyStreak(p *model.Profile, today time.Time) bool {
	day := clock.Day(today)
	if p.LastActive == day {
		return false
	}
	if p.LastActive == clock.Yesterday(today) {
		p.Streak++
	} else {
		p.Streak = 1
	}
	p.DailyWordsTyped = 0
	p.DailyXP = 0
	p.LastActive = day
	return true
}
