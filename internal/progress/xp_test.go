package progress

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/typevelocity/internal/model"
)

func TestAccuracyMultiplierIsMonotoneStep(t *testing.T) {
	assert.Equal(t, 2.0, AccuracyMultiplier(100))
	assert.Equal(t, 0.6, AccuracyMultiplier(65))
	assert.Equal(t, 1.5, AccuracyMultiplier(95))
	assert.Equal(t, 1.2, AccuracyMultiplier(94))
	assert.Equal(t, 0.8, AccuracyMultiplier(70))

	prev := AccuracyMultiplier(0)
	for a := 1; a <= 100; a++ {
		cur := AccuracyMultiplier(a)
		assert.GreaterOrEqual(t, cur, prev, "accuracy %d", a)
		prev = cur
	}
}

func TestStreakMultiplier(t *testing.T) {
	cases := map[int]float64{0: 1.0, 2: 1.0, 3: 1.1, 7: 1.2, 13: 1.2, 14: 1.3, 30: 1.5, 100: 1.5}
	for streak, want := range cases {
		assert.Equal(t, want, StreakMultiplier(streak), "streak %d", streak)
	}
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, 100, XPForLevel(1))
	assert.Equal(t, 283, XPForLevel(2))
	assert.Equal(t, 520, XPForLevel(3))
	assert.Equal(t, 3162, XPForLevel(10))
}

func TestCalculateXPChain(t *testing.T) {
	session := model.Session{WPM: 20, Accuracy: 100, PromptLength: 50}
	b := CalculateXP(session, 1, 1)
	assert.Equal(t, 10, b.Base)
	assert.Equal(t, 20, b.AfterAccuracy)
	assert.Equal(t, 21, b.AfterLength)
	assert.Equal(t, 21, b.AfterStreak)
	assert.Equal(t, 21, b.AfterLevel)
	assert.Equal(t, 21, b.Total)
}

func TestCalculateXPFloor(t *testing.T) {
	b := CalculateXP(model.Session{WPM: 2, Accuracy: 40, PromptLength: 10}, 0, 1)
	assert.Less(t, b.AfterLevel, MinSessionXP)
	assert.Equal(t, MinSessionXP, b.Total)
}

func TestResolveLevelUpsTerminates(t *testing.T) {
	p := model.Profile{Level: 1, XP: 1000, XPToNextLevel: 100}
	require.True(t, ResolveLevelUps(&p))
	assert.Less(t, p.XP, p.XPToNextLevel)
	assert.Greater(t, p.Level, 1)
	// 1000 - 100 - 283 - 520 = 97 at level 4 (needs 800).
	assert.Equal(t, 4, p.Level)
	assert.Equal(t, 97, p.XP)
	assert.Equal(t, 800, p.XPToNextLevel)

	assert.False(t, ResolveLevelUps(&p))
}

func TestRecordSessionCapsHistory(t *testing.T) {
	var p model.Profile
	for i := 0; i < HistoryLimit+5; i++ {
		RecordSession(&p, model.Session{ID: fmt.Sprint(i)})
	}
	require.Len(t, p.Stats.History, HistoryLimit)
	assert.Equal(t, fmt.Sprint(HistoryLimit+4), p.Stats.History[0].ID)
	assert.Equal(t, "5", p.Stats.History[HistoryLimit-1].ID)
}

func TestAwardSessionUpdatesAverages(t *testing.T) {
	p := model.Profile{Level: 1, XPToNextLevel: 100}
	p.Stats = model.ProfileStats{AverageWPM: 40, AverageAccuracy: 90, BestWPM: 45, TotalSessions: 1}

	leveled := AwardSession(&p, model.Session{WPM: 61, Accuracy: 97, WordsTyped: 10}, 120, "2024-05-02")
	assert.True(t, leveled)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 20, p.XP)
	assert.Equal(t, 120, p.DailyXP)
	assert.Equal(t, 2, p.Stats.TotalSessions)
	assert.Equal(t, 51, p.Stats.AverageWPM)
	assert.Equal(t, 94, p.Stats.AverageAccuracy)
	assert.Equal(t, 61, p.Stats.BestWPM)
	assert.Equal(t, 10.0, p.TotalWordsTyped)
	assert.Equal(t, "2024-05-02", p.LastActive)
}

func TestAwardSessionStartsStreak(t *testing.T) {
	p := model.Profile{Level: 1, XPToNextLevel: 100, LastActive: "2024-05-02"}
	AwardSession(&p, model.Session{WPM: 20, Accuracy: 100, WordsTyped: 10}, 21, "2024-05-02")
	assert.Equal(t, 1, p.Streak)

	p.Streak = 4
	AwardSession(&p, model.Session{WPM: 20, Accuracy: 100, WordsTyped: 10}, 21, "2024-05-02")
	assert.Equal(t, 4, p.Streak)
}

func TestUpdateDailyStreak(t *testing.T) {
	today := time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local)

	t.Run("yesterday increments", func(t *testing.T) {
		p := model.Profile{Streak: 4, LastActive: "2024-05-09", DailyWordsTyped: 30, DailyXP: 50}
		require.True(t, UpdateDailyStreak(&p, today))
		assert.Equal(t, 5, p.Streak)
		assert.Zero(t, p.DailyWordsTyped)
		assert.Zero(t, p.DailyXP)
		assert.Equal(t, "2024-05-10", p.LastActive)
	})

	t.Run("gap resets", func(t *testing.T) {
		p := model.Profile{Streak: 9, LastActive: "2024-05-07"}
		require.True(t, UpdateDailyStreak(&p, today))
		assert.Equal(t, 1, p.Streak)
	})

	t.Run("today is untouched", func(t *testing.T) {
		p := model.Profile{Streak: 3, LastActive: "2024-05-10", DailyXP: 70}
		assert.False(t, UpdateDailyStreak(&p, today))
		assert.Equal(t, 3, p.Streak)
		assert.Equal(t, 70, p.DailyXP)
	})

	t.Run("never active starts at one", func(t *testing.T) {
		var p model.Profile
		require.True(t, UpdateDailyStreak(&p, today))
		assert.Equal(t, 1, p.Streak)
	})
}
