package profile

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/logging"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/store"
)

func newRepo(t *testing.T, now time.Time, goals Goals) (*Repository, *store.Store, *clock.Fixed) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "profile.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	clk := &clock.Fixed{T: now}
	return NewRepository(st, logging.Discard(), clk, goals), st, clk
}

var day = time.Date(2024, 5, 10, 8, 30, 0, 0, time.Local)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	repo, _, _ := newRepo(t, day, Goals{})
	p := repo.Load(context.Background())
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 100, p.XPToNextLevel)
	assert.Equal(t, DefaultDailyGoal, p.DailyGoal)
	assert.Equal(t, DefaultDailyXPGoal, p.DailyXPGoal)
	assert.Equal(t, "2024-05-10", p.LastActive)
	assert.True(t, p.Preferences.SoundEffects)
	assert.Equal(t, "default", p.Preferences.Avatar)
	assert.NotNil(t, p.Stats.History)
}

func TestLoadCorruptReturnsDefaults(t *testing.T) {
	repo, st, _ := newRepo(t, day, Goals{})
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, store.KeyProfile, []byte("{broken")))
	p := repo.Load(ctx)
	assert.Equal(t, Default(day), p)
}

func TestLoadMergesPartialRecord(t *testing.T) {
	repo, st, _ := newRepo(t, day, Goals{Words: 300})
	ctx := context.Background()
	raw := `{"level":3,"xp":50,"streak":4,"lastActive":"2024-05-10","preferences":{"avatar":"ninja"},
		"achievements":[{"id":"speed_30"},{"id":"speed_30"}]}`
	require.NoError(t, st.Put(ctx, store.KeyProfile, []byte(raw)))

	p := repo.Load(ctx)
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 520, p.XPToNextLevel)
	assert.Equal(t, 300, p.DailyGoal)
	assert.Equal(t, DefaultDailyXPGoal, p.DailyXPGoal)
	assert.Equal(t, "ninja", p.Preferences.Avatar)
	assert.True(t, p.Preferences.ShowWPM)
	assert.Len(t, p.Achievements, 1)
}

func TestLoadForDayRollsStreak(t *testing.T) {
	repo, _, clk := newRepo(t, day, Goals{})
	ctx := context.Background()

	p := repo.LoadForDay(ctx)
	assert.Equal(t, 0, p.Streak, "default profile is already active today")

	p.Streak = 2
	p.DailyXP = 90
	require.NoError(t, repo.Save(ctx, p))

	clk.Advance(24 * time.Hour)
	p = repo.LoadForDay(ctx)
	assert.Equal(t, 3, p.Streak)
	assert.Zero(t, p.DailyXP)

	stored := repo.Load(ctx)
	assert.Equal(t, "2024-05-11", stored.LastActive)
	assert.Equal(t, 3, stored.Streak)

	clk.Advance(72 * time.Hour)
	assert.Equal(t, 1, repo.LoadForDay(ctx).Streak)
}

func TestSetPreference(t *testing.T) {
	p := Default(day)
	require.NoError(t, SetPreference(&p, "focusMode", "true"))
	assert.True(t, p.Preferences.FocusMode)
	require.NoError(t, SetPreference(&p, "avatar", "robot"))
	assert.Equal(t, "robot", p.Preferences.Avatar)

	err := SetPreference(&p, "volume", "11")
	assert.True(t, errors.Is(err, ErrUnknownPreference))
	err = SetPreference(&p, "avatar", "pirate")
	assert.True(t, errors.Is(err, ErrInvalidPreference))
	err = SetPreference(&p, "showWPM", "maybe")
	assert.True(t, errors.Is(err, ErrInvalidPreference))

	v, err := Preference(p, "FOCUSMODE")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestRepositoryThemeAndReset(t *testing.T) {
	repo, _, _ := newRepo(t, day, Goals{})
	ctx := context.Background()
	p := repo.Load(ctx)
	assert.Equal(t, "default", repo.Theme(ctx, p))

	require.NoError(t, repo.SetPreference(ctx, &p, "theme", "dark"))
	assert.Equal(t, "dark", repo.Theme(ctx, model.Profile{}))
	assert.Equal(t, "dark", repo.Load(ctx).Preferences.Theme)

	fresh, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", fresh.Preferences.Theme)
	assert.Equal(t, "default", repo.Load(ctx).Preferences.Theme)
}
