// Package profile loads, defaults and persists the player profile.
package profile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/progress"
)

// Default goals for a new profile.
const (
	DefaultDailyGoal   = 500
	DefaultDailyXPGoal = 200
)

// Avatars lists the selectable avatar ids.
var Avatars = []string{"default", "astro", "ninja", "robot", "gamer", "coder"}

// Themes lists the selectable theme ids.
var Themes = []string{"default", "dark", "light"}

var (
	// ErrUnknownPreference is returned for a preference name that does not exist.
	ErrUnknownPreference = errors.New("unknown preference")
	// ErrInvalidPreference is returned when a value does not fit the preference.
	ErrInvalidPreference = errors.New("invalid preference value")
)

// Goals overrides the daily targets. Zero fields keep the profile's values.
type Goals struct {
	Words int
	XP    int
}

// Default returns the profile of a brand-new player on the day of now.
func Default(now time.Time) model.Profile {
	return model.Profile{
		Level:         1,
		XP:            0,
		XPToNextLevel: progress.XPForLevel(1),
		DailyGoal:     DefaultDailyGoal,
		DailyXPGoal:   DefaultDailyXPGoal,
		LastActive:    clock.Day(now),
		Stats: model.ProfileStats{
			History: []model.Session{},
		},
		Achievements: []model.Achievement{},
		Preferences: model.Preferences{
			SoundEffects: true,
			ShowWPM:      true,
			Avatar:       "default",
			Theme:        "default",
		},
	}
}

// Normalize fills missing or out-of-range fields with defaults and resolves
// any pending level-ups.
func Normalize(p *model.Profile, now time.Time, goals Goals) {
	def := Default(now)
	if p.Level < 1 {
		p.Level = def.Level
	}
	if p.XP < 0 {
		p.XP = 0
	}
	p.XPToNextLevel = progress.XPForLevel(p.Level)
	progress.ResolveLevelUps(p)
	if p.DailyGoal <= 0 {
		p.DailyGoal = def.DailyGoal
	}
	if p.DailyXPGoal <= 0 {
		p.DailyXPGoal = def.DailyXPGoal
	}
	if goals.Words > 0 {
		p.DailyGoal = goals.Words
	}
	if goals.XP > 0 {
		p.DailyXPGoal = goals.XP
	}
	if p.Streak < 0 {
		p.Streak = 0
	}
	if p.LastActive == "" {
		p.LastActive = def.LastActive
	}
	if p.Stats.History == nil {
		p.Stats.History = []model.Session{}
	}
	if len(p.Stats.History) > progress.HistoryLimit {
		p.Stats.History = p.Stats.History[:progress.HistoryLimit]
	}
	if p.Achievements == nil {
		p.Achievements = []model.Achievement{}
	}
	p.Achievements = dedupe(p.Achievements)
	if !contains(Avatars, p.Preferences.Avatar) {
		p.Preferences.Avatar = def.Preferences.Avatar
	}
	if !contains(Themes, p.Preferences.Theme) {
		p.Preferences.Theme = def.Preferences.Theme
	}
}

func dedupe(in []model.Achievement) []model.Achievement {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, a := range in {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// PreferenceNames lists the settable preference keys.
var PreferenceNames = []string{
	"soundEffects", "showWPM", "focusMode", "avatar", "theme", "reducedMotion", "showMiniHeatmap",
}

// SetPreference sets a preference by name. Names match case-insensitively.
func SetPreference(p *model.Profile, key, value string) error {
	prefs := &p.Preferences
	var target *bool
	switch strings.ToLower(key) {
	case "soundeffects":
		target = &prefs.SoundEffects
	case "showwpm":
		target = &prefs.ShowWPM
	case "focusmode":
		target = &prefs.FocusMode
	case "reducedmotion":
		target = &prefs.ReducedMotion
	case "showminiheatmap":
		target = &prefs.ShowMiniHeatmap
	case "avatar":
		if !contains(Avatars, value) {
			return fmt.Errorf("%w: avatar must be one of %s", ErrInvalidPreference, strings.Join(Avatars, ", "))
		}
		prefs.Avatar = value
		return nil
	case "theme":
		if !contains(Themes, value) {
			return fmt.Errorf("%w: theme must be one of %s", ErrInvalidPreference, strings.Join(Themes, ", "))
		}
		prefs.Theme = value
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("%w: %s expects true or false", ErrInvalidPreference, key)
	}
	*target = b
	return nil
}

// Preference returns the current value of a preference by name.
func Preference(p model.Profile, key string) (string, error) {
	prefs := p.Preferences
	switch strings.ToLower(key) {
	case "soundeffects":
		return strconv.FormatBool(prefs.SoundEffects), nil
	case "showwpm":
		return strconv.FormatBool(prefs.ShowWPM), nil
	case "focusmode":
		return strconv.FormatBool(prefs.FocusMode), nil
	case "reducedmotion":
		return strconv.FormatBool(prefs.ReducedMotion), nil
	case "showminiheatmap":
		return strconv.FormatBool(prefs.ShowMiniHeatmap), nil
	case "avatar":
		return prefs.Avatar, nil
	case "theme":
		return prefs.Theme, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
}
