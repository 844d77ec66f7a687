// Package achievement evaluates the fixed achievement catalog against a
// profile and a completed session.
package achievement

import (
	"fmt"
	"time"

	"github.com/Shamsear/typevelocity/internal/model"
)

// Kind selects the condition a definition checks.
type Kind int

const (
	// SessionsEqual matches when total sessions equals the threshold.
	SessionsEqual Kind = iota
	// SessionWPMAtLeast matches the session's WPM.
	SessionWPMAtLeast
	// SessionAccuracyAtLeast matches the session's accuracy.
	SessionAccuracyAtLeast
	// StreakAtLeast matches the profile's daily streak.
	StreakAtLeast
	// TotalWordsAtLeast matches cumulative words typed.
	TotalWordsAtLeast
	// LevelAtLeast matches the profile level.
	LevelAtLeast
	// PerfectAccuracy matches a session at 100% accuracy with a non-zero WPM.
	PerfectAccuracy
)

var kindNames = map[Kind]string{
	SessionsEqual:          "sessions_equal",
	SessionWPMAtLeast:      "session_wpm_at_least",
	SessionAccuracyAtLeast: "session_accuracy_at_least",
	StreakAtLeast:          "streak_at_least",
	TotalWordsAtLeast:      "total_words_at_least",
	LevelAtLeast:           "level_at_least",
	PerfectAccuracy:        "perfect_accuracy",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown achievement kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown achievement kind %q", text)
}

// Definition is one catalog entry.
type Definition struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Kind        Kind    `json:"kind"`
	Threshold   float64 `json:"threshold"`
}

// Catalog is the ordered list of every achievement.
var Catalog = []Definition{
	{ID: "first_session", Title: "First Steps", Description: "Complete your first typing session", Kind: SessionsEqual, Threshold: 1},
	{ID: "speed_30", Title: "Getting Faster", Description: "Reach 30 WPM in a session", Kind: SessionWPMAtLeast, Threshold: 30},
	{ID: "speed_50", Title: "Speed Demon", Description: "Reach 50 WPM in a session", Kind: SessionWPMAtLeast, Threshold: 50},
	{ID: "speed_80", Title: "Typing Master", Description: "Reach 80 WPM in a session", Kind: SessionWPMAtLeast, Threshold: 80},
	{ID: "accuracy_95", Title: "Precision Typist", Description: "Achieve 95% accuracy in a session", Kind: SessionAccuracyAtLeast, Threshold: 95},
	{ID: "streak_3", Title: "Consistency", Description: "Maintain a 3-day streak", Kind: StreakAtLeast, Threshold: 3},
	{ID: "streak_7", Title: "Weekly Warrior", Description: "Maintain a 7-day streak", Kind: StreakAtLeast, Threshold: 7},
	{ID: "words_1000", Title: "Wordsmith", Description: "Type 1,000 words total", Kind: TotalWordsAtLeast, Threshold: 1000},
	{ID: "words_10000", Title: "Prolific Writer", Description: "Type 10,000 words total", Kind: TotalWordsAtLeast, Threshold: 10000},
	{ID: "level_5", Title: "Rising Star", Description: "Reach level 5", Kind: LevelAtLeast, Threshold: 5},
	{ID: "level_10", Title: "Expert Typist", Description: "Reach level 10", Kind: LevelAtLeast, Threshold: 10},
	{ID: "perfect_accuracy", Title: "Flawless", Description: "Complete a session with 100% accuracy", Kind: PerfectAccuracy},
}

// Lookup finds a catalog definition by id.
func Lookup(id string) (Definition, bool) {
	for _, def := range Catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// Matches interprets a single definition.
func Matches(def Definition, p model.Profile, s model.Session) bool {
	switch def.Kind {
	case SessionsEqual:
		return float64(p.Stats.TotalSessions) == def.Threshold
	case SessionWPMAtLeast:
		return float64(s.WPM) >= def.Threshold
	case SessionAccuracyAtLeast:
		return float64(s.Accuracy) >= def.Threshold
	case StreakAtLeast:
		return float64(p.Streak) >= def.Threshold
	case TotalWordsAtLeast:
		return p.TotalWordsTyped >= def.Threshold
	case LevelAtLeast:
		return float64(p.Level) >= def.Threshold
	case PerfectAccuracy:
		return s.Accuracy == 100 && s.WPM > 0
	default:
		return false
	}
}

// Has reports whether the profile already holds id.
func Has(p model.Profile, id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// Check evaluates catalog against the profile and session, appends every
// newly unlocked achievement to the profile and returns them in catalog
// order. Achievements the profile already holds never fire again.
func Check(catalog []Definition, p *model.Profile, s model.Session, now time.Time) []model.Achievement {
	var unlocked []model.Achievement
	for _, def := range catalog {
		if Has(*p, def.ID) {
			continue
		}
		if !Matches(def, *p, s) {
			continue
		}
		a := model.Achievement{
			ID:          def.ID,
			Title:       def.Title,
			Description: def.Description,
			DateEarned:  now,
		}
		p.Achievements = append(p.Achievements, a)
		unlocked = append(unlocked, a)
	}
	return unlocked
}

// Trophy is a catalog entry annotated with its unlock state.
type Trophy struct {
	Definition
	Unlocked   bool      `json:"unlocked"`
	DateEarned time.Time `json:"dateEarned,omitempty"`
}

// Wall returns every catalog entry with the profile's unlock state.
func Wall(p model.Profile) []Trophy {
	earned := make(map[string]time.Time, len(p.Achievements))
	for _, a := range p.Achievements {
		earned[a.ID] = a.DateEarned
	}
	wall := make([]Trophy, 0, len(Catalog))
	for _, def := range Catalog {
		date, ok := earned[def.ID]
		wall = append(wall, Trophy{Definition: def, Unlocked: ok, DateEarned: date})
	}
	return wall
}

// Unlocked counts how many catalog entries the profile holds.
func Unlocked(p model.Profile) int {
	n := 0
	for _, def := range Catalog {
		if Has(p, def.ID) {
			n++
		}
	}
	return n
}
