// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Source     string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	WordList   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
}

// APIConfig describes the chat-completion endpoint used for dynamic prompts.
type APIConfig struct {
	Enabled     bool
	Endpoint    string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Profile is the single persisted user record every engine reads and mutates.
type Profile struct {
	Level           int           `json:"level"`
	XP              int           `json:"xp"`
	XPToNextLevel   int           `json:"xpToNextLevel"`
	TotalWordsTyped float64       `json:"totalWordsTyped"`
	DailyGoal       int           `json:"dailyGoal"`
	DailyWordsTyped float64       `json:"dailyWordsTyped"`
	DailyXP         int           `json:"dailyXP"`
	DailyXPGoal     int           `json:"dailyXPGoal"`
	Streak          int           `json:"streak"`
	LastActive      string        `json:"lastActive"`
	Stats           ProfileStats  `json:"stats"`
	Achievements    []Achievement `json:"achievements"`
	Preferences     Preferences   `json:"preferences"`
}

// ProfileStats holds cumulative performance numbers.
type ProfileStats struct {
	AverageWPM      int       `json:"averageWPM"`
	AverageAccuracy int       `json:"averageAccuracy"`
	BestWPM         int       `json:"bestWPM"`
	TotalSessions   int       `json:"totalSessions"`
	History         []Session `json:"history"`
}

// Preferences are user-facing options stored with the profile.
type Preferences struct {
	SoundEffects    bool   `json:"soundEffects"`
	ShowWPM         bool   `json:"showWPM"`
	FocusMode       bool   `json:"focusMode"`
	Avatar          string `json:"avatar"`
	Theme           string `json:"theme"`
	ReducedMotion   bool   `json:"reducedMotion"`
	ShowMiniHeatmap bool   `json:"showMiniHeatmap"`
}

// Session captures one completed challenge. It is never modified after creation.
type Session struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	WPM          int       `json:"wpm"`
	Accuracy     int       `json:"accuracy"`
	Errors       int       `json:"errors"`
	Duration     float64   `json:"duration"`
	PromptLength int       `json:"promptLength"`
	WordsTyped   float64   `json:"wordsTyped"`
}

// Achievement is an unlock record.
type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DateEarned  time.Time `json:"dateEarned"`
}

// LeaderboardEntry is one ranked row on a board.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	WPM      int    `json:"wpm"`
	Accuracy int    `json:"accuracy"`
	Streak   int    `json:"streak"`
	Rank     int    `json:"rank"`
	Sessions int    `json:"sessions"`
}

// Board is an ordered leaderboard for one period.
type Board struct {
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
}

// Leaderboards groups the daily, weekly and all-time boards.
type Leaderboards struct {
	Daily   Board `json:"daily"`
	Weekly  Board `json:"weekly"`
	AllTime Board `json:"all-time"`
}

// KeyErrorTable counts mistyped characters by lowercase key.
type KeyErrorTable map[string]int

// LiveStats is the periodically refreshed view of an active session.
type LiveStats struct {
	WPM      int
	Accuracy int
	Elapsed  time.Duration
}
