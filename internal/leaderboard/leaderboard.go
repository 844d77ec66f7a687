// Package leaderboard maintains the daily, weekly and all-time boards.
package leaderboard

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Shamsear/typevelocity/internal/clock"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/stats"
)

// UserID identifies the local player's entry on every board.
const UserID = "current-user"

// DefaultName is shown for the local player when no name is configured.
const DefaultName = "You"

// Board names.
const (
	Daily   = "daily"
	Weekly  = "weekly"
	AllTime = "all-time"
)

// Names lists the boards in display order.
var Names = []string{Daily, Weekly, AllTime}

// ErrUnknownBoard is returned for a board name outside Names.
var ErrUnknownBoard = errors.New("unknown leaderboard")

// Blend selects how a new accuracy is folded into an entry.
type Blend string

const (
	// BlendMean keeps a count-weighted running mean.
	BlendMean Blend = "mean"
	// BlendPairwise averages the stored value with the new one.
	BlendPairwise Blend = "pairwise"
)

// ParseBlend validates a configured blend mode. Empty means BlendMean.
func ParseBlend(s string) (Blend, error) {
	switch Blend(s) {
	case "", BlendMean:
		return BlendMean, nil
	case BlendPairwise:
		return BlendPairwise, nil
	default:
		return "", fmt.Errorf("unknown accuracy blend %q (want mean or pairwise)", s)
	}
}

// Result is what a completed session contributes to the boards.
type Result struct {
	WPM      int
	Accuracy int
	Level    int
	Streak   int
}

// Select returns the named board.
func Select(lb *model.Leaderboards, name string) (*model.Board, error) {
	switch name {
	case Daily:
		return &lb.Daily, nil
	case Weekly:
		return &lb.Weekly, nil
	case AllTime:
		return &lb.AllTime, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, name)
	}
}

// Period returns the period key a board belongs to at t. The all-time board
// has no period.
func Period(name string, t time.Time) string {
	switch name {
	case Daily:
		return clock.Day(t)
	case Weekly:
		return clock.Week(t)
	default:
		return ""
	}
}

// Init builds fresh boards holding only the local player, seeded from the
// profile's best speed and average accuracy. A profile with no sessions
// gets empty boards.
func Init(p model.Profile, name string, now time.Time) model.Leaderboards {
	if name == "" {
		name = DefaultName
	}
	var lb model.Leaderboards
	for _, boardName := range Names {
		board, _ := Select(&lb, boardName)
		board.Period = Period(boardName, now)
		if p.Stats.TotalSessions == 0 {
			continue
		}
		board.Entries = []model.LeaderboardEntry{{
			ID:       UserID,
			Name:     name,
			Level:    p.Level,
			WPM:      p.Stats.BestWPM,
			Accuracy: p.Stats.AverageAccuracy,
			Streak:   p.Streak,
			Rank:     1,
			Sessions: p.Stats.TotalSessions,
		}}
	}
	return lb
}

// Update folds a session result into every board, rolling daily and weekly
// boards over when their period has passed, then re-ranks.
func Update(lb *model.Leaderboards, r Result, blend Blend, name string, now time.Time) {
	if name == "" {
		name = DefaultName
	}
	for _, boardName := range Names {
		board, _ := Select(lb, boardName)
		if period := Period(boardName, now); board.Period != period {
			board.Period = period
			board.Entries = nil
		}
		entry := model.LeaderboardEntry{
			ID:       UserID,
			Name:     name,
			Level:    r.Level,
			WPM:      r.WPM,
			Accuracy: r.Accuracy,
			Streak:   r.Streak,
			Sessions: 1,
		}
		if prev, ok := Find(*board, UserID); ok {
			entry.WPM = max(prev.WPM, r.WPM)
			entry.Accuracy = blendAccuracy(prev.Accuracy, prev.Sessions, r.Accuracy, blend)
			entry.Sessions = prev.Sessions + 1
		}
		Upsert(board, entry)
	}
}

func blendAccuracy(old, n, next int, blend Blend) int {
	if blend == BlendPairwise {
		return stats.Round(float64(old+next) / 2)
	}
	if n <= 0 {
		return next
	}
	return stats.Round((float64(old)*float64(n) + float64(next)) / float64(n+1))
}

// Upsert adds entry to the board or replaces the entry with the same id.
func Upsert(board *model.Board, entry model.LeaderboardEntry) {
	if idx := indexOf(board.Entries, entry.ID); idx >= 0 {
		board.Entries[idx] = entry
	} else {
		board.Entries = append(board.Entries, entry)
	}
	Rerank(board)
}

// Rerank orders entries by WPM descending, keeping the existing order for
// ties, and assigns contiguous ranks starting at 1.
func Rerank(board *model.Board) {
	sort.SliceStable(board.Entries, func(i, j int) bool {
		return board.Entries[i].WPM > board.Entries[j].WPM
	})
	for i := range board.Entries {
		board.Entries[i].Rank = i + 1
	}
}

// Find returns the entry with id, if present.
func Find(board model.Board, id string) (model.LeaderboardEntry, bool) {
	if idx := indexOf(board.Entries, id); idx >= 0 {
		return board.Entries[idx], true
	}
	return model.LeaderboardEntry{}, false
}

func indexOf(entries []model.LeaderboardEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
