package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/Shamsear/typevelocity/internal/achievement"
	"github.com/Shamsear/typevelocity/internal/model"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Profile   model.Profile
	History   []model.Session
	Summary   Summary
	Boards    model.Leaderboards
	KeyErrors model.KeyErrorTable
	Trophies  []achievement.Trophy
}

// BuildReport prepares the data shown by the stats screen. last limits the
// history to the newest sessions; zero keeps all of it.
func BuildReport(p model.Profile, boards model.Leaderboards, keys model.KeyErrorTable, last int) Report {
	history := p.Stats.History
	if last > 0 && len(history) > last {
		history = history[:last]
	}
	return Report{
		Profile:   p,
		History:   history,
		Summary:   Summarize(history),
		Boards:    boards,
		KeyErrors: keys,
		Trophies:  achievement.Wall(p),
	}
}

// TopKeys returns the n most mistyped keys with their counts.
func TopKeys(keys model.KeyErrorTable, n int) [][2]string {
	type kc struct {
		key   string
		count int
	}
	list := make([]kc, 0, len(keys))
	for k, c := range keys {
		if c > 0 {
			list = append(list, kc{k, c})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count == list[j].count {
			return list[i].key < list[j].key
		}
		return list[i].count > list[j].count
	})
	if n > 0 && len(list) > n {
		list = list[:n]
	}
	out := make([][2]string, len(list))
	for i, item := range list {
		label := item.key
		if label == " " {
			label = "space"
		}
		out[i] = [2]string{label, fmt.Sprintf("%d", item.count)}
	}
	return out
}

// RenderProfile prints level, XP and daily goal progress.
func RenderProfile(w io.Writer, p model.Profile) error {
	lines := []string{
		"Profile",
		fmt.Sprintf("Level: %d (%d/%d XP)", p.Level, p.XP, p.XPToNextLevel),
		fmt.Sprintf("Streak: %d day(s)", p.Streak),
		fmt.Sprintf("Today: %.0f/%d words, %d/%d XP", p.DailyWordsTyped, p.DailyGoal, p.DailyXP, p.DailyXPGoal),
		fmt.Sprintf("Total words: %.0f", p.TotalWordsTyped),
		fmt.Sprintf("Sessions: %d  Avg WPM: %d  Avg accuracy: %d%%  Best WPM: %d",
			p.Stats.TotalSessions, p.Stats.AverageWPM, p.Stats.AverageAccuracy, p.Stats.BestWPM),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderBoard prints one leaderboard.
func RenderBoard(w io.Writer, title string, board model.Board) error {
	heading := title
	if board.Period != "" {
		heading = fmt.Sprintf("%s (%s)", title, board.Period)
	}
	if _, err := fmt.Fprintln(w, heading); err != nil {
		return err
	}
	headers := []string{"Rank", "Name", "Level", "WPM", "Accuracy", "Streak"}
	rows := make([][]string, 0, len(board.Entries))
	for _, e := range board.Entries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Rank),
			e.Name,
			fmt.Sprintf("%d", e.Level),
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			fmt.Sprintf("%d", e.Streak),
		})
	}
	return writeTable(w, headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true, 5: true})
}

// RenderTrophies prints the achievement wall.
func RenderTrophies(w io.Writer, trophies []achievement.Trophy) error {
	headers := []string{"", "Achievement", "Description", "Earned"}
	rows := make([][]string, 0, len(trophies))
	for _, t := range trophies {
		mark, earned := " ", "-"
		if t.Unlocked {
			mark = "*"
			earned = t.DateEarned.Local().Format("2006-01-02")
		}
		rows = append(rows, []string{mark, t.Title, t.Description, earned})
	}
	if _, err := fmt.Fprintln(w, "Trophies"); err != nil {
		return err
	}
	return writeTable(w, headers, rows, nil)
}

// RenderReport prints the full text report. width bounds the trend
// sparklines and the session plot.
func RenderReport(w io.Writer, r Report, window, width int) error {
	if err := RenderProfile(w, r.Profile); err != nil {
		return err
	}
	if err := RenderSummary(w, r.History); err != nil {
		return err
	}
	if err := RenderTrends(w, r.History, window, width); err != nil {
		return err
	}
	if err := PlotSeries(w, "Session Trends", SessionSeries(r.History, window), PlotOptions{Width: PlotWidthFor(width)}); err != nil {
		return err
	}
	if err := RenderHistoryTable(w, r.History, 10); err != nil {
		return err
	}
	if top := TopKeys(r.KeyErrors, 10); len(top) > 0 {
		rows := make([][]string, len(top))
		for i, kc := range top {
			rows[i] = []string{kc[0], kc[1]}
		}
		if _, err := fmt.Fprintln(w, "Most Mistyped Keys"); err != nil {
			return err
		}
		if err := writeTable(w, []string{"Key", "Errors"}, rows, map[int]bool{1: true}); err != nil {
			return err
		}
	}
	if err := RenderBoard(w, "All-time Leaderboard", r.Boards.AllTime); err != nil {
		return err
	}
	return RenderTrophies(w, r.Trophies)
}
