// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/progress"
	"github.com/Shamsear/typevelocity/internal/session"
	"github.com/Shamsear/typevelocity/internal/typing"
)

// PromptSource supplies prompt text for a player level. It must always
// return something typeable.
type PromptSource interface {
	Next(ctx context.Context, level int) string
}

type screen int

const (
	screenLoading screen = iota
	screenTyping
	screenResults
	screenCancelled
)

type promptMsg struct {
	text string
}

// tickMsg refreshes live stats. seq ties it to the session that scheduled it.
type tickMsg struct {
	seq int
}

const liveInterval = time.Second

// Model implements the Bubble Tea typing UI.
type Model struct {
	ctx     context.Context
	engine  *session.Engine
	source  PromptSource
	spinner spinner.Model
	theme   palette
	profile model.Profile

	width  int
	height int

	screen  screen
	prompt  []rune
	input   []rune
	classes []typing.Class
	live    model.LiveStats
	result  *session.Result
	notices []string
	err     error
	tickSeq int

	unsubscribe func()
}

// NewModel constructs a typing TUI model bound to engine.
func NewModel(ctx context.Context, engine *session.Engine, source PromptSource) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	m := &Model{
		ctx:     ctx,
		engine:  engine,
		source:  source,
		spinner: sp,
	}
	m.refreshProfile()
	m.unsubscribe = engine.Subscribe(m.onEvent)
	return m
}

// Close detaches the model from the engine event stream.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.nextPrompt()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if m.screen != screenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case promptMsg:
		return m, m.startPrompt(msg.text)
	case tickMsg:
		if m.screen != screenTyping || msg.seq != m.tickSeq {
			return m, nil
		}
		m.live = m.engine.LiveStats()
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.screen == screenTyping || m.screen == screenLoading {
			_ = m.engine.CancelSession()
		}
		return m, tea.Quit
	}
	switch m.screen {
	case screenLoading:
		if msg.Type == tea.KeyEsc {
			m.cancel()
		}
		return m, nil
	case screenTyping:
		switch msg.Type {
		case tea.KeyEsc:
			m.cancel()
		case tea.KeyBackspace, tea.KeyDelete:
			m.handleBackspace()
		case tea.KeySpace:
			m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			if msg.Paste {
				return m, nil
			}
			m.handleRunes(msg.Runes)
		}
		return m, nil
	default:
		switch msg.Type {
		case tea.KeyEnter, tea.KeyTab:
			return m, m.nextPrompt()
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyRunes:
			if string(msg.Runes) == "q" {
				return m, tea.Quit
			}
		}
		return m, nil
	}
}

// nextPrompt reloads the profile and fetches a prompt in the background.
func (m *Model) nextPrompt() tea.Cmd {
	if err := m.engine.BeginLoading(m.ctx); err != nil {
		m.err = err
		return nil
	}
	m.refreshProfile()
	m.screen = screenLoading
	m.err = nil
	ctx, src, level := m.ctx, m.source, m.profile.Level
	fetch := func() tea.Msg {
		return promptMsg{text: src.Next(ctx, level)}
	}
	return tea.Batch(m.spinner.Tick, fetch)
}

func (m *Model) startPrompt(text string) tea.Cmd {
	if m.screen != screenLoading {
		return nil
	}
	if err := m.engine.StartSession(m.ctx, text); err != nil {
		m.err = err
		m.screen = screenCancelled
		return nil
	}
	m.prompt = m.engine.Prompt()
	m.input = nil
	m.classes = typing.Classify(m.prompt, nil)
	m.live = m.engine.LiveStats()
	m.result = nil
	m.notices = nil
	m.screen = screenTyping
	m.tickSeq++
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	seq := m.tickSeq
	return tea.Tick(liveInterval, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}

func (m *Model) cancel() {
	if err := m.engine.CancelSession(); err != nil {
		m.err = err
	}
	m.screen = screenCancelled
	m.prompt = nil
	m.input = nil
	m.classes = nil
}

func (m *Model) handleBackspace() {
	if len(m.input) == 0 {
		return
	}
	m.apply(m.input[:len(m.input)-1])
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.screen != screenTyping || len(m.input) >= len(m.prompt) {
			return
		}
		next := make([]rune, len(m.input), len(m.input)+1)
		copy(next, m.input)
		m.apply(append(next, r))
	}
}

func (m *Model) apply(next []rune) {
	up, err := m.engine.HandleInput(m.ctx, string(next))
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.input = next
	m.classes = up.Classes
	m.live = up.Live
	if up.Completed {
		m.result = up.Result
		m.screen = screenResults
		m.refreshProfile()
	}
}

// onEvent runs synchronously inside engine calls made from Update.
func (m *Model) onEvent(ev session.Event) {
	switch ev.Kind {
	case session.EventLevelUp:
		m.notices = append(m.notices, fmt.Sprintf("Level up! You reached level %d.", ev.Level))
	case session.EventAchievementUnlocked:
		if ev.Achievement != nil {
			m.notices = append(m.notices, fmt.Sprintf("Achievement unlocked: %s - %s", ev.Achievement.Title, ev.Achievement.Description))
		}
	}
}

func (m *Model) refreshProfile() {
	m.profile = m.engine.Profile()
	m.theme = paletteFor(m.engine.Theme(m.ctx))
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenLoading:
		content = m.spinner.View() + " " + m.theme.muted.Render("Fetching prompt...")
	case screenTyping:
		content = m.renderPrompt()
	case screenResults:
		content = m.renderResults()
	default:
		content = m.theme.muted.Render("Session cancelled.")
		if m.err != nil {
			content += "\n" + m.theme.incorrect.Render(m.err.Error())
		}
		content += "\n\n" + m.theme.footer.Render("enter: new prompt · q: quit")
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := ""
	if m.screen == screenTyping && !m.profile.Preferences.FocusMode {
		footer = m.renderFooter()
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 2)
}

func (m *Model) renderPrompt() string {
	if len(m.prompt) == 0 {
		return ""
	}
	cursorIndex := -1
	if len(m.input) < len(m.prompt) {
		cursorIndex = len(m.input)
	}
	styled := buildStyledRunes(m.theme, m.prompt, m.classes, cursorIndex)
	width := m.contentWidth()
	if width == 0 {
		return renderStyledRunes(styled)
	}
	text := lipgloss.NewStyle().Width(width).Render(wrapStyledRunes(styled, width-1))
	if !m.profile.Preferences.ShowMiniHeatmap {
		return text
	}
	keys := heatmap.RenderKeyboard(heatmap.NewTable(m.engine.KeyErrors()))
	return lipgloss.JoinVertical(lipgloss.Center, text, "", keys)
}

func (m *Model) renderFooter() string {
	if len(m.prompt) == 0 {
		return ""
	}
	pct := int(float64(len(m.input)) / float64(len(m.prompt)) * 100)
	segments := []string{fmt.Sprintf("Progress %d%%", pct)}
	if m.profile.Preferences.ShowWPM {
		segments = append(segments, fmt.Sprintf("%d WPM · %d%%", m.live.WPM, m.live.Accuracy))
	}
	segments = append(segments,
		fmt.Sprintf("%ds", int(m.live.Elapsed.Seconds())),
		fmt.Sprintf("Lv %d · %d/%d XP", m.profile.Level, m.profile.XP, m.profile.XPToNextLevel),
		fmt.Sprintf("Streak %d", m.profile.Streak),
	)
	return m.theme.footer.Render(strings.Join(segments, "  "))
}

func (m *Model) renderResults() string {
	if m.result == nil {
		return ""
	}
	res := m.result
	s := res.Session
	xp := res.XP
	lines := []string{
		m.theme.title.Render("Session complete"),
		"",
		fmt.Sprintf("%d WPM   %d%% accuracy   %d errors   %.1fs", s.WPM, s.Accuracy, s.Errors, s.Duration),
		m.theme.accent.Render(fmt.Sprintf("+%d XP", xp.Total)) + m.theme.muted.Render(fmt.Sprintf(
			"  base %d × accuracy %.1f × length %.1f × streak %.1f × level %.2f",
			xp.Base, xp.AccuracyMultiplier, xp.LengthMultiplier, xp.StreakMultiplier, xp.LevelMultiplier)),
	}
	if ranks := formatRanks(res.Ranks); ranks != "" {
		lines = append(lines, m.theme.muted.Render(ranks))
	}
	words, dailyXP := progress.DailyProgress(res.Profile)
	lines = append(lines, m.theme.muted.Render(fmt.Sprintf("Daily goal: %d%% words · %d%% XP", words, dailyXP)))
	if len(m.notices) > 0 {
		lines = append(lines, "")
		for _, n := range m.notices {
			lines = append(lines, m.theme.accent.Render(n))
		}
	}
	if len(res.Insights) > 0 {
		lines = append(lines, "")
		for _, in := range res.Insights {
			lines = append(lines, "• "+in)
		}
	}
	lines = append(lines, "", m.theme.footer.Render("enter: next prompt · q: quit"))
	return strings.Join(lines, "\n")
}

func formatRanks(ranks map[string]int) string {
	parts := make([]string, 0, len(leaderboard.Names))
	for _, name := range leaderboard.Names {
		if rank, ok := ranks[name]; ok {
			parts = append(parts, fmt.Sprintf("%s #%d", name, rank))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Rank: " + strings.Join(parts, " · ")
}
