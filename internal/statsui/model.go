// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Shamsear/typevelocity/internal/heatmap"
	"github.com/Shamsear/typevelocity/internal/leaderboard"
	"github.com/Shamsear/typevelocity/internal/model"
	"github.com/Shamsear/typevelocity/internal/progress"
	"github.com/Shamsear/typevelocity/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabTrophies
	tabLeaderboard
	tabHeatmap
)

const (
	minWindow = 1
	maxWindow = 20
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Loader produces a fresh report each time the screen reloads.
type Loader func() stats.Report

// Model implements the Bubble Tea stats UI.
type Model struct {
	load   Loader
	report stats.Report
	window int

	tabs      []string
	activeTab int
	viewports []viewport.Model
	tables    map[int]*table.Model
	board     int

	width  int
	height int
}

// NewModel constructs a stats UI model. window is the moving-average size
// used by the trend sparklines.
func NewModel(load Loader, window int) *Model {
	m := &Model{
		load:   load,
		window: clampWindow(window),
		tabs:   []string{"Overview", "History", "Trophies", "Leaderboard", "Heatmap"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.tables = map[int]*table.Model{
		tabHistory:     newTable(historyColumns()),
		tabLeaderboard: newTable(boardColumns()),
	}
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.window = clampWindow(m.window + 1)
			m.renderTabContents()
			return m, nil
		case "-":
			m.window = clampWindow(m.window - 1)
			m.renderTabContents()
			return m, nil
		case "b":
			if m.activeTab == tabLeaderboard {
				m.board = (m.board + 1) % len(leaderboard.Names)
				m.fillBoardTable()
			}
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		}
		if t, ok := m.tables[m.activeTab]; ok {
			var cmd tea.Cmd
			*t, cmd = t.Update(msg)
			return m, cmd
		}
		vp := m.viewports[m.activeTab]
		var cmd tea.Cmd
		vp, cmd = vp.Update(msg)
		m.viewports[m.activeTab] = vp
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderHelp(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func clampWindow(n int) int {
	return min(max(n, minWindow), maxWindow)
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	for _, t := range m.tables {
		t.SetWidth(m.width)
		t.SetHeight(max(bodyHeight-2, 1))
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	for tab, t := range m.tables {
		if tab == m.activeTab {
			t.Focus()
		} else {
			t.Blur()
		}
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	p := m.report.Profile
	line := fmt.Sprintf("Level %d  XP %d/%d  Streak %d  window=%d", p.Level, p.XP, p.XPToNextLevel, p.Streak, m.window)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(line, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Reload: r  Quit: q"
	if m.activeTab == tabLeaderboard {
		help = "Nav: left/right  Board: b  Reload: r  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderBody() string {
	switch m.activeTab {
	case tabHistory:
		if len(m.report.History) == 0 {
			return "No sessions found."
		}
		return tableMutedStyle.Render(m.tables[tabHistory].View())
	case tabLeaderboard:
		title := headerStyle.Render(fmt.Sprintf("Board: %s", leaderboard.Names[m.board]))
		return title + "\n" + tableMutedStyle.Render(m.tables[tabLeaderboard].View())
	default:
		return m.viewports[m.activeTab].View()
	}
}

func (m *Model) refreshReport() {
	if m.load != nil {
		m.report = m.load()
	}
	m.fillHistoryTable()
	m.fillBoardTable()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.window, width))
	m.viewports[tabTrophies].SetContent(renderTrophies(m.report))
	m.viewports[tabHeatmap].SetContent(renderHeatmap(m.report.KeyErrors))
}

func renderOverview(r stats.Report, window, width int) string {
	p := r.Profile
	words, xp := progress.DailyProgress(p)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", p.Stats.TotalSessions)),
		metricCard("Avg WPM", fmt.Sprintf("%d", p.Stats.AverageWPM)),
		metricCard("Best WPM", fmt.Sprintf("%d", p.Stats.BestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%d%%", p.Stats.AverageAccuracy)),
		metricCard("Words", fmt.Sprintf("%.0f", p.TotalWordsTyped)),
		metricCard("Daily", fmt.Sprintf("%d%% words · %d%% XP", words, xp)),
	}
	var grid string
	if width < 80 {
		grid = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4], cards[5])
		grid = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	if len(r.History) == 0 {
		return grid + "\n\nNo sessions found."
	}
	var buf bytes.Buffer
	if err := stats.RenderTrends(&buf, r.History, window, max(width-12, 10)); err != nil {
		return grid + "\n\n" + fmt.Sprintf("Failed to render trends: %v", err)
	}
	plot := stats.PlotOptions{Width: stats.PlotWidthFor(width - 4), Height: 6, Color: true}
	if err := stats.PlotSeries(&buf, "", stats.SessionSeries(r.History, window), plot); err != nil {
		return grid + "\n\n" + fmt.Sprintf("Failed to plot sessions: %v", err)
	}
	return strings.TrimRight(grid+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderTrophies(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderTrophies(&buf, r.Trophies); err != nil {
		return fmt.Sprintf("Failed to render trophies: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderHeatmap(keys model.KeyErrorTable) string {
	t := heatmap.NewTable(keys)
	return strings.Join([]string{
		heatmap.RenderKeyboard(t),
		"",
		heatmap.RenderLegend(),
		"",
		heatmap.RenderTopList(t, 5),
	}, "\n")
}

func newTable(cols []table.Column) *table.Model {
	t := table.New(
		table.WithColumns(cols),
		table.WithHeight(1),
	)
	t.SetStyles(tableStyles())
	return &t
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "WPM", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Errors", Width: 7},
		{Title: "Time (s)", Width: 9},
		{Title: "Words", Width: 7},
	}
}

func historyRows(history []model.Session) []table.Row {
	rows := make([]table.Row, 0, len(history))
	for _, s := range history {
		rows = append(rows, table.Row{
			s.Date.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%.1f", s.Duration),
			fmt.Sprintf("%.1f", s.WordsTyped),
		})
	}
	return rows
}

func boardColumns() []table.Column {
	return []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: 14},
		{Title: "WPM", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Level", Width: 6},
		{Title: "Streak", Width: 7},
	}
}

func boardRows(board model.Board) []table.Row {
	rows := make([]table.Row, 0, len(board.Entries))
	for _, e := range board.Entries {
		rows = append(rows, table.Row{
			fmt.Sprintf("#%d", e.Rank),
			e.Name,
			fmt.Sprintf("%d", e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
			fmt.Sprintf("%d", e.Level),
			fmt.Sprintf("%d", e.Streak),
		})
	}
	return rows
}

func (m *Model) fillHistoryTable() {
	m.tables[tabHistory].SetRows(historyRows(m.report.History))
}

func (m *Model) fillBoardTable() {
	board, err := leaderboard.Select(&m.report.Boards, leaderboard.Names[m.board])
	if err != nil {
		m.tables[tabLeaderboard].SetRows(nil)
		return
	}
	m.tables[tabLeaderboard].SetRows(boardRows(*board))
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
