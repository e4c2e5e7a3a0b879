// Package statsui provides the Bubble Tea scoreboard interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/stats"
)

const (
	tabLeaderboard = iota
	tabHistory
)

const (
	historyWindow = 5
	recentRows    = 10
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
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Source serves the data shown by the scoreboard.
type Source interface {
	Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	History(ctx context.Context, userID string, n int) ([]model.ScoreRecord, error)
}

// Model implements the Bubble Tea scoreboard UI.
type Model struct {
	ctx      context.Context
	source   Source
	userID   string
	username string
	limit    int

	entries []model.LeaderboardEntry
	history []model.ScoreRecord
	errMsg  string

	tabs      []string
	activeTab int
	board     table.Model
	viewport  viewport.Model

	width  int
	height int
}

// NewModel constructs a scoreboard for the given user.
func NewModel(ctx context.Context, source Source, userID, username string, limit int) *Model {
	m := &Model{
		ctx:      ctx,
		source:   source,
		userID:   userID,
		username: username,
		limit:    limit,
		tabs:     []string{"Leaderboard", "History"},
		board:    buildBoard(nil, 0, 1),
		viewport: viewport.New(0, 0),
	}
	m.board.Focus()
	m.refresh()
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "shift+tab":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		case "g", "home":
			if m.activeTab == tabLeaderboard {
				m.board.GotoTop()
			} else {
				m.viewport.GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLeaderboard {
				m.board.GotoBottom()
			} else {
				m.viewport.GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabLeaderboard {
			m.board, cmd = m.board.Update(msg)
		} else {
			m.viewport, cmd = m.viewport.Update(msg)
		}
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
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.errMsg = ""
	entries, err := m.source.Leaderboard(m.ctx, m.limit)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load leaderboard: %v", err)
		entries = nil
	}
	history, err := m.source.History(m.ctx, m.userID, 0)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to load history: %v", err)
		history = nil
	}
	m.entries = entries
	m.history = history
	m.board.SetRows(boardRows(entries, m.userID))
	m.viewport.SetContent(renderHistory(history, m.width))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(lipgloss.Height(activeNavStyle.Render("X")), 1) + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.board.SetWidth(m.width)
	m.board.SetHeight(max(bodyHeight-1, 1))
	m.viewport.SetContent(renderHistory(m.history, m.width))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabLeaderboard {
		m.board.Focus()
	} else {
		m.board.Blur()
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
	limit := m.limit
	if limit <= 0 {
		limit = len(m.entries)
	}
	summary := fmt.Sprintf("User: %s  Top: %d  Sessions: %d", m.username, limit, len(m.history))
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.activeTab == tabLeaderboard {
		if len(m.entries) == 0 {
			return "No scores yet."
		}
		return m.board.View()
	}
	return m.viewport.View()
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func buildBoard(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "User", Width: 20},
			{Title: "WPM", Width: 6},
			{Title: "Accuracy", Width: 9},
		}),
		table.WithRows(rows),
		table.WithHeight(max(height, 1)),
	)
	t.SetWidth(width)
	t.SetStyles(boardStyles())
	return t
}

func boardStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

// boardRows marks the viewing user's row with a trailing asterisk.
func boardRows(entries []model.LeaderboardEntry, userID string) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		name := e.Username
		if e.UserID == userID {
			name += " *"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(e.Rank),
			name,
			strconv.Itoa(e.WPM),
			fmt.Sprintf("%d%%", e.Accuracy),
		})
	}
	return rows
}

func renderHistory(records []model.ScoreRecord, width int) string {
	if len(records) == 0 {
		return "No sessions found."
	}
	sum := stats.Summarize(records)
	cards := []string{
		metricCard("Sessions", strconv.Itoa(sum.Sessions)),
		metricCard("Best", fmt.Sprintf("%d WPM · %d%%", sum.Best.WPM, sum.Best.Accuracy)),
		metricCard("Last", fmt.Sprintf("%d WPM · %d%%", sum.Last.WPM, sum.Last.Accuracy)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", sum.AvgWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", sum.AvgAccuracy)),
	}
	var top string
	if width < 80 {
		top = strings.Join(cards, "\n")
	} else {
		top = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var curves bytes.Buffer
	fmt.Fprintf(&curves, "WPM      %s\n", stats.Sparkline(stats.MovingAverage(stats.WPMSeries(records), historyWindow)))
	fmt.Fprintf(&curves, "Accuracy %s\n", stats.Sparkline(stats.MovingAverage(stats.AccuracySeries(records), historyWindow)))

	recent := records[max(len(records)-recentRows, 0):]
	lines := []string{"Recent:"}
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		lines = append(lines, fmt.Sprintf("  %s  %3d WPM  %3d%%", r.RecordedAt.Local().Format("2006-01-02 15:04"), r.WPM, r.Accuracy))
	}
	return strings.Join([]string{top, "", strings.TrimRight(curves.String(), "\n"), "", strings.Join(lines, "\n")}, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
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
