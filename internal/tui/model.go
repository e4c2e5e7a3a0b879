// Package tui provides the Bubble Tea practice screen.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/session"
)

// Engine is the session surface driven by the screen.
type Engine interface {
	Snapshot() session.Snapshot
	Start(ctx context.Context) session.Snapshot
	UpdateInput(ctx context.Context, value string) (session.Snapshot, error)
	Submit(ctx context.Context) (session.Snapshot, error)
	Reset() session.Snapshot
}

// BestSource reports a user's personal best.
type BestSource interface {
	BestFor(ctx context.Context, userID string) (model.Best, error)
}

// SnapshotMsg notifies the screen of a timer-driven change.
type SnapshotMsg session.Snapshot

// Model implements the Bubble Tea practice UI.
type Model struct {
	ctx      context.Context
	engine   Engine
	scores   BestSource
	logger   *slog.Logger
	username string

	input textinput.Model
	snap  session.Snapshot
	best  model.Best

	width  int
	height int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	overflowStyle    = incorrectStyle.Copy().Strikethrough(true)
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	resultStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs the practice screen for the given user.
func NewModel(ctx context.Context, engine Engine, scores BestSource, username string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "press enter to start"
	m := &Model{
		ctx:      ctx,
		engine:   engine,
		scores:   scores,
		logger:   logger,
		username: username,
		input:    ti,
		snap:     engine.Snapshot(),
	}
	m.loadBest()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(m.contentWidth()-len(m.input.Prompt)-1, 1)
		return m, nil
	case SnapshotMsg:
		// Timer snapshots can trail a reset or restart, so re-read the engine.
		return m, m.apply(m.engine.Snapshot())
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			return m, m.apply(m.engine.Reset())
		case tea.KeyEnter:
			if m.snap.State == session.Running {
				snap, err := m.engine.Submit(m.ctx)
				if err != nil {
					m.logger.Warn("submit rejected", "error", err)
				}
				return m, m.apply(snap)
			}
			return m, m.apply(m.engine.Start(m.ctx))
		}
		if m.snap.State != session.Running {
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == m.snap.Input {
			return m, cmd
		}
		snap, err := m.engine.UpdateInput(m.ctx, m.input.Value())
		if err != nil {
			m.logger.Warn("input rejected", "error", err)
		}
		return m, tea.Batch(cmd, m.apply(snap))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// apply makes snap the displayed state and syncs the input field with it.
func (m *Model) apply(snap session.Snapshot) tea.Cmd {
	prev := m.snap.State
	m.snap = snap
	if m.input.Value() != snap.Input {
		m.input.SetValue(snap.Input)
	}
	switch snap.State {
	case session.Running:
		if !m.input.Focused() {
			return m.input.Focus()
		}
	case session.Completed:
		m.input.Blur()
		if prev != session.Completed {
			m.loadBest()
		}
	default:
		m.input.Blur()
	}
	return nil
}

func (m *Model) loadBest() {
	if m.scores == nil {
		return
	}
	best, err := m.scores.BestFor(m.ctx, m.snap.UserID)
	if err != nil {
		m.logger.Error("failed to load best score", "user_id", m.snap.UserID, "error", err)
		return
	}
	m.best = best
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

// View implements tea.Model.
func (m *Model) View() string {
	cursor := -1
	if m.snap.State == session.Running {
		cursor = len([]rune(m.snap.Input))
	}
	cells := highlight([]rune(m.snap.Reference), []rune(m.snap.Input), cursor)

	width := m.contentWidth()
	parts := []string{
		titleStyle.Render(m.renderTitle()),
		"",
		wrapCells(cells, width),
		"",
		m.input.View(),
	}
	if result := m.renderResult(); result != "" {
		parts = append(parts, "", result)
	}
	content := strings.Join(parts, "\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	content = lipgloss.NewStyle().Width(width).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTitle() string {
	name := m.username
	if name == "" {
		name = model.GuestName
	}
	return fmt.Sprintf("typetest · %s", name)
}

func (m *Model) renderResult() string {
	if m.snap.State != session.Completed {
		return ""
	}
	line := resultStyle.Render(fmt.Sprintf("Finished: %d WPM · %d%% accuracy", m.snap.WPM, m.snap.Accuracy))
	if m.snap.SaveErr != nil {
		line += "\n" + errorStyle.Render("score not saved: "+m.snap.SaveErr.Error())
	}
	return line
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Time %ds", m.snap.Remaining),
		fmt.Sprintf("WPM %d", m.snap.WPM),
		fmt.Sprintf("Accuracy %d%%", m.snap.Accuracy),
		fmt.Sprintf("Best %d WPM · %d%%", m.best.WPM, m.best.Accuracy),
	}
	switch m.snap.State {
	case session.Running:
		segments = append(segments, "enter submit · ctrl+r reset · esc quit")
	default:
		segments = append(segments, "enter start · ctrl+r reset · esc quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
