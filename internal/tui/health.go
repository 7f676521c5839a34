package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"runlog/internal/service"
	"runlog/internal/store"
)

// HealthModel shows today's readiness and recent morning readings
type HealthModel struct {
	queryService *service.QueryService
	date         time.Time
	readiness    *service.ReadinessReport
	history      []store.HealthLog
	viewport     viewport.Model
	ready        bool
	loading      bool
	err          error
}

// NewHealthModel creates a health model for date
func NewHealthModel(qs *service.QueryService, date time.Time, width, height int) HealthModel {
	m := HealthModel{queryService: qs, date: date, loading: true}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.ready = true
	}
	return m
}

// Init loads readiness and history
func (m HealthModel) Init() tea.Cmd {
	return m.load
}

type healthLoadedMsg struct {
	readiness *service.ReadinessReport
	history   []store.HealthLog
	err       error
}

func (m HealthModel) load() tea.Msg {
	ctx := context.Background()
	readiness, err := m.queryService.Readiness(ctx, m.date)
	if err != nil {
		return healthLoadedMsg{err: err}
	}
	history, err := m.queryService.HealthHistory(ctx, m.date, service.HealthHistoryDays)
	if err != nil {
		return healthLoadedMsg{err: err}
	}
	return healthLoadedMsg{readiness: readiness, history: history}
}

// Update handles messages
func (m HealthModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case healthLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.readiness = msg.readiness
		m.history = msg.history
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if !m.loading {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.load
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the health screen
func (m HealthModel) View() string {
	if m.loading {
		return "\n  Loading health data..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if !m.ready {
		return m.renderContent()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		statusStyle.Render("  r: refresh  j/k: scroll"),
	)
}

func (m HealthModel) renderContent() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderReadiness(),
		m.renderRHRChart(),
		m.renderHistory(),
	)
}

func (m HealthModel) renderReadiness() string {
	title := cardTitleStyle.Render("Readiness · " + m.date.Format("Mon Jan 2"))
	r := m.readiness

	if r == nil || r.Today == nil {
		return cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, title,
			mutedStyle.Render("No reading for today. Log one with 'runlog health -rhr N [-hrv N]'.")))
	}

	lines := []string{title,
		RenderMetric("Resting HR", fmt.Sprintf("%d bpm", r.Today.RHR), ""),
		RenderMetric("HRV", formatOptional(r.Today.HRV, "%.0f ms"), ""),
		RenderMetric("Sleep", formatOptional(r.Today.SleepHours, "%.1f h"), ""),
		RenderMetric("Baseline RHR", formatOptional(r.BaselineRHR, "%.1f"), ""),
		RenderMetric("Baseline HRV", formatOptional(r.BaselineHRV, "%.0f"), ""),
		"",
	}
	if a := r.Assessment; a != nil {
		lines = append(lines,
			tierStyle(a.Tier).Render(fmt.Sprintf("%s · %s", a.Tier, a.Recommendation)),
			mutedStyle.Render(a.TargetLoad),
			a.Message,
			mutedStyle.Render(fmt.Sprintf("compared against a %s baseline", a.Baseline)),
		)
	} else {
		lines = append(lines, mutedStyle.Render("Not enough history for a baseline yet."))
	}
	return cardStyle.Width(60).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m HealthModel) renderRHRChart() string {
	if len(m.history) < 2 {
		return ""
	}

	// history is newest first
	data := make([]float64, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		data = append(data, float64(m.history[i].RHR))
	}
	graph := asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Width(50),
		asciigraph.Precision(0),
	)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Resting HR"), graph))
}

func (m HealthModel) renderHistory() string {
	title := cardTitleStyle.Render(fmt.Sprintf("Last %d days", service.HealthHistoryDays))
	if len(m.history) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No readings logged"))
	}

	rows := []string{title, tableHeaderStyle.Render(fmt.Sprintf("%-10s  %4s  %6s  %6s  %7s",
		"Date", "RHR", "HRV", "Sleep", "VO2max"))}
	for _, h := range m.history {
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %4d  %6s  %6s  %7s",
			h.Date.Format("Mon Jan 02"),
			h.RHR,
			formatOptional(h.HRV, "%.0f"),
			formatOptional(h.SleepHours, "%.1f"),
			formatOptional(h.VO2Max, "%.1f"),
		)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
