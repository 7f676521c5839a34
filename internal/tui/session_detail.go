package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runlog/internal/analysis"
	"runlog/internal/service"
	"runlog/internal/units"
)

// OpenSessionDetailMsg asks the app to show a session
type OpenSessionDetailMsg struct {
	View service.SessionView
}

// SessionDetailModel shows one session and how its load was derived
type SessionDetailModel struct {
	view     service.SessionView
	units    units.Units
	viewport viewport.Model
	ready    bool
}

// NewSessionDetailModel creates a detail model sized to the terminal
func NewSessionDetailModel(view service.SessionView, u units.Units, width, height int) SessionDetailModel {
	m := SessionDetailModel{view: view, units: u}
	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6)
		m.viewport.SetContent(m.renderContent())
		m.ready = true
	}
	return m
}

// Init does nothing, the session is already loaded
func (m SessionDetailModel) Init() tea.Cmd {
	return nil
}

// Update handles resizing and scrolling
func (m SessionDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		m.viewport.SetContent(m.renderContent())
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the session detail
func (m SessionDetailModel) View() string {
	if !m.ready {
		return m.renderContent()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		statusStyle.Render(fmt.Sprintf("  esc: back  j/k: scroll  %3.0f%%", m.viewport.ScrollPercent()*100)),
	)
}

func (m SessionDetailModel) renderContent() string {
	s := m.view.Session
	load := m.view.Load

	summary := []string{
		cardTitleStyle.Render(s.Name),
		mutedStyle.Render(s.StartTime.Format("Monday, Jan 2 2006 at 15:04") + " · " + s.Type + " · " + s.Source),
		"",
		RenderMetric("Duration", units.FormatDuration(s.DurationMinutes), ""),
	}
	if s.DistanceKm > 0 {
		summary = append(summary,
			RenderMetric("Distance", m.units.FormatDistance(s.DistanceKm), ""),
			RenderMetric("Pace", m.units.FormatPace(s.DurationMinutes, s.DistanceKm), ""))
	}
	if s.AvgHR > 0 {
		summary = append(summary, RenderMetric("Avg HR", fmt.Sprintf("%d bpm", s.AvgHR), ""))
	}
	if s.RPE > 0 {
		summary = append(summary, RenderMetric("RPE", fmt.Sprintf("%d / 10", s.RPE), ""))
	}

	loadCard := []string{
		cardTitleStyle.Render("Training Load"),
		RenderMetric("Load", fmt.Sprintf("%.0f", load.Load), ""),
		RenderMetric("Derived from", loadSourceLabel(load.Source), ""),
		RenderMetric("Training effect", fmt.Sprintf("%.1f", m.view.Effect.Value), ""),
		mutedStyle.Render(m.view.Effect.Label),
		"",
		renderFocus(load.Focus),
	}

	sections := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, summary...)),
			" ",
			cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, loadCard...)),
		),
	}

	if zones := renderZoneMinutes(s.ZoneMinutes); zones != "" {
		sections = append(sections, cardStyle.Render(zones))
	}
	if strings.TrimSpace(s.Notes) != "" {
		sections = append(sections, cardStyle.Width(90).Render(
			lipgloss.JoinVertical(lipgloss.Left, cardTitleStyle.Render("Notes"), s.Notes)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderZoneMinutes(zones [5]float64) string {
	var total float64
	for _, z := range zones {
		total += max(0, z)
	}
	if total <= 0 {
		return ""
	}

	lines := []string{cardTitleStyle.Render("Time in Zones")}
	for i, z := range zones {
		z = max(0, z)
		lines = append(lines, fmt.Sprintf("Zone %d  %s %6s  %3.0f%%",
			i+1, RenderProgressBar(z/total, 30), units.FormatDuration(z), 100*z/total))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func loadSourceLabel(s analysis.LoadSource) string {
	switch s {
	case analysis.SourceZones:
		return "heart rate zones"
	case analysis.SourceAvgHR:
		return "average heart rate"
	case analysis.SourceRPE:
		return "perceived effort"
	default:
		return "no intensity data"
	}
}
