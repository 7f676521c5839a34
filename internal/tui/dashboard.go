package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"runlog/internal/analysis"
	"runlog/internal/service"
	"runlog/internal/units"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        units.Units
	date         time.Time
	data         *service.Dashboard
	loading      bool
	err          error
}

// NewDashboardModel creates a dashboard for date
func NewDashboardModel(qs *service.QueryService, u units.Units, date time.Time) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        u,
		date:         date,
		loading:      true,
	}
}

// Init loads the dashboard data
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

type dashboardDataMsg struct {
	data *service.Dashboard
	err  error
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.Dashboard(context.Background(), m.date)
	return dashboardDataMsg{data: data, err: err}
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		case "left", "h":
			m.date = m.date.AddDate(0, 0, -1)
			m.loading = true
			return m, m.loadData
		case "right", "l":
			m.date = m.date.AddDate(0, 0, 1)
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.data == nil {
		return "\n  No data available. Log a session with 'runlog log' or press 's' to sync."
	}

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderStatusCard(), " ", m.renderReadinessCard(), " ", m.renderFitnessCard())

	sections := []string{
		mutedStyle.Render("  " + m.data.Date.Format("Monday, Jan 2 2006")),
		topRow,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderFitnessChart(), " ", m.renderRatioChart()),
		m.renderWeeklyLoad(),
		m.renderRecentSessions(),
		statusStyle.Render("  r: refresh  h/l: previous/next day  2: sessions  s: sync"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStatusCard() string {
	snap := m.data.Status.Snapshot

	lines := []string{
		cardTitleStyle.Render("Training Status"),
		statusStyleFor(snap.Label).Render(snap.Label),
		mutedStyle.Width(34).Render(snap.Rationale),
		"",
		RenderMetric("Acute (7d)", fmt.Sprintf("%.0f", snap.Acute), ""),
		RenderMetric("Chronic / week", fmt.Sprintf("%.0f", snap.ChronicWeekly), ""),
		RenderMetric("Ratio", fmt.Sprintf("%.2f", snap.Ratio), ""),
		RenderMetric("Monotony", fmt.Sprintf("%.2f", m.data.Status.Monotony), ""),
		"",
		renderFocus(snap.Buckets),
		mutedStyle.Width(34).Render(snap.Feedback.Message),
	}
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderReadinessCard() string {
	title := cardTitleStyle.Render("Readiness")
	r := m.data.Readiness

	if r == nil || r.Today == nil {
		body := mutedStyle.Width(30).Render("No morning reading yet. Log one with 'runlog health -rhr N'.")
		return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}
	if r.Assessment == nil {
		body := mutedStyle.Width(30).Render("Not enough history for a baseline yet.")
		return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
	}

	a := r.Assessment
	lines := []string{
		title,
		tierStyle(a.Tier).Render(a.Recommendation),
		mutedStyle.Width(30).Render(a.TargetLoad),
		"",
		RenderMetric("Resting HR", fmt.Sprintf("%d", r.Today.RHR), signed(a.RHRDelta, "%.0f")),
		RenderMetric("HRV", formatOptional(r.Today.HRV, "%.0f ms"), signed(a.HRVDelta, "%.0f")),
		RenderMetric("Baseline", string(a.Baseline), ""),
		"",
		mutedStyle.Width(30).Render(a.Message),
	}
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderFitnessCard() string {
	s := m.data.Fitness.Summary

	lines := []string{
		cardTitleStyle.Render("Fitness"),
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.0f", s.Latest.CTL), signed(s.CTLDelta, "%.1f")),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.0f", s.Latest.ATL), signed(s.ATLDelta, "%.1f")),
		RenderMetric("Form (TSB)", fmt.Sprintf("%.0f", s.Latest.TSB), signed(s.TSBDelta, "%.1f")),
		RenderMetric("Trend", s.Trend, ""),
		"",
		formStyle(s.Form).Render(s.Form),
		mutedStyle.Width(30).Render(analysis.FormDescription(s.Latest.TSB)),
		"",
		RenderMetric("Sessions (7d)", fmt.Sprintf("%d", m.data.WeekSessions), ""),
		RenderMetric("Time (7d)", units.FormatDuration(m.data.WeekMinutes), ""),
		RenderMetric("Distance (7d)", m.units.FormatDistance(m.data.WeekDistance), ""),
	}
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m DashboardModel) renderFitnessChart() string {
	series := m.data.Fitness.Series
	if len(series) < 2 {
		return ""
	}

	ctl := make([]float64, len(series))
	atl := make([]float64, len(series))
	tsb := make([]float64, len(series))
	for i, p := range series {
		ctl[i], atl[i], tsb[i] = p.CTL, p.ATL, p.TSB
	}

	graph := asciigraph.PlotMany([][]float64{ctl, atl, tsb},
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
	)
	legend := mutedStyle.Render(fmt.Sprintf("CTL (blue)  ATL (red)  TSB (green)  last %d days", len(series)))

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Fitness · Fatigue · Form"), graph, legend))
}

func (m DashboardModel) renderRatioChart() string {
	days := m.data.Status.Series
	if len(days) < 2 {
		return ""
	}

	ratio := make([]float64, len(days))
	for i, d := range days {
		ratio[i] = d.Ratio
	}

	graph := asciigraph.Plot(ratio,
		asciigraph.Height(10),
		asciigraph.Width(40),
		asciigraph.Precision(1),
		asciigraph.LowerBound(0),
	)
	legend := mutedStyle.Render("optimal band 0.8 - 1.3")

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render("Acute:Chronic (28d)"), graph, legend))
}

func (m DashboardModel) renderWeeklyLoad() string {
	weeks := m.data.WeeklyLoad
	if len(weeks) == 0 {
		return ""
	}

	peak := 0.0
	for _, w := range weeks {
		peak = max(peak, w)
	}

	rows := []string{cardTitleStyle.Render(fmt.Sprintf("Weekly Load (last %d weeks)", len(weeks)))}
	for i, w := range weeks {
		pct := 0.0
		if peak > 0 {
			pct = w / peak
		}
		label := ""
		if i < len(m.data.WeeklyLabels) {
			label = m.data.WeeklyLabels[i]
		}
		rows = append(rows, fmt.Sprintf("%-8s %s %5.0f", label, RenderProgressBar(pct, 40), w))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m DashboardModel) renderRecentSessions() string {
	title := cardTitleStyle.Render("Recent Sessions")
	if len(m.data.Recent) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No sessions yet"))
	}

	rows := []string{title, tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-8s  %-22s  %8s  %6s  %5s",
		"Date", "Type", "Name", "Duration", "Load", "TE"))}

	for i, v := range m.data.Recent {
		if i >= 5 {
			break
		}
		s := v.Session
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %-8s  %-22s  %8s  %6.0f  %5.1f",
			s.StartTime.Format("Mon Jan 02"),
			s.Type,
			truncateName(s.Name, 22),
			units.FormatDuration(s.DurationMinutes),
			v.Load.Load,
			v.Effect.Value,
		)))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderFocus shows the low/high/anaerobic share of the 28-day load
func renderFocus(f analysis.Focus) string {
	total := f.Total()
	if total <= 0 {
		return mutedStyle.Render("No load in the last 28 days")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		"Low       "+RenderProgressBar(f.Low/total, 16)+fmt.Sprintf(" %3.0f%%", 100*f.Low/total),
		"High      "+RenderProgressBar(f.High/total, 16)+fmt.Sprintf(" %3.0f%%", 100*f.High/total),
		"Anaerobic "+RenderProgressBar(f.Anaerobic/total, 16)+fmt.Sprintf(" %3.0f%%", 100*f.Anaerobic/total),
	)
}

// signed formats a delta with an explicit sign, or "" for zero
func signed(v float64, format string) string {
	s := fmt.Sprintf(format, v)
	zero := fmt.Sprintf(format, 0.0)
	if s == zero || s == "-"+zero {
		return ""
	}
	if v > 0 {
		return "+" + s
	}
	return s
}

func formatOptional(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func truncateName(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
