package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

type keyHelp struct {
	key  string
	desc string
}

type helpSection struct {
	title string
	keys  []keyHelp
}

var helpSections = []helpSection{
	{"Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Sessions"},
		{"3", "Health and readiness"},
		{"4 or s", "Strava sync"},
		{"?", "Help (this screen)"},
		{"esc", "Back / close help"},
		{"q", "Quit"},
	}},
	{"Dashboard", []keyHelp{
		{"h / l", "Previous / next day"},
		{"r", "Refresh"},
	}},
	{"Sessions", []keyHelp{
		{"j / k", "Move cursor"},
		{"pgup / pgdn", "Previous / next page"},
		{"enter", "Session details"},
		{"d then y", "Delete session"},
		{"r", "Refresh"},
	}},
	{"Sync", []keyHelp{
		{"s / enter", "Start sync"},
		{"c", "Cancel a running sync"},
	}},
}

var metricsHelp = []keyHelp{
	{"Load (TRIMP)", "Minutes weighted by heart rate reserve. Falls back to average HR, then to duration x RPE."},
	{"Training effect", "Session load against your VO2max on a 0-5 scale."},
	{"Acute / Chronic", "Last 7 days of load against the weekly average of the last 28 days."},
	{"Ratio (ACWR)", "0.8-1.3 is productive. Above 1.5 is overreaching, below 0.8 is recovery."},
	{"CTL (Fitness)", "42-day exponentially weighted load."},
	{"ATL (Fatigue)", "7-day exponentially weighted load."},
	{"TSB (Form)", "CTL - ATL. Positive means fresh, very negative means overloaded."},
	{"Readiness", "Morning resting HR and HRV against your recent baseline."},
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{cardTitleStyle.Render("Keyboard Shortcuts")}
	for _, s := range helpSections {
		sections = append(sections, renderHelpSection(s.title, s.keys))
	}
	sections = append(sections, renderMetricsHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderHelpSection(title string, keys []keyHelp) string {
	lines := []string{"", sectionStyle.Render(title)}
	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}
	return strings.Join(lines, "\n")
}

func renderMetricsHelp() string {
	lines := []string{"", sectionStyle.Render("Metrics Explained"), ""}
	for _, metric := range metricsHelp {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.key))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
	}
	return strings.Join(lines, "\n")
}
