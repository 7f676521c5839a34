package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runlog/internal/service"
	"runlog/internal/strava"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	syncing     bool
	progress    service.SyncProgress
	updates     <-chan service.SyncProgress
	done        <-chan SyncDoneMsg
	cancel      context.CancelFunc
	result      *service.SyncResult
	err         error
	finished    bool
}

// NewSyncModel creates a sync model. ss may be nil when Strava is not connected.
func NewSyncModel(ss *service.SyncService) SyncModel {
	return SyncModel{syncService: ss}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when a sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

type syncStartedMsg struct {
	updates <-chan service.SyncProgress
	done    <-chan SyncDoneMsg
	cancel  context.CancelFunc
}

type syncProgressMsg service.SyncProgress

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncStartedMsg:
		m.updates = msg.updates
		m.done = msg.done
		m.cancel = msg.cancel
		return m, m.listen()

	case syncProgressMsg:
		m.progress = service.SyncProgress(msg)
		return m, m.listen()

	case SyncDoneMsg:
		if m.cancel != nil {
			m.cancel()
		}
		m.syncing = false
		m.finished = true
		m.cancel = nil
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case tea.KeyMsg:
		if m.syncService == nil {
			return m, nil
		}
		if m.syncing {
			if msg.String() == "c" && m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		switch msg.String() {
		case "enter", "s":
			m.syncing = true
			m.finished = false
			m.err = nil
			m.result = nil
			m.progress = service.SyncProgress{}
			return m, m.startSync
		}
	}
	return m, nil
}

// startSync runs the sync in the background and hands its channels back
// to Update
func (m SyncModel) startSync() tea.Msg {
	ctx, cancel := context.WithCancel(context.Background())
	updates := make(chan service.SyncProgress, 16)
	done := make(chan SyncDoneMsg, 1)

	go func() {
		result, err := m.syncService.SyncAll(ctx, updates)
		done <- SyncDoneMsg{Result: result, Err: err}
	}()

	return syncStartedMsg{updates: updates, done: done, cancel: cancel}
}

// listen waits for the next progress update, or the result once the
// progress channel is closed
func (m SyncModel) listen() tea.Cmd {
	updates, done := m.updates, m.done
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return <-done
		}
		return syncProgressMsg(p)
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	sections := []string{cardTitleStyle.Render("Strava Sync")}

	switch {
	case m.syncService == nil:
		sections = append(sections,
			"",
			"  Strava is not connected.",
			"",
			mutedStyle.Render("  Add strava.client_id and strava.client_secret to the config,"),
			mutedStyle.Render("  then run 'runlog auth' to connect your account."))
	case m.syncing:
		sections = append(sections, m.renderProgress())
	case m.err != nil:
		sections = append(sections,
			errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)),
			m.renderSummary(),
			statusStyle.Render("  Press 's' or Enter to retry"))
	case m.finished:
		sections = append(sections,
			successStyle.Render("\n  Sync complete!"),
			m.renderSummary(),
			statusStyle.Render("  Press '1' to go to the dashboard"))
	default:
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	short, daily := m.syncService.RateLimitStatus()
	lines := []string{
		"",
		"  This will import your new Strava activities:",
		"",
		"  1. Fetch activities since the last sync",
		"  2. Download heart rate streams",
		"  3. Convert them into zone minutes and training load",
		"",
		statusStyle.Render(fmt.Sprintf("  API budget: %d/%d (15 min), %d/%d (daily)",
			short, strava.DefaultShortLimit, daily, strava.DefaultDailyLimit)),
		statusStyle.Render("  Press 's' or Enter to start sync"),
	}
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	p := m.progress
	lines := []string{""}

	switch p.Phase {
	case service.PhaseStreams:
		pct := 0.0
		if p.Total > 0 {
			pct = float64(p.Completed) / float64(p.Total)
		}
		lines = append(lines,
			fmt.Sprintf("  Processing activity %d of %d", p.Completed+1, p.Total),
			"  "+RenderProgressBar(pct, 40),
			mutedStyle.Render("  "+truncateName(p.CurrentActivity, 40)))
	case service.PhaseActivities:
		lines = append(lines, fmt.Sprintf("  Fetching activities... %d found", p.Total))
	default:
		lines = append(lines, "  Connecting to Strava...")
	}

	lines = append(lines, "", statusStyle.Render("  c: cancel"))
	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	r := m.result
	if r == nil {
		return ""
	}

	lines := []string{
		"",
		RenderMetric("Activities fetched", fmt.Sprintf("%d", r.ActivitiesFetched), ""),
		RenderMetric("Sessions created", fmt.Sprintf("%d", r.SessionsCreated), ""),
		RenderMetric("Sessions updated", fmt.Sprintf("%d", r.SessionsUpdated), ""),
		RenderMetric("HR streams", fmt.Sprintf("%d", r.StreamsFetched), ""),
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf("  %d activities failed:", len(r.Errors))))
		for i, err := range r.Errors {
			if i >= 5 {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("  ... and %d more", len(r.Errors)-5)))
				break
			}
			lines = append(lines, mutedStyle.Render("  "+err.Error()))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
