package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runlog/internal/service"
	"runlog/internal/units"
)

// SessionsModel is the session list screen model
type SessionsModel struct {
	queryService *service.QueryService
	entryService *service.EntryService
	units        units.Units
	sessions     []service.SessionView
	cursor       int
	offset       int
	total        int
	pageSize     int
	loading      bool
	confirming   bool
	message      string
	err          error
}

// NewSessionsModel creates a session list model
func NewSessionsModel(qs *service.QueryService, es *service.EntryService, u units.Units) SessionsModel {
	return SessionsModel{
		queryService: qs,
		entryService: es,
		units:        u,
		pageSize:     15,
		loading:      true,
	}
}

// Init loads the first page
func (m SessionsModel) Init() tea.Cmd {
	return m.loadPage
}

type sessionsLoadedMsg struct {
	sessions []service.SessionView
	total    int
	err      error
}

type sessionDeletedMsg struct {
	name string
	err  error
}

func (m SessionsModel) loadPage() tea.Msg {
	ctx := context.Background()
	sessions, err := m.queryService.ListSessions(ctx, m.pageSize, m.offset)
	if err != nil {
		return sessionsLoadedMsg{err: err}
	}
	total, err := m.queryService.CountSessions(ctx)
	if err != nil {
		return sessionsLoadedMsg{err: err}
	}
	return sessionsLoadedMsg{sessions: sessions, total: total}
}

func (m SessionsModel) deleteSelected() tea.Cmd {
	s := m.sessions[m.cursor].Session
	return func() tea.Msg {
		err := m.entryService.DeleteSession(context.Background(), s.ID)
		return sessionDeletedMsg{name: s.Name, err: err}
	}
}

// Update handles messages
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.sessions = msg.sessions
		m.total = msg.total
		if m.cursor >= len(m.sessions) {
			m.cursor = max(0, len(m.sessions)-1)
		}

	case sessionDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.message = fmt.Sprintf("Deleted %q", msg.name)
		if len(m.sessions) == 1 && m.offset > 0 {
			m.offset -= m.pageSize
		}
		m.loading = true
		return m, m.loadPage

	case tea.KeyMsg:
		if m.confirming {
			m.confirming = false
			if msg.String() == "y" && m.entryService != nil && m.cursor < len(m.sessions) {
				return m, m.deleteSelected()
			}
			m.message = ""
			return m, nil
		}

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
				m.loading = true
				return m, m.loadPage
			}
		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			} else if m.offset+len(m.sessions) < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgup":
			if m.offset > 0 {
				m.offset = max(0, m.offset-m.pageSize)
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total {
				m.offset += m.pageSize
				m.cursor = 0
				m.loading = true
				return m, m.loadPage
			}
		case "r":
			m.message = ""
			m.loading = true
			return m, m.loadPage
		case "d":
			if len(m.sessions) > 0 && m.entryService != nil {
				m.confirming = true
				m.message = fmt.Sprintf("Delete %q? (y/n)", m.sessions[m.cursor].Session.Name)
			}
		case "enter":
			if m.cursor < len(m.sessions) {
				view := m.sessions[m.cursor]
				return m, func() tea.Msg { return OpenSessionDetailMsg{View: view} }
			}
		}
	}
	return m, nil
}

// View renders the session list
func (m SessionsModel) View() string {
	if m.loading {
		return "\n  Loading sessions..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if len(m.sessions) == 0 {
		return "\n  No sessions yet. Log one with 'runlog log' or press 's' to sync with Strava."
	}

	title := cardTitleStyle.Render(fmt.Sprintf("Sessions (%d-%d of %d)",
		m.offset+1, m.offset+len(m.sessions), m.total))
	header := tableHeaderStyle.Render(fmt.Sprintf("  %-16s  %-8s  %-24s  %8s  %9s  %5s  %5s  %-6s",
		"Date", "Type", "Name", "Duration", "Distance", "Load", "TE", "Source"))

	sections := []string{title, header}
	for i, v := range m.sessions {
		s := v.Session

		dist := "-"
		if s.DistanceKm > 0 {
			dist = m.units.FormatDistance(s.DistanceKm)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-16s  %-8s  %-24s  %8s  %9s  %5.0f  %5.1f  %-6s",
			cursor,
			s.StartTime.Format("Mon Jan 02 15:04"),
			s.Type,
			truncateName(s.Name, 24),
			units.FormatDuration(s.DurationMinutes),
			dist,
			v.Load.Load,
			v.Effect.Value,
			s.Source,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	if m.message != "" {
		style := successStyle
		if m.confirming {
			style = warningStyle
		}
		sections = append(sections, "", "  "+style.Render(m.message))
	}
	sections = append(sections,
		statusStyle.Render("  enter: details  d: delete  j/k: navigate  pgup/pgdn: page  r: refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
