package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"runlog/internal/service"
	"runlog/internal/units"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenSessions
	ScreenSessionDetail
	ScreenHealth
	ScreenSync
	ScreenHelp
)

// Deps are the services the screens read from
type Deps struct {
	Query *service.QueryService
	Entry *service.EntryService
	Sync  *service.SyncService // nil when Strava is not connected
	Units units.Units
	Today func() time.Time
}

// App is the root Bubble Tea model
type App struct {
	deps Deps

	screen     Screen
	prevScreen Screen

	dashboard  DashboardModel
	sessions   SessionsModel
	detail     SessionDetailModel
	health     HealthModel
	syncScreen SyncModel
	help       HelpModel

	width  int
	height int
}

// NewApp creates the root model
func NewApp(deps Deps) *App {
	if deps.Today == nil {
		deps.Today = time.Now
	}
	return &App{
		screen:     ScreenDashboard,
		deps:       deps,
		dashboard:  NewDashboardModel(deps.Query, deps.Units, deps.Today()),
		sessions:   NewSessionsModel(deps.Query, deps.Entry, deps.Units),
		health:     NewHealthModel(deps.Query, deps.Today(), 0, 0),
		syncScreen: NewSyncModel(deps.Sync),
		help:       NewHelpModel(),
	}
}

// Init loads the dashboard
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := a.handleGlobalKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the health screen sizes its viewport from every resize
		m, _ := a.health.Update(msg)
		a.health = m.(HealthModel)
		if a.screen == ScreenHealth {
			return a, nil
		}

	case OpenSessionDetailMsg:
		a.screen = ScreenSessionDetail
		a.detail = NewSessionDetailModel(msg.View, a.deps.Units, a.width, a.height)
		return a, nil

	case SyncCompleteMsg:
		a.dashboard = NewDashboardModel(a.deps.Query, a.deps.Units, a.deps.Today())
		return a, a.dashboard.Init()
	}

	var cmd tea.Cmd
	var m tea.Model
	switch a.screen {
	case ScreenDashboard:
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenSessions:
		m, cmd = a.sessions.Update(msg)
		a.sessions = m.(SessionsModel)
	case ScreenSessionDetail:
		m, cmd = a.detail.Update(msg)
		a.detail = m.(SessionDetailModel)
	case ScreenHealth:
		m, cmd = a.health.Update(msg)
		a.health = m.(HealthModel)
	case ScreenSync:
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}
	return a, cmd
}

// handleGlobalKey switches screens. Keys are left to the screen while a sync
// runs or a deletion awaits confirmation.
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if a.syncScreen.syncing || (a.screen == ScreenSessions && a.sessions.confirming) {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "1":
		a.screen = ScreenDashboard
		a.dashboard = NewDashboardModel(a.deps.Query, a.deps.Units, a.deps.Today())
		return a.dashboard.Init(), true
	case "2":
		a.screen = ScreenSessions
		return a.sessions.Init(), true
	case "3":
		a.screen = ScreenHealth
		a.health = NewHealthModel(a.deps.Query, a.deps.Today(), a.width, a.height)
		return a.health.Init(), true
	case "4", "s":
		if a.screen != ScreenSync {
			a.screen = ScreenSync
			return a.syncScreen.Init(), true
		}
	case "?":
		if a.screen != ScreenHelp {
			a.prevScreen = a.screen
			a.screen = ScreenHelp
		}
		return nil, true
	case "esc":
		switch a.screen {
		case ScreenHelp:
			a.screen = a.prevScreen
			return nil, true
		case ScreenSessionDetail:
			a.screen = ScreenSessions
			return nil, true
		}
	}
	return nil, false
}

// View renders the app
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenSessions:
		content = a.sessions.View()
	case ScreenSessionDetail:
		content = a.detail.View()
	case ScreenHealth:
		content = a.health.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render("runlog · training load & readiness"),
		a.renderNav(),
		content,
	)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Sessions", ScreenSessions},
		{"3", "Health", ScreenHealth},
		{"4", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}
		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen || (item.screen == ScreenSessions && a.screen == ScreenSessionDetail)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}
	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

// SyncCompleteMsg is sent when a sync finishes
type SyncCompleteMsg struct{}
