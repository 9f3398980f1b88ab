package app

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/task2sms/tui/internal/api"
	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/session"
	"github.com/task2sms/tui/internal/store"
	"github.com/task2sms/tui/internal/theme"
	"github.com/task2sms/tui/internal/ui"
	"github.com/task2sms/tui/internal/ui/analytics"
	"github.com/task2sms/tui/internal/ui/dashboard"
	"github.com/task2sms/tui/internal/ui/detail"
	loginview "github.com/task2sms/tui/internal/ui/login"
	"github.com/task2sms/tui/internal/ui/notifications"
	"github.com/task2sms/tui/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewDashboard
	ViewDetail
	ViewTaskCreate
	ViewTaskEdit
	ViewNotifications
	ViewAnalytics
)

// Model is the root Bubble Tea model that manages authentication gating,
// view routing, layout, and access to the API and the local read cache.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	client  *api.Client
	session *session.Store
	cache   store.Cache

	configPath string
	config     *model.AppConfig

	loginView     loginview.Model
	dashboardView dashboard.Model
	detailView    detail.Model
	formView      taskform.Model
	logView       notifications.Model
	analyticsView analytics.Model

	helpView help.Model
	showHelp bool

	ready         bool
	statusMessage string
}

// New creates the root application model.
func New(client *api.Client, sess *session.Store, cache store.Cache, configPath string, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView:   ViewLogin,
		keys:          k,
		client:        client,
		session:       sess,
		cache:         cache,
		configPath:    configPath,
		config:        cfg,
		loginView:     loginview.New(80, 24),
		dashboardView: dashboard.New(k, 80, 24),
		detailView:    detail.New(k, 80, 24),
		formView:      taskform.New(80, 24),
		logView:       notifications.New(k, 80, 24),
		analyticsView: analytics.New(k, 80, 24),
		helpView:      help.New(),
	}
}

// Init resumes any persisted session and shows cached data right away.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loginView.Init(),
		m.checkSession(),
		m.loadCachedTasks(),
		m.loadCachedNotifications(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.dashboardView.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.formView.SetSize(w, h)
		m.logView.SetSize(w, h)
		m.analyticsView.SetSize(w, h)
		m.helpView.Width = w
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case sessionCheckedMsg:
		if m.session.State() == session.StateAuthenticated {
			return m.enterDashboard()
		}
		m.currentView = ViewLogin
		return m, nil

	case loginview.LoginSubmitMsg:
		return m, m.login(msg.Username, msg.Password)

	case loginview.RegisterSubmitMsg:
		return m, m.register(msg.Email, msg.Username, msg.Password)

	case authResultMsg:
		if msg.err != nil {
			m.loginView.SetError(msg.err)
			return m, m.loginView.Init()
		}
		return m.enterDashboard()

	case loggedOutMsg:
		return m.enterLogin()

	case tasksLoadedMsg:
		return m.handleTasksLoaded(msg)

	case notificationsLoadedMsg:
		return m.handleNotificationsLoaded(msg)

	case taskDetailLoadedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.detailView.SetTask(msg.task, msg.notifications)
		return m, nil

	case taskMutatedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.statusMessage = msg.status
		return m, tea.Batch(m.fetchTasks(), m.fetchNotifications())

	case analyticsLoadedMsg:
		if msg.err != nil {
			return m.handleAPIError(msg.err)
		}
		m.analyticsView.SetNotifications(msg.days, msg.notifications)
		return m, nil

	case dashboard.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetLoading()
		return m, m.loadTaskDetail(msg.TaskID)

	case dashboard.NewTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		return m, m.formView.StartCreate()

	case dashboard.EditTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.formView.StartEdit(msg.Task)

	case dashboard.ToggleTaskMsg:
		return m, m.toggleTask(msg.TaskID)

	case dashboard.DeleteTaskMsg:
		return m, m.deleteTask(msg.TaskID)

	case taskform.TaskCreatedMsg:
		m.currentView = ViewDashboard
		return m, m.createTask(msg.Task)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewDashboard
		return m, m.updateTask(msg.Task)

	case taskform.TaskFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case notifications.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case analytics.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case analytics.RangeSelectedMsg:
		return m, m.loadAnalytics(msg.Days)

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKeys(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that apply regardless of the active view.
// Form views get raw input, so only quit is global there.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return true, m, tea.Quit
	}

	inForm := m.currentView == ViewLogin ||
		m.currentView == ViewTaskCreate ||
		m.currentView == ViewTaskEdit
	if inForm {
		return false, m, nil
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewDashboard {
			return true, m, tea.Quit
		}

	case "?":
		m.showHelp = !m.showHelp
		m.helpView.ShowAll = m.showHelp
		return true, m, nil

	case "r":
		m.statusMessage = ""
		return true, m, tea.Batch(m.fetchTasks(), m.fetchNotifications())

	case "T":
		return true, m, m.toggleTheme()

	case "e":
		if m.currentView == ViewDetail {
			if task := m.detailView.Task(); task != nil {
				m.previousView = m.currentView
				m.currentView = ViewTaskEdit
				return true, m, m.formView.StartEdit(*task)
			}
		}

	case "N":
		if m.currentView == ViewDashboard {
			m.previousView = m.currentView
			m.currentView = ViewNotifications
			return true, m, nil
		}

	case "A":
		if m.currentView == ViewDashboard {
			m.previousView = m.currentView
			m.currentView = ViewAnalytics
			m.analyticsView.SetLoading()
			return true, m, m.loadAnalytics(m.analyticsView.Days())
		}

	case "L":
		return true, m, m.logout()
	}

	return false, m, nil
}

// enterDashboard switches to the dashboard and kicks off a fresh fetch.
func (m Model) enterDashboard() (tea.Model, tea.Cmd) {
	m.currentView = ViewDashboard
	m.statusMessage = ""
	return m, tea.Batch(m.fetchTasks(), m.fetchNotifications())
}

// enterLogin drops back to the login screen with a fresh form.
func (m Model) enterLogin() (tea.Model, tea.Cmd) {
	m.currentView = ViewLogin
	m.loginView = loginview.New(m.layout.ContentWidth(), m.layout.ContentHeight())
	return m, m.loginView.Init()
}

// handleAPIError routes expired-session errors back to login and surfaces
// everything else in the status bar.
func (m Model) handleAPIError(err error) (tea.Model, tea.Cmd) {
	if api.IsAuthError(err) {
		return m.enterLogin()
	}
	m.statusMessage = api.Detail(err, "request failed")
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewNotifications:
		m.logView, cmd = m.logView.Update(msg)
	case ViewAnalytics:
		m.analyticsView, cmd = m.analyticsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	header := m.layout.RenderHeader("Task2SMS", m.headerStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	if m.showHelp {
		return m.helpView.View(m.keys)
	}

	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.formView.View()
	case ViewNotifications:
		return m.logView.View()
	case ViewAnalytics:
		return m.analyticsView.View()
	default:
		return ""
	}
}

// headerStatus shows the signed-in account in the header.
func (m Model) headerStatus() string {
	if user := m.session.User(); user != nil {
		return user.Username
	}
	return ""
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMessage != "" {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewDetail:
		return "esc back | e edit | j/k scroll"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter next | esc cancel"
	case ViewNotifications:
		return "f filter | r refresh | esc back"
	case ViewAnalytics:
		return "1/7/3 window | r refresh | esc back"
	default:
		return "n new | e edit | x toggle | d delete | N log | A analytics | ? help | q quit"
	}
}

// toggleTheme flips the color scheme and persists the choice.
func (m *Model) toggleTheme() tea.Cmd {
	next := theme.Toggle(theme.Mode(m.config.Display.Theme))
	m.config.Display.Theme = string(next)
	theme.Apply(next)

	cfg := m.config
	path := m.configPath
	return func() tea.Msg {
		// Preference persistence is best-effort.
		_ = model.SaveConfig(path, cfg)
		return nil
	}
}
