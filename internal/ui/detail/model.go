package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/theme"
)

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// Model is the automation detail view: the full record plus its recent
// delivery attempts.
type Model struct {
	task          *model.Task
	notifications []model.Notification
	viewport      viewport.Model
	keys          *keys.KeyMap
	width         int
	height        int
	loading       bool
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetLoading puts the view into its loading state.
func (m *Model) SetLoading() {
	m.loading = true
}

// SetTask sets the automation to display along with its delivery history.
func (m *Model) SetTask(task *model.Task, notifications []model.Notification) {
	m.task = task
	m.notifications = notifications
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Task returns the automation currently on display.
func (m Model) Task() *model.Task {
	return m.task
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading automation...")
	}

	if m.task == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No automation selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	task := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(task.Name))

	activeBadge := theme.ActiveStyle(task.IsActive).Render(activeLabel(task.IsActive))
	condBadge := lipgloss.NewStyle().
		Foreground(theme.ColorMagenta).
		Render(task.ConditionRules.Describe())

	badgeLine := lipgloss.JoinHorizontal(lipgloss.Top, activeBadge, "  ", condBadge)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	meta := func(label, value string) {
		if value == "" {
			return
		}
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render(label),
			valStyle.Render(value),
		))
	}

	meta("Source:    ", task.SourceLink)
	meta("Schedule:  ", scheduleLine(task))
	meta("Recipients:", strings.Join(task.Recipients, ", "))
	meta("Template:  ", task.MessageTemplate)
	if task.LastRun != nil {
		meta("Last run:  ", task.LastRun.Format("2006-01-02 15:04"))
	}
	if task.NextRun != nil {
		meta("Next run:  ", task.NextRun.Format("2006-01-02 15:04"))
	}
	if task.CreatedAt != nil {
		meta("Created:   ", task.CreatedAt.Format("2006-01-02 15:04"))
	}

	if task.WebScrapingKeyword != "" || task.WebScrapingSelector != "" || task.WebScrapingXPath != "" {
		sections = append(sections, "")
		sections = append(sections, sectionHeader("Web Scraping"))
		meta("Keyword:   ", task.WebScrapingKeyword)
		meta("Frequency: ", task.WebScrapingFrequency)
		meta("Mode:      ", task.WebScrapingMode)
		meta("Selector:  ", task.WebScrapingSelector)
		meta("XPath:     ", task.WebScrapingXPath)
		if task.WebScrapingThresholdType != "" {
			meta("Threshold: ", fmt.Sprintf(
				"%s %g", task.WebScrapingThresholdType, task.WebScrapingThresholdValue,
			))
		}
	}

	if task.Description != "" {
		sections = append(sections, "", m.separator(), "")
		sections = append(sections, sectionHeader("Description"))
		sections = append(sections, task.Description)
	}

	sections = append(sections, "", m.separator(), "")
	sections = append(sections, sectionHeader("Recent Deliveries"))

	if len(m.notifications) == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No deliveries yet"))
	} else {
		for _, n := range m.notifications {
			sections = append(sections, m.renderNotification(n))
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(sections, "\n"))
}

func (m Model) renderNotification(n model.Notification) string {
	statusBadge := theme.StatusStyle(n.Status).Render(n.Status)
	providerBadge := theme.ProviderStyle(n.Provider).Render(n.Provider)
	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(n.CreatedAt.Format("2006-01-02 15:04"))

	line := fmt.Sprintf("%s  %s  %s  %s", when, statusBadge, providerBadge, n.Recipient)
	if n.ErrorMessage != "" {
		line += "\n    " + theme.ErrorStyle.Render(n.ErrorMessage)
	}
	return line
}

func (m Model) separator() string {
	width := m.width - 8
	if width > 80 {
		width = 80
	}
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", width))
}

func sectionHeader(title string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render(title)
}

// scheduleLine prefers the human-readable schedule, falling back to cron.
func scheduleLine(task *model.Task) string {
	if task.ScheduleHuman != "" {
		if task.ScheduleCron != "" {
			return fmt.Sprintf("%s (%s)", task.ScheduleHuman, task.ScheduleCron)
		}
		return task.ScheduleHuman
	}
	return task.ScheduleCron
}

func activeLabel(active bool) string {
	if active {
		return "ACTIVE"
	}
	return "PAUSED"
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
