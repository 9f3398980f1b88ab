package dashboard

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/stats"
	"github.com/task2sms/tui/internal/theme"
)

// SelectedTaskMsg is sent when the user opens an automation's detail view.
type SelectedTaskMsg struct {
	TaskID int
}

// NewTaskMsg is sent when the user wants to create a new automation.
type NewTaskMsg struct{}

// EditTaskMsg is sent when the user wants to edit the selected automation.
type EditTaskMsg struct {
	Task model.Task
}

// ToggleTaskMsg is sent when the user toggles the selected automation.
type ToggleTaskMsg struct {
	TaskID int
}

// DeleteTaskMsg is sent when the user confirms deleting an automation.
type DeleteTaskMsg struct {
	TaskID int
}

// Model is the main dashboard view: the automation list with a summary
// header.
type Model struct {
	list          list.Model
	keys          *keys.KeyMap
	summary       stats.TaskSummary
	successRate   string
	confirmDelete int
	width         int
	height        int
}

// New creates a new dashboard model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-3)
	l.Title = "Automations"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the displayed automations and recomputes the summary.
func (m *Model) SetTasks(tasks []model.Task) tea.Cmd {
	items := make([]list.Item, len(tasks))
	for i, t := range tasks {
		items[i] = TaskItem{Task: t}
	}
	m.summary = stats.SummarizeTasks(tasks)
	m.confirmDelete = 0
	return m.list.SetItems(items)
}

// SetNotifications recomputes the delivery success rate shown in the header.
func (m *Model) SetNotifications(notifications []model.Notification) {
	m.successRate = stats.SuccessRate(notifications)
}

// Selected returns the currently highlighted automation, if any.
func (m Model) Selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// Update handles messages for the dashboard.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKeys(keyMsg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	// A pending delete asks once for the same row again.
	if m.confirmDelete != 0 && !key.Matches(msg, m.keys.Delete) {
		m.confirmDelete = 0
	}

	switch {
	case key.Matches(msg, m.keys.Select):
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: task.ID}
		}

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTaskMsg{} }

	case key.Matches(msg, m.keys.Edit):
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTaskMsg{Task: task} }

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return ToggleTaskMsg{TaskID: task.ID} }

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.Selected()
		if !ok {
			return m, nil
		}
		if m.confirmDelete != task.ID {
			m.confirmDelete = task.ID
			return m, nil
		}
		m.confirmDelete = 0
		return m, func() tea.Msg { return DeleteTaskMsg{TaskID: task.ID} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the dashboard.
func (m Model) View() string {
	header := m.renderSummary()

	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.renderEmptyState())
	}

	body := m.list.View()
	if m.confirmDelete != 0 {
		prompt := theme.ErrorStyle.Render("Press d again to delete, any other key to cancel")
		body = lipgloss.JoinVertical(lipgloss.Left, body, prompt)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

// renderSummary shows the fleet-level counters above the list.
func (m Model) renderSummary() string {
	seg := func(label string, value string, color lipgloss.AdaptiveColor) string {
		return lipgloss.NewStyle().Foreground(theme.ColorGray).Render(label+" ") +
			lipgloss.NewStyle().Foreground(color).Bold(true).Render(value)
	}

	rate := m.successRate
	if rate == "" {
		rate = "0"
	}

	line := lipgloss.JoinHorizontal(
		lipgloss.Top,
		seg("total", fmt.Sprintf("%d", m.summary.Total), theme.ColorWhite),
		"   ",
		seg("active", fmt.Sprintf("%d", m.summary.Active), theme.ColorGreen),
		"   ",
		seg("paused", fmt.Sprintf("%d", m.summary.Inactive), theme.ColorYellow),
		"   ",
		seg("recipients", fmt.Sprintf("%d", m.summary.Recipients), theme.ColorBlue),
		"   ",
		seg("delivery", rate+"%", theme.ColorMagenta),
	)

	return lipgloss.NewStyle().Padding(0, 2).Render(line)
}

// renderEmptyState shows guidance text when no automations exist yet.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height - 3).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	return style.Render(
		"No automations yet.\n\n" +
			"Press n to create your first SMS automation.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-3)
}
