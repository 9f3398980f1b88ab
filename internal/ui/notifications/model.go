package notifications

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/theme"
)

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// statusFilters defines the filter states cycled by the f key.
var statusFilters = []string{
	"",
	model.StatusSent,
	model.StatusFailed,
	model.StatusQueued,
	model.StatusPending,
}

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Recipient }

// Delegate implements list.ItemDelegate for rendering delivery rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single delivery line.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	n := it.Notification
	isSelected := index == m.Index()

	when := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(n.CreatedAt.Format("Jan 02 15:04"))
	statusBadge := theme.StatusStyle(n.Status).Render(fmt.Sprintf("%-7s", n.Status))
	providerBadge := theme.ProviderStyle(n.Provider).Render(n.Provider)

	message := n.Message
	messageStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if n.Status == model.StatusFailed && n.ErrorMessage != "" {
		message = n.ErrorMessage
		messageStyle = theme.ErrorStyle
	}
	message = truncate(message, 40)

	line := fmt.Sprintf(
		"%s  %s %s  %s  %s",
		when, statusBadge, providerBadge, n.Recipient,
		messageStyle.Render(message),
	)

	if n.Status == model.StatusFailed && n.RetryCount > 0 {
		line += lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(fmt.Sprintf("  retry %d", n.RetryCount))
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// truncate shortens s to at most max runes, appending an ellipsis when
// anything was cut. Message bodies are arbitrary user text, so slicing
// must not land inside a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

// Model is the delivery log view listing every SMS attempt.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	all         []model.Notification
	filterIndex int
	width       int
	height      int
}

// New creates a new delivery log model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Delivery Log"
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

// SetNotifications replaces the displayed delivery attempts.
func (m *Model) SetNotifications(notifications []model.Notification) tea.Cmd {
	m.all = notifications
	return m.applyFilter()
}

func (m *Model) applyFilter() tea.Cmd {
	status := statusFilters[m.filterIndex]

	var items []list.Item
	for _, n := range m.all {
		if status != "" && n.Status != status {
			continue
		}
		items = append(items, Item{Notification: n})
	}

	if status == "" {
		m.list.Title = "Delivery Log"
	} else {
		m.list.Title = "Delivery Log · " + status
	}
	return m.list.SetItems(items)
}

// Update handles messages for the delivery log.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case keyMsg.String() == "f":
			m.filterIndex = (m.filterIndex + 1) % len(statusFilters)
			return m, m.applyFilter()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the delivery log.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height - 2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No deliveries recorded.\n\nPress f to change the status filter.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
