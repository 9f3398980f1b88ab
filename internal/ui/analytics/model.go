package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/keys"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/stats"
	"github.com/task2sms/tui/internal/theme"
)

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// RangeSelectedMsg asks the parent to load notifications for a new window.
type RangeSelectedMsg struct {
	Days int
}

// ranges defines the selectable reporting windows.
var ranges = []int{1, 7, 30}

// Model is the analytics view: delivery aggregates over a selected window.
type Model struct {
	viewport      viewport.Model
	keys          *keys.KeyMap
	notifications []model.Notification
	days          int
	loading       bool
	width         int
	height        int
}

// New creates a new analytics model defaulting to the 7-day window.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)

	return Model{
		viewport: vp,
		keys:     k,
		days:     7,
		width:    width,
		height:   height,
	}
}

// Days returns the currently selected reporting window.
func (m Model) Days() int {
	return m.days
}

// SetLoading puts the view into its loading state.
func (m *Model) SetLoading() {
	m.loading = true
}

// SetNotifications applies a loaded window. Responses are applied as they
// arrive; a slow response for a previously selected window overwrites a
// faster one.
func (m *Model) SetNotifications(days int, notifications []model.Notification) {
	m.days = days
	m.notifications = notifications
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Update handles messages for the analytics view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case keyMsg.String() == "1":
			return m.selectRange(1)
		case keyMsg.String() == "7":
			return m.selectRange(7)
		case keyMsg.String() == "3":
			return m.selectRange(30)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) selectRange(days int) (Model, tea.Cmd) {
	m.days = days
	m.loading = true
	return m, func() tea.Msg { return RangeSelectedMsg{Days: days} }
}

// View renders the analytics view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Crunching numbers...")
	}
	return m.viewport.View()
}

// renderContent builds the aggregate report for the viewport.
func (m Model) renderContent() string {
	var sections []string

	title := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, title.Render("Analytics"))
	sections = append(sections, m.renderRangeSelector())
	sections = append(sections, "")

	total := len(m.notifications)
	rate := stats.SuccessRate(m.notifications)

	gray := lipgloss.NewStyle().Foreground(theme.ColorGray)
	bold := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s %s    %s %s",
		gray.Render("Messages:"), bold.Render(fmt.Sprintf("%d", total)),
		gray.Render("Success rate:"), bold.Render(rate+"%"),
	))
	sections = append(sections, "")

	sections = append(sections, title.Render("By Status"))
	sections = append(sections, m.renderCounts(stats.ByStatus(m.notifications), theme.StatusStyle))
	sections = append(sections, "")

	sections = append(sections, title.Render("By Provider"))
	sections = append(sections, m.renderCounts(stats.ByProvider(m.notifications), theme.ProviderStyle))
	sections = append(sections, "")

	sections = append(sections, title.Render(fmt.Sprintf("Daily · last %d day(s)", m.days)))
	sections = append(sections, m.renderDaily())
	sections = append(sections, "")

	sections = append(sections, title.Render("Recent Activity"))
	sections = append(sections, m.renderRecent())

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(strings.Join(sections, "\n"))
}

func (m Model) renderRangeSelector() string {
	var parts []string
	for _, r := range ranges {
		label := fmt.Sprintf("%dd", r)
		if r == m.days {
			parts = append(parts, theme.SelectedItemStyle.Render(label))
		} else {
			parts = append(parts, theme.HelpStyle.Render(label))
		}
	}
	hint := theme.HelpStyle.Render("  (1/7/3 to switch)")
	return strings.Join(parts, " ") + hint
}

// renderCounts draws one line per key, sorted for stable output.
func (m Model) renderCounts(counts map[string]int, styleFor func(string) lipgloss.Style) string {
	if len(counts) == 0 {
		return theme.HelpStyle.Render("no data")
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		badge := styleFor(name).Render(name)
		lines = append(lines, fmt.Sprintf("  %s  %d", badge, counts[name]))
	}
	return strings.Join(lines, "\n")
}

// renderDaily draws a horizontal bar per day, scaled to the busiest day.
func (m Model) renderDaily() string {
	days := stats.Daily(m.notifications, m.days, time.Now())

	maxTotal := 0
	for _, d := range days {
		if d.Total > maxTotal {
			maxTotal = d.Total
		}
	}

	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 50 {
		barWidth = 50
	}

	green := lipgloss.NewStyle().Foreground(theme.ColorGreen)
	red := lipgloss.NewStyle().Foreground(theme.ColorRed)
	gray := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var lines []string
	for _, d := range days {
		okBar, failBar := 0, 0
		if maxTotal > 0 {
			okBar = d.Successful * barWidth / maxTotal
			failBar = d.Failed * barWidth / maxTotal
		}
		line := fmt.Sprintf(
			"  %s %s%s %s",
			gray.Render(fmt.Sprintf("%-7s", d.Label)),
			green.Render(strings.Repeat("█", okBar)),
			red.Render(strings.Repeat("█", failBar)),
			gray.Render(fmt.Sprintf("%d", d.Total)),
		)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// renderRecent lists the newest deliveries, one line each.
func (m Model) renderRecent() string {
	recent := stats.RecentActivity(m.notifications, 10)
	if len(recent) == 0 {
		return theme.HelpStyle.Render("no recent activity")
	}

	gray := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var lines []string
	for _, n := range recent {
		line := fmt.Sprintf(
			"  %s  %s  %s  %s",
			gray.Render(n.CreatedAt.Format("Jan 02 15:04")),
			theme.StatusStyle(n.Status).Render(n.Status),
			theme.ProviderStyle(n.Provider).Render(n.Provider),
			n.Recipient,
		)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if !m.loading {
		m.viewport.SetContent(m.renderContent())
	}
}
