package taskform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/condition"
	"github.com/task2sms/tui/internal/model"
	"github.com/task2sms/tui/internal/theme"
)

// TaskCreatedMsg is dispatched when a new automation is submitted.
type TaskCreatedMsg struct {
	Task model.Task
}

// TaskUpdatedMsg is dispatched when an existing automation is submitted.
type TaskUpdatedMsg struct {
	Task model.Task
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name            string
	description     string
	sourceLink      string
	scheduleCron    string
	scheduleHuman   string
	recipientsRaw   string
	condType        condition.Type
	condField       string
	condValue       string
	messageTemplate string
	isActive        bool

	scraping       bool
	keyword        string
	frequency      string
	mode           string
	selector       string
	xpath          string
	extractNumbers bool
	thresholdType  string
	thresholdValue string
}

// Model is the Bubble Tea model for the automation create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editing  model.Task
	width    int
	height   int
}

// New creates a new automation form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for creating a new automation.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editing = model.Task{}
	*m.fb = formBindings{
		condType:  condition.TypeAlways,
		isActive:  true,
		frequency: model.FrequencyHourly,
		mode:      model.ScrapingModeSimpleText,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing automation.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editing = task

	condType, condField, condValue := task.ConditionRules.Inputs()

	*m.fb = formBindings{
		name:            task.Name,
		description:     task.Description,
		sourceLink:      task.SourceLink,
		scheduleCron:    task.ScheduleCron,
		scheduleHuman:   task.ScheduleHuman,
		recipientsRaw:   strings.Join(task.Recipients, "\n"),
		condType:        condType,
		condField:       condField,
		condValue:       condValue,
		messageTemplate: task.MessageTemplate,
		isActive:        task.IsActive,

		scraping:       task.WebScrapingKeyword != "" || task.WebScrapingSelector != "" || task.WebScrapingXPath != "",
		keyword:        task.WebScrapingKeyword,
		frequency:      task.WebScrapingFrequency,
		mode:           task.WebScrapingMode,
		selector:       task.WebScrapingSelector,
		xpath:          task.WebScrapingXPath,
		extractNumbers: task.WebScrapingExtractNumbers,
		thresholdType:  task.WebScrapingThresholdType,
	}
	if task.WebScrapingThresholdValue != 0 {
		m.fb.thresholdValue = strconv.FormatFloat(task.WebScrapingThresholdValue, 'f', -1, 64)
	}
	if m.fb.frequency == "" {
		m.fb.frequency = model.FrequencyHourly
	}
	if m.fb.mode == "" {
		m.fb.mode = model.ScrapingModeSimpleText
	}

	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the automation form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the automation form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Automation"
	if m.editMode {
		titleText = "Edit Automation"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		m.basicsGroup(),
		m.conditionGroup(),
		m.scrapingGroup(),
		m.deliveryGroup(),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) basicsGroup() *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Name").
			Placeholder("Daily sales alert").
			Value(&m.fb.name).
			Validate(validateRequired("Name")),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&m.fb.description),
		huh.NewInput().
			Title("Source URL").
			Placeholder("https://api.example.com/metrics").
			Value(&m.fb.sourceLink).
			Validate(validateRequired("Source URL")),
		huh.NewInput().
			Title("Schedule (cron)").
			Placeholder("0 * * * *").
			Value(&m.fb.scheduleCron).
			Validate(validateRequired("Schedule")),
		huh.NewInput().
			Title("Schedule (readable)").
			Placeholder("Every hour").
			Value(&m.fb.scheduleHuman),
	)
}

func (m *Model) conditionGroup() *huh.Group {
	opts := make([]huh.Option[condition.Type], len(condition.Types))
	for i, t := range condition.Types {
		opts[i] = huh.NewOption(condition.Label(t), t)
	}

	return huh.NewGroup(
		huh.NewSelect[condition.Type]().
			Title("Trigger Condition").
			Options(opts...).
			Value(&m.fb.condType),
		huh.NewInput().
			Title("Field").
			Placeholder("e.g. status (field conditions only)").
			Value(&m.fb.condField),
		huh.NewInput().
			Title("Value").
			Placeholder("threshold or text to match").
			Value(&m.fb.condValue),
		huh.NewConfirm().
			Title("Monitor a web page?").
			Affirmative("Yes").
			Negative("No").
			Value(&m.fb.scraping),
	)
}

func (m *Model) scrapingGroup() *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("Keyword").
			Placeholder("text to look for").
			Value(&m.fb.keyword),
		huh.NewSelect[string]().
			Title("Check Frequency").
			Options(
				huh.NewOption("Every 5 minutes", model.FrequencyEvery5Minutes),
				huh.NewOption("Every 15 minutes", model.FrequencyEvery15Minutes),
				huh.NewOption("Every 30 minutes", model.FrequencyEvery30Minutes),
				huh.NewOption("Hourly", model.FrequencyHourly),
				huh.NewOption("Every 6 hours", model.FrequencyEvery6Hours),
				huh.NewOption("Daily", model.FrequencyDaily),
			).
			Value(&m.fb.frequency),
		huh.NewSelect[string]().
			Title("Extraction Mode").
			Options(
				huh.NewOption("Simple text", model.ScrapingModeSimpleText),
				huh.NewOption("CSS selector", model.ScrapingModeCSSSelector),
				huh.NewOption("XPath", model.ScrapingModeXPath),
			).
			Value(&m.fb.mode),
		huh.NewInput().
			Title("CSS Selector").
			Placeholder(".price (css_selector mode)").
			Value(&m.fb.selector),
		huh.NewInput().
			Title("XPath").
			Placeholder("//span[@id='price'] (xpath mode)").
			Value(&m.fb.xpath),
		huh.NewConfirm().
			Title("Extract numbers?").
			Value(&m.fb.extractNumbers),
		huh.NewSelect[string]().
			Title("Number Threshold").
			Options(
				huh.NewOption("None", ""),
				huh.NewOption("Less than", model.ThresholdLessThan),
				huh.NewOption("Greater than", model.ThresholdGreaterThan),
				huh.NewOption("Equals", model.ThresholdEquals),
				huh.NewOption("Changes", model.ThresholdChanges),
			).
			Value(&m.fb.thresholdType),
		huh.NewInput().
			Title("Threshold Value").
			Placeholder("100").
			Value(&m.fb.thresholdValue).
			Validate(validateOptionalNumber),
	).WithHideFunc(func() bool {
		return !m.fb.scraping
	})
}

func (m *Model) deliveryGroup() *huh.Group {
	return huh.NewGroup(
		huh.NewText().
			Title("Recipients").
			Placeholder("+254712345678\none phone number per line").
			Value(&m.fb.recipientsRaw).
			Validate(validateRecipients),
		huh.NewText().
			Title("Message Template").
			Placeholder("Total is {total} as of {date}").
			Value(&m.fb.messageTemplate).
			Validate(validateRequired("Message Template")),
		huh.NewConfirm().
			Title("Active").
			Value(&m.fb.isActive),
	)
}

func (m Model) handleSubmit() tea.Cmd {
	task := model.Task{
		Name:            strings.TrimSpace(m.fb.name),
		Description:     m.fb.description,
		SourceLink:      strings.TrimSpace(m.fb.sourceLink),
		ScheduleCron:    strings.TrimSpace(m.fb.scheduleCron),
		ScheduleHuman:   strings.TrimSpace(m.fb.scheduleHuman),
		Recipients:      splitRecipients(m.fb.recipientsRaw),
		ConditionRules:  condition.Build(m.fb.condType, m.fb.condField, m.fb.condValue),
		MessageTemplate: m.fb.messageTemplate,
		IsActive:        m.fb.isActive,
	}

	if m.fb.scraping {
		task.WebScrapingKeyword = strings.TrimSpace(m.fb.keyword)
		task.WebScrapingFrequency = m.fb.frequency
		task.WebScrapingMode = m.fb.mode
		task.WebScrapingSelector = strings.TrimSpace(m.fb.selector)
		task.WebScrapingXPath = strings.TrimSpace(m.fb.xpath)
		task.WebScrapingExtractNumbers = m.fb.extractNumbers
		task.WebScrapingThresholdType = m.fb.thresholdType
		if v, err := strconv.ParseFloat(strings.TrimSpace(m.fb.thresholdValue), 64); err == nil {
			task.WebScrapingThresholdValue = v
		}
	}

	if m.editMode {
		task.ID = m.editing.ID
		task.CreatedAt = m.editing.CreatedAt
		return func() tea.Msg { return TaskUpdatedMsg{Task: task} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Task: task} }
}

// splitRecipients parses the raw textarea contents into a recipient list.
// Order and duplicates are preserved; blank lines are dropped.
func splitRecipients(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateRecipients(s string) error {
	if len(splitRecipients(s)) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	return nil
}

func validateOptionalNumber(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("enter a number")
	}
	return nil
}
