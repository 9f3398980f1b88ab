package login

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/task2sms/tui/internal/api"
	"github.com/task2sms/tui/internal/theme"
)

// LoginSubmitMsg is dispatched when the user submits the login form.
type LoginSubmitMsg struct {
	Username string
	Password string
}

// RegisterSubmitMsg is dispatched when the user submits the registration form.
type RegisterSubmitMsg struct {
	Email    string
	Username string
	Password string
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// mode selects which form is shown.
type mode int

const (
	modeLogin mode = iota
	modeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	username string
	password string
	confirm  string
}

// Model is the Bubble Tea model for the login and registration screens.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   mode
	errMsg string
	busy   bool
	width  int
	height int
}

// New creates a new login model showing the login form.
func New(width, height int) Model {
	m := Model{
		fb:     &formBindings{},
		mode:   modeLogin,
		width:  width,
		height: height,
	}
	m.form = m.buildLoginForm()
	return m
}

// Init starts the active form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetError records a server error to display, mapping detail text onto the
// matching field where possible.
func (m *Model) SetError(err error) {
	m.busy = false
	detail := api.Detail(err, "request failed")
	switch api.MatchField(detail) {
	case api.FieldEmail:
		m.errMsg = "Email: " + detail
	case api.FieldUsername:
		m.errMsg = "Username: " + detail
	case api.FieldPassword:
		m.errMsg = "Password: " + detail
	default:
		m.errMsg = detail
	}
	// Rebuild so the form accepts input again after a failed submit.
	if m.mode == modeLogin {
		m.form = m.buildLoginForm()
	} else {
		m.form = m.buildRegisterForm()
	}
}

// SetBusy marks the form as submitting.
func (m *Model) SetBusy(busy bool) {
	m.busy = busy
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && !m.busy {
		// ctrl+r toggles between the login and registration forms.
		if key.String() == "ctrl+r" {
			m.errMsg = ""
			if m.mode == modeLogin {
				m.mode = modeRegister
				m.form = m.buildRegisterForm()
			} else {
				m.mode = modeLogin
				m.form = m.buildLoginForm()
			}
			return m, m.form.Init()
		}
	}

	if m.busy || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		m.errMsg = ""
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		// Re-arm the form; there is nowhere to go back to before auth.
		if m.mode == modeLogin {
			m.form = m.buildLoginForm()
		} else {
			m.form = m.buildRegisterForm()
		}
		return m, m.form.Init()
	}

	return m, cmd
}

// View renders the login screen.
func (m Model) View() string {
	titleText := "Sign In"
	hint := "ctrl+r: create an account"
	if m.mode == modeRegister {
		titleText = "Create Account"
		hint = "ctrl+r: back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Task2SMS · " + titleText))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(theme.ErrorStyle.Render(m.errMsg))
		b.WriteString("\n\n")
	}
	if m.busy {
		b.WriteString("Submitting...")
	} else {
		b.WriteString(m.form.View())
	}
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render(hint))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(b.String())
}

func (m *Model) buildLoginForm() *huh.Form {
	m.fb.password = ""
	m.fb.confirm = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateRequired("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildRegisterForm() *huh.Form {
	m.fb.password = ""
	m.fb.confirm = ""
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Username").
				Value(&m.fb.username).
				Validate(validateUsername),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(func(s string) error {
					if s != m.fb.password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.mode == modeRegister {
		email := strings.TrimSpace(m.fb.email)
		username := strings.TrimSpace(m.fb.username)
		password := m.fb.password
		return func() tea.Msg {
			return RegisterSubmitMsg{Email: email, Username: username, Password: password}
		}
	}
	username := strings.TrimSpace(m.fb.username)
	password := m.fb.password
	return func() tea.Msg {
		return LoginSubmitMsg{Username: username, Password: password}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
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

func validateEmail(s string) error {
	if !emailPattern.MatchString(strings.TrimSpace(s)) {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validateUsername(s string) error {
	if len(strings.TrimSpace(s)) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}
