package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// sessionCheckedMsg signals that the startup identity check finished.
type sessionCheckedMsg struct{}

// authResultMsg reports the outcome of a login or registration attempt.
type authResultMsg struct {
	err error
}

// loggedOutMsg signals that the session has been cleared.
type loggedOutMsg struct{}

// checkSession validates any persisted token against the server.
func (m Model) checkSession() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		_ = sess.Check(context.Background())
		return sessionCheckedMsg{}
	}
}

func (m Model) login(username, password string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		err := sess.Login(context.Background(), username, password)
		return authResultMsg{err: err}
	}
}

// register creates the account and signs in with the same credentials.
// A failed registration surfaces the server error as-is.
func (m Model) register(email, username, password string) tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		err := sess.Register(context.Background(), email, username, password)
		return authResultMsg{err: err}
	}
}

func (m Model) logout() tea.Cmd {
	sess := m.session
	return func() tea.Msg {
		sess.Logout()
		return loggedOutMsg{}
	}
}
