package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financia/internal/auth"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

const (
	modeSignIn   = "signin"
	modeRegister = "register"
)

// LoggedInMsg carries the session of the user who just signed in.
type LoggedInMsg struct {
	User    auth.User
	Session *session.Session
}

type LoginModel struct {
	CommonModel
	directory *auth.Directory
	sessions  *session.Manager

	form    *huh.Form
	mode    string
	err     error
	working bool
}

func NewLoginModel(directory *auth.Directory, sessions *session.Manager) LoginModel {
	m := LoginModel{
		directory: directory,
		sessions:  sessions,
		mode:      modeSignIn,
	}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Key("email").
			Title("Email").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("email cannot be empty")
				}

				return nil
			}),
		huh.NewInput().
			Key("password").
			Title("Password").
			EchoMode(huh.EchoModePassword),
	}

	if m.mode == modeRegister {
		fields = append([]huh.Field{huh.NewInput().Key("name").Title("Name")}, fields...)
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
}

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.working = false

		if msg.err != nil {
			m.err = msg.err
			m.form = m.buildForm()

			return m, m.form.Init()
		}

		return m, func() tea.Msg { return LoggedInMsg{User: msg.user, Session: msg.session} }

	case tea.KeyMsg:
		if msg.String() == "ctrl+r" && !m.working {
			m.mode = map[string]string{modeSignIn: modeRegister, modeRegister: modeSignIn}[m.mode]
			m.err = nil
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	if m.working {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.working = true

	return m, m.submitCmd(m.form.GetString("name"), m.form.GetString("email"), m.form.GetString("password"))
}

func (m LoginModel) View() string {
	title := "Sign in"
	if m.mode == modeRegister {
		title = "Create account"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Financia · "+title),
		"",
		m.form.View(),
	)

	if m.working {
		body += "\n" + faintStyle.Render("Checking credentials...")
	}

	if m.err != nil {
		body += "\n" + errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	body += "\n\n" + faintStyle.Render("ctrl+r: switch sign in / register | ctrl+c: quit")

	return lipgloss.NewStyle().Padding(2).Render(body)
}

type loginResultMsg struct {
	user    auth.User
	session *session.Session
	err     error
}

func (m LoginModel) submitCmd(name, email, password string) tea.Cmd {
	mode := m.mode

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		var (
			user auth.User
			err  error
		)

		if mode == modeRegister {
			user, err = m.directory.Register(ctx, name, email, password)
		} else {
			user, err = m.directory.Verify(ctx, email, password)
		}

		if err != nil {
			return loginResultMsg{err: err}
		}

		s, err := m.sessions.Get(ctx, user.Email)
		if err != nil {
			return loginResultMsg{err: err}
		}

		return loginResultMsg{user: user, session: s}
	}
}
