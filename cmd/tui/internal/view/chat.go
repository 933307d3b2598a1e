package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/chat"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type ChatModel struct {
	CommonModel
	session *session.Session

	history  []chat.Message
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	waiting bool
	status  string
}

func NewChatModel(s *session.Session) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. I spent 45 on groceries today"
	ti.Width = 70
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ChatModel{
		session:  s,
		history:  s.Ledger.Messages(),
		viewport: viewport.New(80, 20),
		input:    ti,
		spinner:  sp,
	}

	if _, err := s.Assistant(); err != nil {
		m.status = "Chat unavailable: set GEMINI_API_KEY to enable the assistant."
		m.input.Blur()
	}

	m.renderHistory()

	return m
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = msg.Height - 10
		m.renderHistory()

		return m, nil

	case chatReplyMsg:
		m.waiting = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.status = ""
		m.history = msg.history
		m.renderHistory()

		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyCtrlL:
			return m.reset()
		case tea.KeyEnter:
			if m.waiting {
				return m, nil
			}

			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}

			chatSession, err := m.session.Assistant()
			if err != nil {
				return m, nil
			}

			m.input.SetValue("")
			m.waiting = true
			m.history = append(m.history, chat.NewMessage(chat.RoleUser, text, time.Now()))
			m.renderHistory()

			return m, tea.Batch(m.spinner.Tick, sendCmd(chatSession, text))
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)

			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m ChatModel) reset() (tea.Model, tea.Cmd) {
	chatSession, err := m.session.Assistant()
	if err != nil {
		return m, nil
	}

	chatSession.Reset()
	m.status = "Conversation restarted with your current records."

	return m, nil
}

func (m *ChatModel) renderHistory() {
	var sb strings.Builder

	for _, msg := range m.history {
		at := time.UnixMilli(msg.Timestamp).Format("15:04")

		label := modelStyle.Render("Assistant")
		if msg.Role == chat.RoleUser {
			label = userStyle.Render("You")
		}

		fmt.Fprintf(&sb, "%s %s\n%s\n\n", label, faintStyle.Render(at), msg.Text)
	}

	if sb.Len() == 0 {
		sb.WriteString(faintStyle.Render("Tell the assistant about an expense, income, investment or tax."))
	}

	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(sb.String()))
	m.viewport.GotoBottom()
}

func (m ChatModel) View() string {
	prompt := m.input.View()
	if m.waiting {
		prompt = m.spinner.View() + " Thinking..."
	}

	status := ""
	if m.status != "" {
		status = faintStyle.Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Assistant"),
		m.viewport.View(),
		status+prompt,
		faintStyle.Render("enter: send | pgup/pgdown: scroll | ctrl+l: restart conversation | esc: back"),
	))
}

type chatReplyMsg struct {
	history []chat.Message
	err     error
}

func sendCmd(s *assistant.Session, text string) tea.Cmd {
	return func() tea.Msg {
		history, err := s.Send(context.Background(), text)
		if errors.Is(err, assistant.ErrEmptyMessage) {
			err = nil
		}

		return chatReplyMsg{history: history, err: err}
	}
}
