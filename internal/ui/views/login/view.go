package login

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labsched/internal/platform/text"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Login(ctx context.Context, username, password string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// DoneMsg reports the outcome of a login attempt. On success the session
// event switches the app to the shell.
type DoneMsg struct{ Err error }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
	width    int
	height   int
}

func New(port Port) Model {
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "  user  "
	user.CharLimit = 128
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "  pass  "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 256

	return Model{port: port, username: user, password: pass}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Reset clears the form for the next login.
func (m *Model) Reset() {
	m.username.SetValue("")
	m.password.SetValue("")
	m.busy = false
	m.err = ""
	m.setFocus(0)
}

func (m Model) Busy() bool { return m.busy }

func (m Model) Err() string { return m.err }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case DoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = text.SingleLine(msg.Err.Error())
			m.password.SetValue("")
			m.setFocus(1)
		} else {
			m.err = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			m.setFocus(1 - m.focus)
			return m, nil
		case "enter":
			if m.focus == 0 {
				m.setFocus(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.err = "username and password are required"
		return m, nil
	}
	m.busy = true
	m.err = ""
	return m, func() tea.Msg {
		return DoneMsg{Err: m.port.Login(context.Background(), username, password)}
	}
}

func (m *Model) setFocus(i int) {
	m.focus = i
	if i == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.username.Blur()
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Lab Scheduler") + "\n")
	sb.WriteString(theme.Muted.Render("Sign in to continue") + "\n\n")
	sb.WriteString(m.username.View() + "\n")
	sb.WriteString(m.password.View() + "\n\n")
	switch {
	case m.busy:
		sb.WriteString(theme.Muted.Render("signing in…"))
	case m.err != "":
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Danger).Render(m.err))
	default:
		sb.WriteString(theme.Muted.Render("enter: sign in  tab: switch field  ctrl+c: quit"))
	}
	card := theme.Card.Width(48).Render(sb.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
