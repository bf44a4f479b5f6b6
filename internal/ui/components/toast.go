package components

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labsched/internal/ui/theme"
)

// ToastExpiredMsg starts the exit transition of a toast.
type ToastExpiredMsg struct{ ID int }

// ToastRemovedMsg removes a toast once its exit transition ends.
type ToastRemovedMsg struct{ ID int }

// Alert is what a toast shows. Color is a hex accent.
type Alert struct {
	Title   string
	Message string
	Color   string
}

type toast struct {
	id      int
	alert   Alert
	leaving bool
}

// Toasts is a stack of transient alerts. Each one is shown for ttl, then
// fades for exit before it is removed.
type Toasts struct {
	items []toast
	next  int
	ttl   time.Duration
	exit  time.Duration
	width int
}

const maxToastsShown = 4

func NewToasts(ttl, exit time.Duration) Toasts {
	return Toasts{ttl: ttl, exit: exit, width: 44}
}

func (t *Toasts) SetWidth(w int) {
	if w >= 20 {
		t.width = w
	}
}

// Push shows a toast and schedules its expiry.
func (t *Toasts) Push(a Alert) tea.Cmd {
	t.next++
	id := t.next
	t.items = append(t.items, toast{id: id, alert: a})
	return tea.Tick(t.ttl, func(time.Time) tea.Msg { return ToastExpiredMsg{ID: id} })
}

// Dismiss starts the exit transition of the newest toast still on screen.
func (t *Toasts) Dismiss() tea.Cmd {
	for i := len(t.items) - 1; i >= 0; i-- {
		if !t.items[i].leaving {
			return t.leave(i)
		}
	}
	return nil
}

func (t *Toasts) leave(i int) tea.Cmd {
	t.items[i].leaving = true
	id := t.items[i].id
	return tea.Tick(t.exit, func(time.Time) tea.Msg { return ToastRemovedMsg{ID: id} })
}

func (t Toasts) Update(msg tea.Msg) (Toasts, tea.Cmd) {
	switch msg := msg.(type) {
	case ToastExpiredMsg:
		for i := range t.items {
			if t.items[i].id == msg.ID && !t.items[i].leaving {
				return t, t.leave(i)
			}
		}
	case ToastRemovedMsg:
		kept := t.items[:0:0]
		for _, item := range t.items {
			if item.id != msg.ID {
				kept = append(kept, item)
			}
		}
		t.items = kept
	}
	return t, nil
}

// Len counts toasts on screen, fading ones included.
func (t Toasts) Len() int { return len(t.items) }

// Alerts lists the toasts on screen, oldest first.
func (t Toasts) Alerts() []Alert {
	out := make([]Alert, 0, len(t.items))
	for _, item := range t.items {
		out = append(out, item.alert)
	}
	return out
}

func (t Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}
	items := t.items
	if len(items) > maxToastsShown {
		items = items[len(items)-maxToastsShown:]
	}
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		accent := lipgloss.Color(item.alert.Color)
		style := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1).
			Width(t.width)
		title := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(item.alert.Title)
		body := title
		if strings.TrimSpace(item.alert.Message) != "" {
			body += "\n" + item.alert.Message
		}
		if item.leaving {
			style = style.Faint(true).BorderForeground(theme.Surface1)
		}
		rendered = append(rendered, style.Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// NoticeMsg asks the app to raise a local alert.
type NoticeMsg struct {
	Title    string
	Message  string
	Severity string
}

// Notice returns a command emitting a NoticeMsg.
func Notice(title, message, severity string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Title: title, Message: message, Severity: severity} }
}
