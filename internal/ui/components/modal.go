package components

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"labsched/internal/ui/theme"
)

// ModalClosedMsg is emitted when the dialog is dismissed.
type ModalClosedMsg struct{}

const closeControl = "[x]"

var modalStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Lavender).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Modal is a single centered dialog. It closes on esc, on a click on its
// close control, or on a click anywhere outside its box.
type Modal struct {
	title   string
	body    string
	visible bool

	width   int
	height  int
	originY int
}

func NewModal() Modal { return Modal{} }

func (m *Modal) Open(title, body string) {
	m.title = title
	m.body = body
	m.visible = true
}

func (m *Modal) Close() { m.visible = false }

func (m Modal) Visible() bool { return m.visible }

func (m Modal) Title() string { return m.title }

// SetArea tells the modal where it is drawn: the size of the region it is
// centered in and that region's first screen row.
func (m *Modal) SetArea(width, height, originY int) {
	m.width = width
	m.height = height
	m.originY = originY
}

func (m Modal) Update(msg tea.Msg) (Modal, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return m.close()
		}
	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !m.inside(msg.X, msg.Y) || m.onClose(msg.X, msg.Y) {
			return m.close()
		}
	}
	return m, nil
}

func (m Modal) close() (Modal, tea.Cmd) {
	m.visible = false
	return m, func() tea.Msg { return ModalClosedMsg{} }
}

func (m Modal) View() string {
	if !m.visible {
		return ""
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.box())
}

func (m Modal) contentWidth() int {
	w := m.width*6/10 - 4
	if w < 24 {
		w = 24
	}
	return w
}

func (m Modal) box() string {
	cw := m.contentWidth()
	title := theme.Title.Render(m.title)
	gap := cw - lipgloss.Width(title) - len(closeControl)
	if gap < 1 {
		gap = 1
	}
	header := title + strings.Repeat(" ", gap) + theme.Hot.Render(closeControl)
	return modalStyle.Width(cw + 2).Render(header + "\n\n" + m.body)
}

// bounds mirrors lipgloss.Place centering.
func (m Modal) bounds() (x, y, w, h int) {
	box := m.box()
	w = lipgloss.Width(box)
	h = lipgloss.Height(box)
	x = int(math.Round(float64(max(m.width-w, 0)) * 0.5))
	y = m.originY + int(math.Round(float64(max(m.height-h, 0))*0.5))
	return x, y, w, h
}

func (m Modal) inside(px, py int) bool {
	x, y, w, h := m.bounds()
	return px >= x && px < x+w && py >= y && py < y+h
}

// CloseControlAt is the screen cell of the close control.
func (m Modal) CloseControlAt() (int, int) {
	x, y, w, _ := m.bounds()
	return x + w - 2 - len(closeControl), y + 1
}

func (m Modal) onClose(px, py int) bool {
	cx, cy := m.CloseControlAt()
	return py == cy && px >= cx && px < cx+len(closeControl)
}
