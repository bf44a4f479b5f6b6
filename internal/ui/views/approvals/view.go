package approvals

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	schedulingdto "labsched/internal/modules/scheduling/dto"
	"labsched/internal/platform/text"
	"labsched/internal/ui/components"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Pending(ctx context.Context) ([]schedulingdto.ReservationOutput, error)
	Approve(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error)
	Decline(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Gen     int
	Pending []schedulingdto.ReservationOutput
	Err     error
}

func (m LoadedMsg) Generation() int { return m.Gen }

type DecidedMsg struct {
	Out schedulingdto.DecisionOutput
	Err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	table   table.Model
	pending []schedulingdto.ReservationOutput
	gen     int
	busy    bool
	status  string
}

var columns = []table.Column{
	{Title: "ID", Width: 5},
	{Title: "Instructor", Width: 18},
	{Title: "Lab", Width: 14},
	{Title: "Course", Width: 18},
	{Title: "Section", Width: 8},
	{Title: "Start", Width: 17},
	{Title: "End", Width: 17},
}

func New(port Port) Model {
	t := table.New(table.WithColumns(columns), table.WithFocused(true))
	t.SetStyles(theme.TableStyles())
	return Model{port: port, table: t}
}

func (m *Model) Load(gen int) tea.Cmd {
	m.gen = gen
	m.status = "loading…"
	port := m.port
	return func() tea.Msg {
		items, err := port.Pending(context.Background())
		return LoadedMsg{Gen: gen, Pending: items, Err: err}
	}
}

// Rows is the number of pending reservations shown.
func (m Model) Rows() int { return len(m.pending) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.table.SetHeight(max(msg.Height-4, 3))
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status = text.SingleLine(msg.Err.Error())
			return m, nil
		}
		m.pending = msg.Pending
		rows := make([]table.Row, 0, len(msg.Pending))
		for _, r := range msg.Pending {
			rows = append(rows, table.Row{strconv.Itoa(r.ID), r.InstructorName, r.LabName, r.CourseName, r.Section, r.StartTime, r.EndTime})
		}
		m.table.SetRows(rows)
		if len(rows) == 0 {
			m.status = "no pending requests"
		} else {
			m.status = fmt.Sprintf("%d pending", len(rows))
		}
		return m, nil

	case DecidedMsg:
		m.busy = false
		if msg.Err != nil {
			m.status = text.SingleLine(msg.Err.Error())
			return m, nil
		}
		m.status = fmt.Sprintf("#%d %s", msg.Out.ReservationID, msg.Out.Status)
		severity := "success"
		if msg.Out.Status == "declined" {
			severity = "info"
		}
		body := msg.Out.Message
		if body == "" {
			body = fmt.Sprintf("Reservation %d %s", msg.Out.ReservationID, msg.Out.Status)
		}
		return m, tea.Batch(components.Notice("Reservation "+msg.Out.Status, body, severity), m.Load(m.gen))

	case tea.KeyMsg:
		switch msg.String() {
		case "a":
			return m.decide(true)
		case "d":
			return m.decide(false)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) decide(approve bool) (Model, tea.Cmd) {
	if m.busy || len(m.pending) == 0 {
		return m, nil
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.pending) {
		return m, nil
	}
	id := m.pending[idx].ID
	m.busy = true
	port := m.port
	return m, func() tea.Msg {
		var out schedulingdto.DecisionOutput
		var err error
		if approve {
			out, err = port.Approve(context.Background(), id)
		} else {
			out, err = port.Decline(context.Background(), id)
		}
		return DecidedMsg{Out: out, Err: err}
	}
}

func (m Model) View() string {
	header := theme.Title.Render("Pending approvals") + "  " + theme.Muted.Render(m.status)
	footer := theme.Muted.Render("a: approve  d: decline  ↑/↓: select")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", m.table.View(), "", footer)
}
