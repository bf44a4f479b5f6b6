package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	schedulingdto "labsched/internal/modules/scheduling/dto"
	"labsched/internal/platform/text"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Reservations(ctx context.Context) ([]schedulingdto.ReservationOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Gen          int
	Reservations []schedulingdto.ReservationOutput
	Err          error
}

func (m LoadedMsg) Generation() int { return m.Gen }

// OpenDetailMsg asks the app to show a reservation in the modal dialog.
type OpenDetailMsg struct {
	Title string
	Body  string
}

// ─── list item ───────────────────────────────────────────────────────────────

type reservationItem struct {
	r schedulingdto.ReservationOutput
}

func (i reservationItem) Title() string {
	return fmt.Sprintf("%s · %s (%s)", i.r.LabName, i.r.CourseName, i.r.Section)
}

func (i reservationItem) Description() string {
	return fmt.Sprintf("%s → %s  %s  %s", i.r.StartTime, i.r.EndTime,
		theme.StatusStyle(i.r.Status).Render(i.r.Status), i.r.InstructorName)
}

func (i reservationItem) FilterValue() string {
	return i.r.LabName + " " + i.r.CourseName + " " + i.r.InstructorName
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port  Port
	list  list.Model
	count int
}

func New(port Port) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Schedule"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m *Model) Load(gen int) tea.Cmd {
	m.list.Title = "Schedule — loading…"
	port := m.port
	return func() tea.Msg {
		items, err := port.Reservations(context.Background())
		return LoadedMsg{Gen: gen, Reservations: items, Err: err}
	}
}

// Count is the number of reservations currently listed.
func (m Model) Count() int { return m.count }

// Filtering reports whether the list's search filter is active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "Schedule — " + text.SingleLine(msg.Err.Error())
			return m, nil
		}
		m.list.Title = "Schedule"
		m.count = len(msg.Reservations)
		items := make([]list.Item, len(msg.Reservations))
		for i, r := range msg.Reservations {
			items[i] = reservationItem{r: r}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if msg.String() == "enter" && !m.Filtering() {
			if item, ok := m.list.SelectedItem().(reservationItem); ok {
				detail := OpenDetailMsg{Title: "Reservation #" + fmt.Sprint(item.r.ID), Body: Detail(item.r)}
				return m, func() tea.Msg { return detail }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.count == 0 && m.list.FilterState() == list.Unfiltered {
		return m.list.View() + "\n" + theme.Muted.Render("  No reservations scheduled.")
	}
	return m.list.View()
}

// Detail is the modal body for one reservation.
func Detail(r schedulingdto.ReservationOutput) string {
	var sb strings.Builder
	row := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-12s", label)) + value + "\n")
	}
	row("lab:", r.LabName)
	row("course:", r.CourseName)
	row("section:", r.Section)
	row("instructor:", r.InstructorName)
	row("start:", r.StartTime)
	row("end:", r.EndTime)
	if r.Duration > 0 {
		row("duration:", fmt.Sprintf("%d", r.Duration))
	}
	row("status:", theme.StatusStyle(r.Status).Render(r.Status))
	if strings.TrimSpace(r.Notes) != "" {
		sb.WriteString("\n" + theme.Muted.Render("notes") + "\n" + r.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("esc or click outside to close"))
	return sb.String()
}
