package reservation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	schedulingdto "labsched/internal/modules/scheduling/dto"
	apperrors "labsched/internal/platform/errors"
	"labsched/internal/platform/text"
	"labsched/internal/ui/components"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Labs(ctx context.Context) ([]schedulingdto.LabOutput, error)
	Courses(ctx context.Context) ([]schedulingdto.CourseOutput, error)
	Reserve(ctx context.Context, input schedulingdto.ReservationInput) (schedulingdto.CreateOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Gen     int
	Labs    []schedulingdto.LabOutput
	Courses []schedulingdto.CourseOutput
	Err     error
}

func (m LoadedMsg) Generation() int { return m.Gen }

type SubmittedMsg struct {
	Out schedulingdto.CreateOutput
	Err error
}

// ─── form fields ─────────────────────────────────────────────────────────────

const (
	FieldLab = iota
	FieldCourse
	FieldSection
	FieldStart
	FieldEnd
	FieldDuration
	FieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Lab", "Course", "Section", "Start", "End", "Duration (min)", "Notes"}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    Port
	labs    []schedulingdto.LabOutput
	courses []schedulingdto.CourseOutput
	lab     int
	course  int
	inputs  map[int]*textinput.Model
	focus   int
	busy    bool
	err     string
	last    string
}

func New(port Port) Model {
	inputs := map[int]*textinput.Model{}
	for field, placeholder := range map[int]string{
		FieldSection:  "e.g. A1",
		FieldStart:    "2024-03-05T09:00",
		FieldEnd:      "2024-03-05T11:00",
		FieldDuration: "derived from start/end",
		FieldNotes:    "optional",
	} {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		inputs[field] = &ti
	}
	return Model{port: port, inputs: inputs}
}

func (m *Model) Load(gen int) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		ctx := context.Background()
		labs, err := port.Labs(ctx)
		if err != nil {
			return LoadedMsg{Gen: gen, Err: err}
		}
		courses, err := port.Courses(ctx)
		if err != nil {
			return LoadedMsg{Gen: gen, Err: err}
		}
		return LoadedMsg{Gen: gen, Labs: labs, Courses: courses}
	}
}

// Editing reports whether a text field has focus, so global keys must yield.
func (m Model) Editing() bool {
	_, ok := m.inputs[m.focus]
	return ok
}

func (m Model) Err() string { return m.err }

// Input is the form state as it would be submitted.
func (m Model) Input() schedulingdto.ReservationInput {
	in := schedulingdto.ReservationInput{
		Section:   m.inputs[FieldSection].Value(),
		StartTime: m.inputs[FieldStart].Value(),
		EndTime:   m.inputs[FieldEnd].Value(),
		Notes:     m.inputs[FieldNotes].Value(),
	}
	if m.lab < len(m.labs) {
		in.LabID = m.labs[m.lab].ID
	}
	if m.course < len(m.courses) {
		in.CourseID = m.courses[m.course].ID
	}
	if d, err := strconv.Atoi(strings.TrimSpace(m.inputs[FieldDuration].Value())); err == nil {
		in.Duration = d
	}
	return in
}

// SetField fills one of the text fields.
func (m *Model) SetField(field int, value string) {
	if ti, ok := m.inputs[field]; ok {
		ti.SetValue(value)
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.Err != nil {
			m.err = text.SingleLine(msg.Err.Error())
			return m, nil
		}
		m.err = ""
		m.labs = msg.Labs
		m.courses = msg.Courses
		m.lab = clamp(m.lab, len(m.labs))
		m.course = clamp(m.course, len(m.courses))
		return m, nil

	case SubmittedMsg:
		m.busy = false
		if msg.Err != nil {
			m.err = text.SingleLine(msg.Err.Error())
			if errors.Is(msg.Err, apperrors.ErrInvalidInput) {
				return m, components.Notice("Warning", m.err, "warning")
			}
			return m, nil
		}
		m.err = ""
		m.last = fmt.Sprintf("request #%d submitted", msg.Out.ReservationID)
		for _, ti := range m.inputs {
			ti.SetValue("")
		}
		m.setFocus(FieldLab)
		return m, components.Notice("Success", msg.Out.Message, "success")

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case "shift+tab", "up":
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		case "esc":
			m.setFocus(FieldLab)
			return m, nil
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.focus == FieldNotes {
				return m.submit()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case "left", "right":
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			switch m.focus {
			case FieldLab:
				m.lab = cycle(m.lab, delta, len(m.labs))
				return m, nil
			case FieldCourse:
				m.course = cycle(m.course, delta, len(m.courses))
				return m, nil
			}
		}
	}

	if ti, ok := m.inputs[m.focus]; ok {
		updated, cmd := ti.Update(msg)
		*ti = updated
		return m, cmd
	}
	return m, nil
}

// Submit sends the current form.
func (m Model) Submit() (Model, tea.Cmd) { return m.submit() }

func (m Model) submit() (Model, tea.Cmd) {
	input := m.Input()
	m.busy = true
	m.err = ""
	port := m.port
	return m, func() tea.Msg {
		out, err := port.Reserve(context.Background(), input)
		return SubmittedMsg{Out: out, Err: err}
	}
}

func (m *Model) setFocus(field int) {
	m.focus = field
	for f, ti := range m.inputs {
		if f == field {
			ti.Focus()
		} else {
			ti.Blur()
		}
	}
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Request a reservation") + "\n\n")
	for field := 0; field < fieldCount; field++ {
		label := fmt.Sprintf("%-16s", fieldLabels[field])
		if field == m.focus {
			label = theme.Hot.Render(label)
		} else {
			label = theme.Muted.Render(label)
		}
		sb.WriteString(label + m.fieldView(field) + "\n")
	}
	sb.WriteString("\n")
	switch {
	case m.busy:
		sb.WriteString(theme.Muted.Render("submitting…"))
	case m.err != "":
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Danger).Render(m.err))
	case m.last != "":
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Render(m.last))
	}
	sb.WriteString("\n" + theme.Muted.Render("tab: next field  ←/→: choose  ctrl+s: submit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m Model) fieldView(field int) string {
	switch field {
	case FieldLab:
		if len(m.labs) == 0 {
			return theme.Muted.Render("no labs available")
		}
		l := m.labs[m.lab]
		return fmt.Sprintf("‹ %s (capacity %d) ›", l.Name, l.Capacity)
	case FieldCourse:
		if len(m.courses) == 0 {
			return theme.Muted.Render("no courses available")
		}
		return "‹ " + m.courses[m.course].Label + " ›"
	}
	return m.inputs[field].View()
}

func cycle(i, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((i+delta)%n + n) % n
}

func clamp(i, n int) int {
	if i >= n {
		return 0
	}
	return i
}
