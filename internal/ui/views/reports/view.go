package reports

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "labsched/internal/modules/report/dto"
	"labsched/internal/platform/text"
	"labsched/internal/ui/components"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Generate(ctx context.Context, reportType, month string) (reportdto.ReportOutput, error)
	Types() []string
	CurrentMonth() string
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Gen    int
	Seq    int
	Report reportdto.ReportOutput
	Err    error
}

func (m LoadedMsg) Generation() int { return m.Gen }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port       Port
	types      []string
	typeIdx    int
	month      string
	monthInput textinput.Model
	editing    bool
	table      table.Model
	report     reportdto.ReportOutput
	gen        int
	seq        int
	loading    bool
	err        string
	width      int
	height     int
}

func New(port Port) Model {
	mi := textinput.New()
	mi.Placeholder = "YYYY-MM"
	mi.CharLimit = 7
	mi.Prompt = ""

	t := table.New(table.WithFocused(true))
	t.SetStyles(theme.TableStyles())

	m := Model{port: port, monthInput: mi, table: t}
	if port != nil {
		m.types = port.Types()
		m.month = port.CurrentMonth()
	}
	if len(m.types) == 0 {
		m.types = []string{"monthly"}
	}
	return m
}

// Load generates the report for the current selection. Only the latest
// request's result is applied.
func (m *Model) Load(gen int) tea.Cmd {
	m.gen = gen
	m.seq++
	m.loading = true
	m.err = ""
	port := m.port
	seq, reportType, month := m.seq, m.Type(), m.month
	return func() tea.Msg {
		out, err := port.Generate(context.Background(), reportType, month)
		return LoadedMsg{Gen: gen, Seq: seq, Report: out, Err: err}
	}
}

// SetSelection changes type and month without loading. An unknown type
// leaves the selection untouched and reports false; an empty month keeps
// the current one.
func (m *Model) SetSelection(reportType, month string) bool {
	idx := slices.Index(m.types, reportType)
	if idx < 0 {
		return false
	}
	m.typeIdx = idx
	if month != "" {
		m.month = month
	}
	return true
}

func (m Model) Type() string  { return m.types[m.typeIdx] }
func (m Model) Month() string { return m.month }

func (m Model) Report() reportdto.ReportOutput { return m.report }

// Editing reports whether the month field has focus.
func (m Model) Editing() bool { return m.editing }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case LoadedMsg:
		if msg.Seq != m.seq {
			return m, nil
		}
		m.loading = false
		if msg.Err != nil {
			m.err = text.SingleLine(msg.Err.Error())
			return m, components.Notice("Error", "Failed to generate report", "error")
		}
		m.err = ""
		m.report = msg.Report
		m.month = msg.Report.Month
		m.fillTable()
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				m.editing = false
				m.monthInput.Blur()
				m.month = strings.TrimSpace(m.monthInput.Value())
				return m, m.Load(m.gen)
			case "esc":
				m.editing = false
				m.monthInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.monthInput, cmd = m.monthInput.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "t", "right":
			m.typeIdx = (m.typeIdx + 1) % len(m.types)
			return m, m.Load(m.gen)
		case "left":
			m.typeIdx = (m.typeIdx + len(m.types) - 1) % len(m.types)
			return m, m.Load(m.gen)
		case "[", "]":
			m.month = shiftMonth(m.month, msg.String() == "]")
			return m, m.Load(m.gen)
		case "m":
			m.editing = true
			m.monthInput.SetValue(m.month)
			return m, m.monthInput.Focus()
		case "g", "enter":
			return m, m.Load(m.gen)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *Model) fillTable() {
	cols := make([]table.Column, len(m.report.Columns))
	width := max(m.width-4, 40)
	for i, c := range m.report.Columns {
		cols[i] = table.Column{Title: c, Width: max(width/max(len(m.report.Columns), 1)-2, 8)}
	}
	rows := make([]table.Row, 0, len(m.report.Rows))
	for _, r := range m.report.Rows {
		rows = append(rows, table.Row(r))
	}
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
	m.resize()
}

func (m *Model) resize() {
	m.table.SetWidth(max(m.width-2, 20))
	h := m.height - 8 - len(m.report.Bars)
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(min(h, len(m.report.Rows)+2))
}

// Rows is the number of table rows rendered.
func (m Model) Rows() int { return len(m.table.Rows()) }

func (m Model) View() string {
	var parts []string
	selector := fmt.Sprintf("%s %s   %s %s",
		theme.Muted.Render("type:"), theme.Hot.Render("‹ "+m.Type()+" ›"),
		theme.Muted.Render("month:"), m.monthView())
	parts = append(parts, selector, "")

	switch {
	case m.loading:
		parts = append(parts, theme.Muted.Render("generating report…"))
	case m.err != "":
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Danger).Render(m.err))
	case m.report.Title != "":
		parts = append(parts, theme.Title.Render(m.report.Title), m.table.View())
		if len(m.report.Bars) > 0 {
			parts = append(parts, "", theme.Title.Render("Peak Hours Analysis"))
			barW := max(m.width-30, 10)
			for _, b := range m.report.Bars {
				parts = append(parts, fmt.Sprintf("%12s %s %5.1f%%", b.Label, theme.Bar(b.Percent, barW), b.Percent))
			}
		}
	}
	parts = append(parts, "", theme.Muted.Render("t/←/→: type  [/]: month  m: edit month  g: generate"))
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) monthView() string {
	if m.editing {
		return m.monthInput.View()
	}
	return theme.Hot.Render(m.month)
}
