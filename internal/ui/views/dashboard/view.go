package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notificationdto "labsched/internal/modules/notification/dto"
	schedulingdto "labsched/internal/modules/scheduling/dto"
	"labsched/internal/platform/markdown"
	"labsched/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type Port interface {
	Dashboard(ctx context.Context) (schedulingdto.StatsOutput, error)
	ListUnread(ctx context.Context) ([]notificationdto.NotificationOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Gen    int
	Stats  schedulingdto.StatsOutput
	Unread int
	Recent []notificationdto.NotificationOutput
	Err    error
}

func (m LoadedMsg) Generation() int { return m.Gen }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port     Port
	viewport viewport.Model
	spinner  spinner.Model
	renderer *markdown.Renderer
	greeting string
	data     LoadedMsg
	loaded   bool
	loading  bool
	width    int
	height   int
}

func New(port Port) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{port: port, viewport: viewport.New(0, 0), spinner: sp}
}

// SetGreeting sets the name shown in the heading.
func (m *Model) SetGreeting(name string) { m.greeting = name }

// Load fetches stats and the unread list in one pass each; the unread count
// is the list length. Unread failures degrade to an empty summary.
func (m *Model) Load(gen int) tea.Cmd {
	m.loading = true
	port := m.port
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		stats, err := port.Dashboard(ctx)
		if err != nil {
			return LoadedMsg{Gen: gen, Err: err}
		}
		recent, err := port.ListUnread(ctx)
		if err != nil {
			return LoadedMsg{Gen: gen, Stats: stats}
		}
		return LoadedMsg{Gen: gen, Stats: stats, Unread: len(recent), Recent: recent}
	})
}

func (m Model) Loaded() (LoadedMsg, bool) { return m.data, m.loaded }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.renderer = nil
		m.refresh()
		return m, nil

	case LoadedMsg:
		m.loading = false
		m.data = msg
		m.loaded = msg.Err == nil
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading && !m.loaded {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	}
	return m.viewport.View()
}

func (m *Model) refresh() {
	if m.renderer == nil || m.renderer.Width() != m.width {
		if r, err := markdown.NewRenderer(m.width); err == nil {
			m.renderer = r
		}
	}
	m.viewport.SetContent(m.renderer.Render(m.Markdown()))
}

// Markdown is the dashboard source before terminal rendering.
func (m Model) Markdown() string {
	doc := &markdown.Document{}
	if m.greeting != "" {
		doc.Heading(1, "Welcome, "+markdown.Escape(m.greeting))
	} else {
		doc.Heading(1, "Dashboard")
	}
	if m.data.Err != nil {
		doc.Paragraph("Dashboard unavailable: " + markdown.Escape(m.data.Err.Error()))
		return doc.String()
	}
	s := m.data.Stats
	doc.Table([]string{"Metric", "Value"}, [][]string{
		{"Active labs", strconv.Itoa(s.TotalLabs)},
		{"Scheduled sessions", strconv.Itoa(s.TotalSessions)},
		{"Pending requests", strconv.Itoa(s.PendingRequests)},
		{"Active users", strconv.Itoa(s.TotalUsers)},
		{"Unread notifications", strconv.Itoa(m.data.Unread)},
	})
	if len(m.data.Recent) > 0 {
		doc.Heading(2, "Unread notifications")
		items := make([]string, 0, len(m.data.Recent))
		for _, n := range m.data.Recent {
			item := fmt.Sprintf("**%s** %s", markdown.Escape(n.Title), markdown.Escape(n.Message))
			if !n.CreatedAt.IsZero() {
				item += " _(" + n.CreatedAt.Format("Jan 2 15:04") + ")_"
			}
			items = append(items, item)
		}
		doc.Bullets(items)
	}
	return doc.String()
}
