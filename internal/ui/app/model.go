package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	notificationdto "labsched/internal/modules/notification/dto"
	reportdto "labsched/internal/modules/report/dto"
	schedulingdto "labsched/internal/modules/scheduling/dto"
	sessiondto "labsched/internal/modules/session/dto"
	"labsched/internal/platform/text"
	"labsched/internal/ui/components"
	"labsched/internal/ui/theme"
	approvalsview "labsched/internal/ui/views/approvals"
	dashboardview "labsched/internal/ui/views/dashboard"
	loginview "labsched/internal/ui/views/login"
	reportsview "labsched/internal/ui/views/reports"
	reservationview "labsched/internal/ui/views/reservation"
	scheduleview "labsched/internal/ui/views/schedule"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type sessionPort interface {
	Start(ctx context.Context) (sessiondto.StateOutput, error)
	Login(ctx context.Context, username, password string) (sessiondto.StateOutput, error)
	Logout(ctx context.Context) error
	Current() (sessiondto.SessionOutput, bool)
}

type notificationPort interface {
	Check(ctx context.Context) (notificationdto.CheckOutput, error)
	ShowManual(ctx context.Context, title, message, severity string) notificationdto.AlertOutput
	ListUnread(ctx context.Context) ([]notificationdto.NotificationOutput, error)
	MarkAsRead(ctx context.Context, id string) error
}

type schedulingPort interface {
	Dashboard(ctx context.Context) (schedulingdto.StatsOutput, error)
	Labs(ctx context.Context) ([]schedulingdto.LabOutput, error)
	Courses(ctx context.Context) ([]schedulingdto.CourseOutput, error)
	Reservations(ctx context.Context) ([]schedulingdto.ReservationOutput, error)
	Pending(ctx context.Context) ([]schedulingdto.ReservationOutput, error)
	Reserve(ctx context.Context, input schedulingdto.ReservationInput) (schedulingdto.CreateOutput, error)
	Approve(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error)
	Decline(ctx context.Context, reservationID int) (schedulingdto.DecisionOutput, error)
}

type reportPort interface {
	Generate(ctx context.Context, reportType, month string) (reportdto.ReportOutput, error)
	Types() []string
	CurrentMonth() string
}

// Ports groups the module handlers the shell talks to.
type Ports struct {
	Session       sessionPort
	Notifications notificationPort
	Scheduling    schedulingPort
	Reports       reportPort
}

// Options tunes timing and wires the event streams. Nil channels are not
// listened on.
type Options struct {
	PollInterval        time.Duration
	AlertTTL            time.Duration
	AlertExit           time.Duration
	StopPollingOnLogout bool
	Events              <-chan sessiondto.Event
	Alerts              <-chan notificationdto.AlertOutput
	Logger              hclog.Logger
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabSchedule
	tabReservation
	tabApprovals
	tabReports
	tabCount
)

var tabNames = [tabCount]string{
	"dashboard", "schedule", "reservation", "approvals", "reports",
}

func parseTab(name string) (tabID, bool) {
	for i, n := range tabNames {
		if n == strings.ToLower(strings.TrimSpace(name)) {
			return tabID(i), true
		}
	}
	return 0, false
}

// ─── async messages ───────────────────────────────────────────────────────────

type startedMsg struct {
	state sessiondto.StateOutput
	err   error
}

type sessionEventMsg struct{ event sessiondto.Event }

type alertMsg struct{ alert notificationdto.AlertOutput }

type loggedOutMsg struct{ err error }

type pollTickMsg struct{ gen int }

type checkedMsg struct {
	out notificationdto.CheckOutput
	err error
}

type markedMsg struct {
	id  string
	err error
}

// generational is implemented by tab loads; results from a superseded tab
// switch are discarded.
type generational interface {
	Generation() int
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Jump    key.Binding
	Reload  key.Binding
	Check   key.Binding
	Dismiss key.Binding
	Logout  key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next tab")),
		Jump:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "jump to tab")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Check:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "check notifications")),
		Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss alert")),
		Logout:  key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "logout")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Jump, k.Reload},
		{k.Check, k.Dismiss, k.Logout},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns the login/shell switch, tab
// routing and visibility, notification polling, alerts, and the detail modal.
// All business logic is delegated to port interfaces; all rendering is
// delegated to sub-views.
type Model struct {
	ports  Ports
	opts   Options
	logger hclog.Logger

	// sub-views
	loginView   loginview.Model
	dashView    dashboardview.Model
	schedView   scheduleview.Model
	resView     reservationview.Model
	apprView    approvalsview.Model
	reportsView reportsview.Model

	// session state
	authenticated bool
	session       sessiondto.SessionOutput

	// global UI state
	activeTab tabID
	title     string
	gen       int
	pollGen   int
	polling   bool
	toasts    components.Toasts
	modal     components.Modal
	palette   components.Palette
	keys      keyMap
	help      help.Model
	showHelp  bool
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ports Ports, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.AlertTTL <= 0 {
		opts.AlertTTL = 5 * time.Second
	}
	if opts.AlertExit <= 0 {
		opts.AlertExit = 300 * time.Millisecond
	}

	return Model{
		ports:       ports,
		opts:        opts,
		logger:      opts.Logger.Named("tui"),
		loginView:   loginview.New(loginPortBridge{p: ports.Session}),
		dashView:    dashboardview.New(dashboardPortBridge{s: ports.Scheduling, n: ports.Notifications}),
		schedView:   scheduleview.New(schedulingPortBridge{p: ports.Scheduling}),
		resView:     reservationview.New(schedulingPortBridge{p: ports.Scheduling}),
		apprView:    approvalsview.New(schedulingPortBridge{p: ports.Scheduling}),
		reportsView: reportsview.New(ports.Reports),
		activeTab:   tabDashboard,
		title:       text.Capitalize(tabNames[tabDashboard]),
		toasts:      components.NewToasts(opts.AlertTTL, opts.AlertExit),
		modal:       components.NewModal(),
		palette:     components.NewPalette(paletteHints),
		keys:        defaultKeys(),
		help:        help.New(),
		status:      "starting",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.startCmd(),
		m.loginView.Init(),
		waitEvent(m.opts.Events),
		waitAlert(m.opts.Alerts),
	)
}

// ─── accessors ───────────────────────────────────────────────────────────────

func (m Model) Authenticated() bool { return m.authenticated }

func (m Model) Session() sessiondto.SessionOutput { return m.session }

// ActiveTab is the name of the tab on screen.
func (m Model) ActiveTab() string { return tabNames[m.activeTab] }

// Title is the page title shown in the header.
func (m Model) Title() string { return m.title }

// VisibleTabs lists the tabs the current role may open.
func (m Model) VisibleTabs() []string {
	var out []string
	for i := tabID(0); i < tabCount; i++ {
		if m.tabVisible(i) {
			out = append(out, tabNames[i])
		}
	}
	return out
}

func (m Model) Alerts() []components.Alert { return m.toasts.Alerts() }

func (m Model) Modal() components.Modal { return m.modal }

func (m Model) Status() string { return m.status }

func (m Model) Polling() bool { return m.polling }

func (m Model) Dashboard() dashboardview.Model { return m.dashView }

func (m Model) Schedule() scheduleview.Model { return m.schedView }

func (m Model) Reservation() reservationview.Model { return m.resView }

func (m Model) Approvals() approvalsview.Model { return m.apprView }

func (m Model) Reports() reportsview.Model { return m.reportsView }

func (m Model) Login() loginview.Model { return m.loginView }

// ─── commands exposed to callers ─────────────────────────────────────────────

// SwitchTab shows the named tab and loads its content. Tabs hidden for the
// current role are refused.
func (m Model) SwitchTab(name string) (Model, tea.Cmd) {
	t, ok := parseTab(name)
	if !ok {
		m.status = "unknown tab: " + name
		return m, nil
	}
	cmd := m.switchTab(t)
	return m, cmd
}

// SelectReport switches to the reports tab with the given type and month.
func (m Model) SelectReport(reportType, month string) (Model, tea.Cmd) {
	if !m.reportsView.SetSelection(reportType, month) {
		m.status = "unknown report type: " + text.SingleLine(reportType)
		return m, m.noticeCmd("Warning", "Unknown report type "+text.SingleLine(reportType), "warning")
	}
	cmd := m.switchTab(tabReports)
	return m, cmd
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.toasts.SetWidth(min(m.width/3, 48))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case startedMsg:
		if msg.err != nil {
			m.status = "session restore: " + text.SingleLine(msg.err.Error())
			m.logger.Warn("session restore failed", "error", msg.err)
		}
		return m.syncSession()

	case sessionEventMsg:
		// The event is a trigger only; the session port holds the truth, so a
		// late event cannot undo a newer transition.
		m.logger.Debug("session event", "authenticated", msg.event.Authenticated, "reason", msg.event.Reason)
		var cmd tea.Cmd
		m, cmd = m.syncSession()
		return m, tea.Batch(cmd, waitEvent(m.opts.Events))

	case alertMsg:
		cmd := m.pushAlert(msg.alert)
		return m, tea.Batch(cmd, waitAlert(m.opts.Alerts))

	case components.ToastExpiredMsg, components.ToastRemovedMsg:
		var cmd tea.Cmd
		m.toasts, cmd = m.toasts.Update(msg)
		return m, cmd

	case components.NoticeMsg:
		return m, m.noticeCmd(msg.Title, msg.Message, msg.Severity)

	case components.ModalClosedMsg:
		m.status = "ready"
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case loginview.DoneMsg:
		var cmd tea.Cmd
		m.loginView, cmd = m.loginView.Update(msg)
		var syncCmd tea.Cmd
		m, syncCmd = m.syncSession()
		return m, tea.Batch(cmd, syncCmd)

	case loggedOutMsg:
		if msg.err != nil {
			m.status = "logout: " + text.SingleLine(msg.err.Error())
		}
		return m.syncSession()

	case pollTickMsg:
		if msg.gen != m.pollGen || !m.polling {
			return m, nil
		}
		return m, tea.Batch(m.checkCmd(), m.pollCmd())

	case checkedMsg:
		if msg.err != nil {
			m.logger.Debug("notification check failed", "error", msg.err)
			return m.syncSession()
		}
		if msg.out.Alerted > 0 {
			m.status = fmt.Sprintf("%d new notification(s)", msg.out.Alerted)
		}
		return m, nil

	case markedMsg:
		if msg.err != nil {
			m.status = "mark as read: " + text.SingleLine(msg.err.Error())
			return m.syncSession()
		}
		m.status = "notification " + msg.id + " marked as read"
		return m, nil

	case scheduleview.OpenDetailMsg:
		m.modal.Open(msg.Title, msg.Body)
		return m, nil

	case tea.MouseMsg:
		if m.modal.Visible() {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if !m.authenticated {
			return m, nil
		}

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.modal.Visible() {
			var cmd tea.Cmd
			m.modal, cmd = m.modal.Update(msg)
			return m, cmd
		}
		if !m.authenticated {
			var cmd tea.Cmd
			m.loginView, cmd = m.loginView.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view while it captures free text.
		if m.subViewCapturing() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			return m, m.switchTab(m.nextVisible(1))
		case "shift+tab":
			return m, m.switchTab(m.nextVisible(-1))
		case "1", "2", "3", "4", "5":
			n, _ := strconv.Atoi(msg.String())
			return m, m.switchTab(tabID(n - 1))
		case "r":
			return m, m.switchTab(m.activeTab)
		case "n":
			m.status = "checking notifications"
			return m, m.checkCmd()
		case "x":
			return m, m.toasts.Dismiss()
		case "ctrl+x":
			return m, m.logoutCmd()
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	if gm, ok := msg.(generational); ok && gm.Generation() != m.gen {
		m.logger.Debug("discarding stale tab load", "generation", gm.Generation(), "current", m.gen)
		return m, nil
	}

	// Results are routed to their owner even if the user has since moved on.
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case dashboardview.LoadedMsg:
		m.dashView, cmd = m.dashView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case scheduleview.LoadedMsg:
		m.schedView, cmd = m.schedView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case reservationview.LoadedMsg:
		m.resView, cmd = m.resView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case reservationview.SubmittedMsg:
		m.resView, cmd = m.resView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case approvalsview.LoadedMsg:
		m.apprView, cmd = m.apprView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case approvalsview.DecidedMsg:
		m.apprView, cmd = m.apprView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	case reportsview.LoadedMsg:
		m.reportsView, cmd = m.reportsView.Update(msg)
		return m.afterLoad(cmd, msg.Err)
	}

	if !m.authenticated {
		m.loginView, cmd = m.loginView.Update(msg)
		return m, cmd
	}
	return m, m.updateActive(msg)
}

// afterLoad re-reads the session after a failed call: a 401 has already
// logged the user out and the login screen must show without waiting for
// the event.
func (m Model) afterLoad(cmd tea.Cmd, err error) (tea.Model, tea.Cmd) {
	if err == nil {
		return m, cmd
	}
	m.status = text.SingleLine(err.Error())
	next, syncCmd := m.syncSession()
	return next, tea.Batch(cmd, syncCmd)
}

func (m *Model) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, cmd = m.dashView.Update(msg)
	case tabSchedule:
		m.schedView, cmd = m.schedView.Update(msg)
	case tabReservation:
		m.resView, cmd = m.resView.Update(msg)
	case tabApprovals:
		m.apprView, cmd = m.apprView.Update(msg)
	case tabReports:
		m.reportsView, cmd = m.reportsView.Update(msg)
	}
	return cmd
}

// ─── session transitions ─────────────────────────────────────────────────────

func (m Model) syncSession() (Model, tea.Cmd) {
	if m.ports.Session == nil {
		return m, nil
	}
	sess, ok := m.ports.Session.Current()
	return m.applySession(ok, sess)
}

// applySession enters or leaves the shell. Repeated transitions into the
// same state only refresh the stored session.
func (m Model) applySession(authenticated bool, sess sessiondto.SessionOutput) (Model, tea.Cmd) {
	switch {
	case authenticated && m.authenticated:
		m.session = sess
		m.dashView.SetGreeting(sess.FullName)
		return m, nil
	case authenticated:
		m.authenticated = true
		m.session = sess
		m.loginView.Reset()
		m.dashView.SetGreeting(sess.FullName)
		m.status = "signed in as " + sess.FullName
		m.logger.Info("shell entered", "user", sess.Username, "role", sess.Role)
		tabCmd := m.switchTab(tabDashboard)
		return m, tea.Batch(tabCmd, m.startPolling())
	case m.authenticated:
		m.authenticated = false
		m.session = sessiondto.SessionOutput{}
		m.modal.Close()
		m.showHelp = false
		m.loginView.Reset()
		m.gen++
		if m.opts.StopPollingOnLogout {
			m.stopPolling()
		}
		m.status = "signed out"
		m.logger.Info("shell left")
		return m, nil
	default:
		if m.status == "starting" {
			m.status = "please sign in"
		}
		return m, nil
	}
}

func (m *Model) startPolling() tea.Cmd {
	if m.polling {
		return nil
	}
	m.polling = true
	m.pollGen++
	return m.pollCmd()
}

func (m *Model) stopPolling() {
	m.polling = false
	m.pollGen++
}

// ─── tabs ────────────────────────────────────────────────────────────────────

func (m Model) tabVisible(t tabID) bool {
	if !m.authenticated {
		return false
	}
	v := m.session.Visibility
	switch t {
	case tabReservation:
		return v.Reservation
	case tabApprovals:
		return v.Approvals
	case tabReports:
		return v.Reports
	}
	return true
}

func (m Model) nextVisible(step int) tabID {
	t := m.activeTab
	for i := 0; i < int(tabCount); i++ {
		t = (t + tabID(step) + tabCount) % tabCount
		if m.tabVisible(t) {
			return t
		}
	}
	return m.activeTab
}

func (m *Model) switchTab(t tabID) tea.Cmd {
	if !m.tabVisible(t) {
		m.status = tabNames[t] + " is not available"
		return nil
	}
	m.activeTab = t
	m.title = text.Capitalize(tabNames[t])
	m.gen++
	m.status = "loading " + tabNames[t]
	switch t {
	case tabDashboard:
		return m.dashView.Load(m.gen)
	case tabSchedule:
		return m.schedView.Load(m.gen)
	case tabReservation:
		return m.resView.Load(m.gen)
	case tabApprovals:
		return m.apprView.Load(m.gen)
	case tabReports:
		return m.reportsView.Load(m.gen)
	}
	return nil
}

// ─── alerts ──────────────────────────────────────────────────────────────────

func (m *Model) pushAlert(a notificationdto.AlertOutput) tea.Cmd {
	return m.toasts.Push(components.Alert{Title: a.Title, Message: a.Message, Color: a.Color})
}

// noticeCmd raises a local alert through the notification center. Without an
// alert stream the rendered alert is delivered directly.
func (m Model) noticeCmd(title, message, severity string) tea.Cmd {
	if m.ports.Notifications == nil {
		return nil
	}
	port, direct := m.ports.Notifications, m.opts.Alerts == nil
	return func() tea.Msg {
		out := port.ShowManual(context.Background(), title, message, severity)
		if direct {
			return alertMsg{alert: out}
		}
		return nil
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.authenticated {
		login := lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, m.loginView.View())
		return m.overlayToasts(lipgloss.JoinVertical(lipgloss.Left, login, m.renderStatusBar()))
	}

	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.modal.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.modal.View())
	default:
		content = lipgloss.NewStyle().Height(contentH).MaxHeight(contentH).Render(m.activeView())
	}

	return m.overlayToasts(lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar))
}

// overlayToasts pins the alert stack to the top right corner.
func (m Model) overlayToasts(screen string) string {
	if m.toasts.Len() == 0 {
		return screen
	}
	stack := m.toasts.View()
	lines := strings.Split(screen, "\n")
	for i, row := range strings.Split(stack, "\n") {
		if i >= len(lines) {
			break
		}
		pad := max(m.width-lipgloss.Width(row), 0)
		left := lipgloss.NewStyle().MaxWidth(pad).Render(lines[i])
		lines[i] = left + strings.Repeat(" ", max(pad-lipgloss.Width(left), 0)) + row
	}
	return strings.Join(lines, "\n")
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabSchedule:
		return m.schedView.View()
	case tabReservation:
		return m.resView.View()
	case tabApprovals:
		return m.apprView.View()
	case tabReports:
		return m.reportsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	var parts []string
	for i := tabID(0); i < tabCount; i++ {
		if !m.tabVisible(i) {
			continue
		}
		label := fmt.Sprintf("%d %s", i+1, text.Capitalize(tabNames[i]))
		if i == m.activeTab {
			parts = append(parts, theme.TabActive.Render(label))
		} else {
			parts = append(parts, theme.TabIdle.Render(label))
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "labsched  " + strings.Join(parts, sep)
	return theme.ShellBar.Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.authenticated {
		badge := theme.Hot.Render("(" + m.session.Initial + ") " + m.session.FullName + " · " + m.session.DisplayRole)
		if !m.session.ExpiresAt.IsZero() {
			badge += theme.Muted.Render("  expires " + m.session.ExpiresAt.Local().Format("15:04"))
		}
		left = badge + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	if !m.authenticated {
		right = theme.Muted.Render("enter:sign in  ctrl+c:quit")
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + theme.ShellBar.Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

var paletteHints = []string{
	"tab:dashboard",
	"tab:schedule",
	"tab:reservation",
	"tab:approvals",
	"tab:reports",
	"report <monthly|instructor|peak-hours> [YYYY-MM]",
	"notifications:check",
	"notifications:read <id>",
	"alert <message>",
	"logout",
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	if !m.authenticated {
		m.status = "please sign in"
		return m, nil
	}

	switch {
	case strings.HasPrefix(parts[0], "tab:"):
		return m.SwitchTab(strings.TrimPrefix(parts[0], "tab:"))

	case parts[0] == "report":
		if len(parts) < 2 {
			m.status = "usage: report <monthly|instructor|peak-hours> [YYYY-MM]"
			return m, nil
		}
		month := ""
		if len(parts) >= 3 {
			month = parts[2]
		}
		return m.SelectReport(parts[1], month)

	case parts[0] == "notifications:check":
		m.status = "checking notifications"
		return m, m.checkCmd()

	case parts[0] == "notifications:read":
		if len(parts) < 2 {
			m.status = "usage: notifications:read <id>"
			return m, nil
		}
		return m, m.markCmd(parts[1])

	case parts[0] == "alert":
		message := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if message == "" {
			m.status = "usage: alert <message>"
			return m, nil
		}
		return m, m.noticeCmd("Info", message, "info")

	case parts[0] == "logout":
		return m, m.logoutCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewCapturing reports whether the active tab is taking free text, in
// which case global key bindings must yield.
func (m Model) subViewCapturing() bool {
	switch m.activeTab {
	case tabSchedule:
		return m.schedView.Filtering()
	case tabReservation:
		return m.resView.Editing()
	case tabReports:
		return m.reportsView.Editing()
	}
	return false
}

func (m *Model) propagateSize() {
	contentH := max(m.height-4, 1)
	sz := tea.WindowSizeMsg{Width: m.width, Height: contentH}
	m.loginView, _ = m.loginView.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.dashView, _ = m.dashView.Update(sz)
	m.schedView, _ = m.schedView.Update(sz)
	m.resView, _ = m.resView.Update(sz)
	m.apprView, _ = m.apprView.Update(sz)
	m.reportsView, _ = m.reportsView.Update(sz)
	m.modal.SetArea(m.width, contentH, 2)
}

// ─── async commands ───────────────────────────────────────────────────────────

func waitEvent(ch <-chan sessiondto.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return sessionEventMsg{event: ev}
	}
}

func waitAlert(ch <-chan notificationdto.AlertOutput) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		a, ok := <-ch
		if !ok {
			return nil
		}
		return alertMsg{alert: a}
	}
}

func (m Model) startCmd() tea.Cmd {
	if m.ports.Session == nil {
		return nil
	}
	session := m.ports.Session
	return func() tea.Msg {
		state, err := session.Start(context.Background())
		return startedMsg{state: state, err: err}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	session := m.ports.Session
	return func() tea.Msg {
		return loggedOutMsg{err: session.Logout(context.Background())}
	}
}

func (m Model) pollCmd() tea.Cmd {
	gen := m.pollGen
	return tea.Tick(m.opts.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (m Model) checkCmd() tea.Cmd {
	if m.ports.Notifications == nil {
		return nil
	}
	port := m.ports.Notifications
	return func() tea.Msg {
		out, err := port.Check(context.Background())
		return checkedMsg{out: out, err: err}
	}
}

func (m Model) markCmd(id string) tea.Cmd {
	port := m.ports.Notifications
	return func() tea.Msg {
		return markedMsg{id: id, err: port.MarkAsRead(context.Background(), id)}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type loginPortBridge struct{ p sessionPort }

func (b loginPortBridge) Login(ctx context.Context, username, password string) error {
	_, err := b.p.Login(ctx, username, password)
	return err
}

type dashboardPortBridge struct {
	s schedulingPort
	n notificationPort
}

func (b dashboardPortBridge) Dashboard(ctx context.Context) (schedulingdto.StatsOutput, error) {
	return b.s.Dashboard(ctx)
}
func (b dashboardPortBridge) ListUnread(ctx context.Context) ([]notificationdto.NotificationOutput, error) {
	return b.n.ListUnread(ctx)
}

type schedulingPortBridge struct{ p schedulingPort }

func (b schedulingPortBridge) Labs(ctx context.Context) ([]schedulingdto.LabOutput, error) {
	return b.p.Labs(ctx)
}
func (b schedulingPortBridge) Courses(ctx context.Context) ([]schedulingdto.CourseOutput, error) {
	return b.p.Courses(ctx)
}
func (b schedulingPortBridge) Reservations(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	return b.p.Reservations(ctx)
}
func (b schedulingPortBridge) Pending(ctx context.Context) ([]schedulingdto.ReservationOutput, error) {
	return b.p.Pending(ctx)
}
func (b schedulingPortBridge) Reserve(ctx context.Context, input schedulingdto.ReservationInput) (schedulingdto.CreateOutput, error) {
	return b.p.Reserve(ctx, input)
}
func (b schedulingPortBridge) Approve(ctx context.Context, id int) (schedulingdto.DecisionOutput, error) {
	return b.p.Approve(ctx, id)
}
func (b schedulingPortBridge) Decline(ctx context.Context, id int) (schedulingdto.DecisionOutput, error) {
	return b.p.Decline(ctx, id)
}
