package app_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-hclog"

	"labsched/internal/bootstrap"
	notificationdto "labsched/internal/modules/notification/dto"
	"labsched/internal/platform/config"
	uiapp "labsched/internal/ui/app"
)

// ─── fake backend ────────────────────────────────────────────────────────────

type backend struct {
	mu       sync.Mutex
	role     string
	expired  bool
	denied   string
	requests []string
}

func (b *backend) setExpired(v bool) {
	b.mu.Lock()
	b.expired = v
	b.mu.Unlock()
}

// deny answers 401 for paths under prefix only.
func (b *backend) deny(prefix string) {
	b.mu.Lock()
	b.denied = prefix
	b.mu.Unlock()
}

func (b *backend) seen() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func (b *backend) count(prefix string) int {
	n := 0
	for _, r := range b.seen() {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (b *backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.requests = append(b.requests, req.Method+" "+req.URL.RequestURI())
			expired := b.expired
			denied := b.denied != "" && strings.HasPrefix(req.URL.Path, b.denied)
			b.mu.Unlock()
			if (expired && req.URL.Path != "/api/v1/login") || denied {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "token expired"}`))
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
			var body struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(req.Body).Decode(&body)
			if body.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail": "Incorrect username or password"}`))
				return
			}
			b.mu.Lock()
			role := b.role
			b.mu.Unlock()
			_, _ = fmt.Fprintf(w, `{"access_token": "tok-%s", "token_type": "bearer", "user": {"username": %q, "full_name": "Ada Lovelace", "role": %q}}`,
				role, body.Username, role)
		})
		r.Get("/dashboard/stats", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"total_labs": 4, "total_sessions": 12, "pending_requests": 2, "total_users": 30}`))
		})
		r.Get("/notifications/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id": 7, "title": "Approved", "message": "Lab A on Monday", "notification_type": "reservation_approved", "created_at": "2024-03-01T10:00:00"}]`))
		})
		r.Get("/reservations", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[
				{"id": 1, "lab_name": "Lab A", "course_name": "CS101", "section": "A", "start_time": "2024-03-04T10:00", "end_time": "2024-03-04T12:00", "duration": 120, "status": "pending", "instructor_name": "Dr. Ada"},
				{"id": 2, "lab_name": "Lab B", "course_name": "CS102", "section": "B", "start_time": "2024-03-05T08:00", "end_time": "2024-03-05T10:00", "duration": 120, "status": "approved", "instructor_name": "Dr. Bob"}
			]`))
		})
		r.Get("/labs", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id": 1, "name": "Lab A", "capacity": 30}]`))
		})
		r.Get("/courses", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[{"id": 3, "code": "CS101", "name": "Intro"}]`))
		})
		r.Get("/reports/monthly-usage", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{
				"period": "2024-03",
				"data": [
					{"lab_name": "Lab A", "total_hours": 40, "utilization_rate": 62.5, "peak_day": "Monday", "peak_hours": "10:00-12:00"},
					{"lab_name": "Lab B", "total_hours": 8, "utilization_rate": 10, "peak_day": "Tuesday", "peak_hours": "08:00-10:00"}
				],
				"peak_hours": []
			}`))
		})
	})
	return r
}

// ─── harness ─────────────────────────────────────────────────────────────────

type harness struct {
	app     *bootstrap.App
	backend *backend
	dataDir string
	url     string
}

func newHarness(t *testing.T, role string) *harness {
	t.Helper()
	be := &backend{role: role}
	srv := httptest.NewServer(be.router())
	t.Cleanup(srv.Close)
	h := &harness{backend: be, dataDir: t.TempDir(), url: srv.URL}
	h.app = h.open(t)
	return h
}

func (h *harness) open(t *testing.T) *bootstrap.App {
	t.Helper()
	cfg, err := config.New(h.dataDir)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.APIURL = h.url
	app, err := bootstrap.New(cfg, bootstrap.Options{Logger: hclog.NewNullLogger()})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func (h *harness) model() uiapp.Model {
	m := uiapp.NewModel(uiapp.Ports{
		Session:       h.app.SessionCLI,
		Notifications: h.app.NotificationCLI,
		Scheduling:    h.app.SchedulingCLI,
		Reports:       h.app.ReportCLI,
	}, uiapp.Options{
		PollInterval:        time.Hour,
		AlertTTL:            time.Hour,
		AlertExit:           time.Hour,
		StopPollingOnLogout: true,
		Logger:              hclog.NewNullLogger(),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(uiapp.Model)
}

// alerts drains whatever the notification center has rendered so far.
func (h *harness) alerts() []notificationdto.AlertOutput {
	var out []notificationdto.AlertOutput
	for {
		select {
		case a := <-h.app.Alerts():
			out = append(out, a)
		default:
			return out
		}
	}
}

func countAlerts(alerts []notificationdto.AlertOutput, severity, message string) int {
	n := 0
	for _, a := range alerts {
		if a.Severity == severity && a.Message == message {
			n++
		}
	}
	return n
}

// ─── command runner ──────────────────────────────────────────────────────────

// cmdTimeout bounds each command. Timers and channel waits never finish in
// time and are dropped, which keeps polling and toast expiry out of the way.
const cmdTimeout = time.Second

func execCmd(cmd tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// isAnimation filters cursor blinks and spinner frames, which reschedule
// themselves.
func isAnimation(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	return strings.HasPrefix(name, "cursor.") || strings.HasPrefix(name, "spinner.")
}

func run(t *testing.T, m uiapp.Model, cmd tea.Cmd) uiapp.Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatalf("command queue did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execCmd(c)
		if !ok || msg == nil || isAnimation(msg) {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, nextCmd := m.Update(msg)
		m = next.(uiapp.Model)
		queue = append(queue, nextCmd)
	}
	return m
}

func send(t *testing.T, m uiapp.Model, msg tea.Msg) uiapp.Model {
	t.Helper()
	next, cmd := m.Update(msg)
	return run(t, next.(uiapp.Model), cmd)
}

func typeText(t *testing.T, m uiapp.Model, s string) uiapp.Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(t *testing.T, m uiapp.Model, k tea.KeyType) uiapp.Model {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

func login(t *testing.T, m uiapp.Model, user, pass string) uiapp.Model {
	t.Helper()
	m = typeText(t, m, user)
	m = press(t, m, tea.KeyEnter)
	m = typeText(t, m, pass)
	return press(t, m, tea.KeyEnter)
}

// ─── tests ───────────────────────────────────────────────────────────────────

func TestStartWithoutStoredSessionShowsLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	if m.Authenticated() {
		t.Fatalf("expected login view")
	}
	if len(m.VisibleTabs()) != 0 {
		t.Fatalf("no tabs should be visible before login: %v", m.VisibleTabs())
	}
}

func TestLoginEntersShellWithRoleTabs(t *testing.T) {
	t.Parallel()
	cases := map[string][]string{
		"admin":      {"dashboard", "schedule", "reservation", "approvals", "reports"},
		"instructor": {"dashboard", "schedule", "reservation"},
		"student":    {"dashboard", "schedule"},
	}
	for role, want := range cases {
		t.Run(role, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, role)
			m := h.model()
			m = run(t, m, m.Init())
			m = login(t, m, "ada", "secret")

			if !m.Authenticated() {
				t.Fatalf("expected shell after login, login error %q", m.Login().Err())
			}
			got := m.VisibleTabs()
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("tabs = %v, want %v", got, want)
			}
			if m.ActiveTab() != "dashboard" || m.Title() != "Dashboard" {
				t.Fatalf("active = %q title = %q", m.ActiveTab(), m.Title())
			}
			loaded, ok := m.Dashboard().Loaded()
			if !ok || loaded.Stats.TotalLabs != 4 || loaded.Unread != 1 {
				t.Fatalf("dashboard not loaded: %+v", loaded)
			}
			if !m.Polling() {
				t.Fatalf("polling should start with the shell")
			}
		})
	}
}

func TestBadCredentialsStayOnLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "wrong")
	if m.Authenticated() {
		t.Fatalf("expected login view after bad credentials")
	}
	if !strings.Contains(m.Login().Err(), "Incorrect username or password") {
		t.Fatalf("login error = %q", m.Login().Err())
	}
}

func TestRestoredSessionOpensShellDirectly(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	first := h.model()
	first = run(t, first, first.Init())
	_ = login(t, first, "ada", "secret")
	if err := h.app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	h.app = h.open(t)
	m := h.model()
	m = run(t, m, m.Init())
	if !m.Authenticated() {
		t.Fatalf("stored session should skip the login view")
	}
	if len(m.VisibleTabs()) != 5 {
		t.Fatalf("admin should see all tabs: %v", m.VisibleTabs())
	}
}

func TestReportsSelectionIssuesRequestAndRendersRows(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	next, cmd := m.SwitchTab("reports")
	m = run(t, next, cmd)
	if m.Title() != "Reports" {
		t.Fatalf("title = %q", m.Title())
	}
	next, cmd = m.SelectReport("monthly", "2024-03")
	m = run(t, next, cmd)

	if n := h.backend.count("GET /api/v1/reports/monthly-usage?month=2024-03"); n != 1 {
		t.Fatalf("expected one monthly request for 2024-03, got %d in %v", n, h.backend.seen())
	}
	if rows := m.Reports().Rows(); rows != 2 {
		t.Fatalf("rows = %d, want 2", rows)
	}
}

func TestUnknownReportTypeWarnsWithoutRequest(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	m = typeText(t, m, ":")
	m = typeText(t, m, "report bogus 2024-03")
	m = press(t, m, tea.KeyEnter)

	if n := h.backend.count("GET /api/v1/reports/"); n != 0 {
		t.Fatalf("no report should be requested, got %v", h.backend.seen())
	}
	if m.ActiveTab() == "reports" || !strings.Contains(m.Status(), "unknown report type: bogus") {
		t.Fatalf("tab = %s status = %q", m.ActiveTab(), m.Status())
	}
	toasts := m.Alerts()
	if len(toasts) != 1 || toasts[0].Title != "Warning" || toasts[0].Color != "#f39c12" {
		t.Fatalf("toasts = %+v", toasts)
	}
	if m.Reports().Month() == "2024-03" {
		t.Fatalf("a rejected selection must not change the month")
	}
}

func TestStaleTabLoadIsDiscarded(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	m, slow := m.SwitchTab("schedule")
	m, fast := m.SwitchTab("approvals")
	m = run(t, m, fast)
	m = run(t, m, slow)

	if m.ActiveTab() != "approvals" {
		t.Fatalf("active = %q", m.ActiveTab())
	}
	if m.Approvals().Rows() != 1 {
		t.Fatalf("approvals rows = %d, want 1 pending", m.Approvals().Rows())
	}
	if m.Schedule().Count() != 0 {
		t.Fatalf("superseded schedule load was applied: %d items", m.Schedule().Count())
	}
}

func TestHiddenTabIsRefused(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "student")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	next, cmd := m.SwitchTab("reports")
	m = run(t, next, cmd)
	if m.ActiveTab() != "dashboard" {
		t.Fatalf("student switched to %q", m.ActiveTab())
	}
	if n := h.backend.count("GET /api/v1/reports"); n != 0 {
		t.Fatalf("hidden tab issued %d report requests", n)
	}
}

func TestUnauthorizedLoadReturnsToLogin(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")
	_ = h.alerts()

	h.backend.setExpired(true)
	next, cmd := m.SwitchTab("schedule")
	m = run(t, next, cmd)

	if m.Authenticated() {
		t.Fatalf("401 should return to the login view")
	}
	if m.Polling() {
		t.Fatalf("polling should stop with the session")
	}
	if _, ok := h.app.SessionCLI.Current(); ok {
		t.Fatalf("session should be cleared")
	}
	alerts := h.alerts()
	if n := countAlerts(alerts, "info", "You have been logged out"); n != 1 {
		t.Fatalf("logout alerts = %d in %+v", n, alerts)
	}
	if n := countAlerts(alerts, "error", "authentication required"); n != 1 {
		t.Fatalf("auth error alerts = %d in %+v", n, alerts)
	}
}

func TestDashboardUnreadRejectedLogsOutOnce(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")
	next, cmd := m.SwitchTab("schedule")
	m = run(t, next, cmd)
	_ = h.alerts()
	before := h.backend.count("GET /api/v1/notifications/")

	h.backend.deny("/api/v1/notifications/")
	next, cmd = m.SwitchTab("dashboard")
	m = run(t, next, cmd)

	if m.Authenticated() {
		t.Fatalf("401 on the unread list should return to the login view")
	}
	if n := h.backend.count("GET /api/v1/notifications/") - before; n != 1 {
		t.Fatalf("dashboard fetched unread notifications %d times", n)
	}
	alerts := h.alerts()
	if n := countAlerts(alerts, "info", "You have been logged out"); n != 1 {
		t.Fatalf("logout alerts = %d in %+v", n, alerts)
	}
}

func TestLogoutKeyShowsLoginAndOneInfoAlert(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "instructor")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")
	_ = h.alerts()

	m = press(t, m, tea.KeyCtrlX)
	if m.Authenticated() {
		t.Fatalf("expected login view after logout")
	}
	alerts := h.alerts()
	if len(alerts) != 1 || alerts[0].Severity != "info" || alerts[0].Message != "You have been logged out" {
		t.Fatalf("alerts = %+v", alerts)
	}

	h.app = h.open(t)
	restarted := h.model()
	restarted = run(t, restarted, restarted.Init())
	if restarted.Authenticated() {
		t.Fatalf("logout must clear the stored session")
	}
}

func TestPaletteAlertRaisesToast(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	m = typeText(t, m, ":")
	m = typeText(t, m, "alert lab closed early")
	m = press(t, m, tea.KeyEnter)

	toasts := m.Alerts()
	if len(toasts) != 1 || toasts[0].Title != "Info" || toasts[0].Message != "lab closed early" {
		t.Fatalf("toasts = %+v", toasts)
	}
	if toasts[0].Color != "#3498db" {
		t.Fatalf("info color = %q", toasts[0].Color)
	}
}

func TestEnterOnReservationOpensDetailModal(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")

	next, cmd := m.SwitchTab("schedule")
	m = run(t, next, cmd)
	if m.Schedule().Count() != 2 {
		t.Fatalf("schedule count = %d", m.Schedule().Count())
	}

	m = press(t, m, tea.KeyEnter)
	if !m.Modal().Visible() || m.Modal().Title() != "Reservation #1" {
		t.Fatalf("modal visible=%v title=%q", m.Modal().Visible(), m.Modal().Title())
	}
	m = press(t, m, tea.KeyEsc)
	if m.Modal().Visible() {
		t.Fatalf("esc should close the modal")
	}
}

func TestNotificationCheckAlertsOncePerID(t *testing.T) {
	t.Parallel()
	h := newHarness(t, "admin")
	m := h.model()
	m = run(t, m, m.Init())
	m = login(t, m, "ada", "secret")
	_ = h.alerts()

	m = typeText(t, m, "n")
	if !strings.Contains(m.Status(), "1 new notification") {
		t.Fatalf("status = %q", m.Status())
	}
	m = typeText(t, m, "n")

	alerts := h.alerts()
	if n := countAlerts(alerts, "success", "Lab A on Monday"); n != 1 {
		t.Fatalf("notification 7 alerted %d times: %+v", n, alerts)
	}
}
