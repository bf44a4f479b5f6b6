package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	reportout "labsched/internal/modules/report/adapter/out"
	reportdto "labsched/internal/modules/report/dto"
	reportin "labsched/internal/modules/report/port/in"
	"labsched/internal/modules/report/service"
	"labsched/internal/modules/report/usecase"
	"labsched/internal/platform/clock"
	apperrors "labsched/internal/platform/errors"
	"labsched/internal/platform/httpapi"
)

type token string

func (t token) Token() string { return string(t) }

type recorded struct {
	path, month string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func newReports(t *testing.T) (reportin.Usecase, *recorder) {
	t.Helper()
	rec := &recorder{}
	r := chi.NewRouter()
	record := func(req *http.Request) {
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{req.URL.Path, req.URL.Query().Get("month")})
		rec.mu.Unlock()
	}
	r.Get("/api/v1/reports/monthly-usage", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		_, _ = w.Write([]byte(`{
			"period": "2024-03",
			"data": [
				{"lab_name": "Lab A", "total_hours": 40, "utilization_rate": 62.5, "peak_day": "Monday", "peak_hours": "10:00-12:00"},
				{"lab_name": "Lab B", "total_hours": 8, "utilization_rate": 10, "peak_day": "Tuesday", "peak_hours": "08:00-10:00"},
				{"lab_name": "Lab C", "total_hours": 0, "utilization_rate": 0, "peak_day": "", "peak_hours": ""}
			],
			"peak_hours": [{"time_slot": "10:00-12:00", "utilization": 80}]
		}`))
	})
	r.Get("/api/v1/reports/instructor-usage", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		_, _ = w.Write([]byte(`{"period": "2024-03", "data": [{"instructor_name": "Dr. Ada", "total_reservations": 4, "total_hours": 9.5, "favorite_lab": "Lab A"}]}`))
	})
	r.Get("/api/v1/reports/peak-hours", func(w http.ResponseWriter, req *http.Request) {
		record(req)
		_, _ = w.Write([]byte(`{"12:00-14:00": 45, "08:00-10:00": 20}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client := httpapi.New(srv.URL, token("tok"), nil)
	svc := service.NewReportService(reportout.NewHTTPSource(client), clock.Fixed{At: time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)})
	return usecase.NewInteractor(svc), rec
}

func TestGenerateMonthlyIssuesRequestAndRendersRows(t *testing.T) {
	t.Parallel()
	uc, rec := newReports(t)

	out, err := uc.Generate(context.Background(), reportdto.ReportInput{Type: "monthly", Month: "2024-03"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if calls := rec.all(); len(calls) != 1 || calls[0] != (recorded{"/api/v1/reports/monthly-usage", "2024-03"}) {
		t.Fatalf("unexpected requests %+v", calls)
	}
	if len(out.Rows) != 3 || out.Rows[1][0] != "Lab B" {
		t.Fatalf("expected one row per data item, got %+v", out.Rows)
	}
	if len(out.Bars) != 1 || out.Bars[0].Percent != 80 {
		t.Fatalf("unexpected bars %+v", out.Bars)
	}
}

func TestGenerateOtherReportTypes(t *testing.T) {
	t.Parallel()
	uc, rec := newReports(t)

	instructor, err := uc.Generate(context.Background(), reportdto.ReportInput{Type: "instructor", Month: "2024-03"})
	if err != nil {
		t.Fatalf("instructor: %v", err)
	}
	if len(instructor.Rows) != 1 || instructor.Rows[0][2] != "9.5 hours" {
		t.Fatalf("unexpected instructor rows %+v", instructor.Rows)
	}
	peak, err := uc.Generate(context.Background(), reportdto.ReportInput{Type: "peak-hours"})
	if err != nil {
		t.Fatalf("peak-hours: %v", err)
	}
	if len(peak.Rows) != 2 || peak.Rows[0][0] != "08:00-10:00" || peak.Month != "2024-05" {
		t.Fatalf("unexpected peak report %+v", peak)
	}
	if calls := rec.all(); calls[1].month != "2024-05" {
		t.Fatalf("default month should be the current one, got %+v", calls)
	}
}

func TestGenerateRejectsBadInputWithoutRequest(t *testing.T) {
	t.Parallel()
	uc, rec := newReports(t)
	for _, in := range []reportdto.ReportInput{
		{Type: "weekly", Month: "2024-03"},
		{Type: "monthly", Month: "March"},
	} {
		if _, err := uc.Generate(context.Background(), in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", in, err)
		}
	}
	if calls := rec.all(); len(calls) != 0 {
		t.Fatalf("no request expected, got %+v", calls)
	}
	if got := uc.Types(); len(got) != 3 || got[2] != "peak-hours" {
		t.Fatalf("types = %v", got)
	}
}

func TestGenerateStripsTerminalControlFromServerText(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	r.Get("/api/v1/reports/monthly-usage", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"period": "\u001b]0;pwned\u0007",
			"data": [{"lab_name": "Lab\u001b[2J\u001b[31mA", "total_hours": 1, "utilization_rate": 1, "peak_day": "Mon\nday", "peak_hours": "10:00"}],
			"peak_hours": [{"time_slot": "\u001b[5m10:00", "utilization": 50}]
		}`))
	})
	r.Get("/api/v1/reports/instructor-usage", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "bad\u001b[2Jmonth"}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	client := httpapi.New(srv.URL, token("tok"), nil)
	uc := usecase.NewInteractor(service.NewReportService(reportout.NewHTTPSource(client), clock.SystemClock{}))

	out, err := uc.Generate(context.Background(), reportdto.ReportInput{Type: "monthly", Month: "2024-03"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	const control = "\x1b\a\n"
	if strings.ContainsAny(out.Title, control) || out.Title != "Monthly Lab Usage Report - ]0;pwned" {
		t.Fatalf("title = %q", out.Title)
	}
	if out.Rows[0][0] != "Lab[2J[31mA" || out.Rows[0][3] != "Mon day" {
		t.Fatalf("row = %q", out.Rows[0])
	}
	if len(out.Bars) != 1 || strings.ContainsAny(out.Bars[0].Label, control) {
		t.Fatalf("bars = %+v", out.Bars)
	}

	_, err = uc.Generate(context.Background(), reportdto.ReportInput{Type: "instructor", Month: "2024-03"})
	if err == nil || strings.ContainsAny(err.Error(), control) || !strings.Contains(err.Error(), "bad[2Jmonth") {
		t.Fatalf("err = %q", err)
	}
}
