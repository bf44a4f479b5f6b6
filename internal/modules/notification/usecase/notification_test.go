package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"labsched/internal/modules/notification/domain"
	notificationdto "labsched/internal/modules/notification/dto"
	notificationin "labsched/internal/modules/notification/port/in"
	"labsched/internal/modules/notification/service"
	"labsched/internal/modules/notification/usecase"
	"labsched/internal/platform/clock"
)

type fakeFeed struct {
	mu      sync.Mutex
	records []domain.Record
	err     error
	marked  []domain.ID
	calls   int
}

func (f *fakeFeed) ListUnread(context.Context) ([]domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Record(nil), f.records...), nil
}

func (f *fakeFeed) MarkRead(_ context.Context, id domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.marked = append(f.marked, id)
	return nil
}

type shown struct {
	alert domain.Alert
	local bool
}

type fakeSink struct {
	mu    sync.Mutex
	shown []shown
}

func (s *fakeSink) Show(alert domain.Alert, local bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, shown{alert, local})
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shown)
}

type probe bool

func (p probe) Authenticated() bool { return bool(p) }

type seqIDs struct{ n int }

func (s *seqIDs) New() string {
	s.n++
	return strings.Repeat("x", s.n)
}

var now = time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

func newUsecase(feed *fakeFeed, sink *fakeSink, authed bool) notificationin.Usecase {
	svc := service.NewNotificationService(feed, sink, clock.Fixed{At: now}, &seqIDs{}, nil)
	return usecase.NewInteractor(svc, probe(authed))
}

func TestCheckAlertsEachIDOnce(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{
		{ID: "7", Title: "Approved", Message: "Lab A", NotificationType: "reservation_approved"},
	}}
	sink := &fakeSink{}
	svc := service.NewNotificationService(feed, sink, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	first, err := uc.Check(context.Background())
	if err != nil {
		t.Fatalf("first check: %v", err)
	}
	second, err := uc.Check(context.Background())
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if first.Alerted != 1 || second.Alerted != 0 || second.Fetched != 1 {
		t.Fatalf("unexpected check outputs %+v %+v", first, second)
	}
	if sink.count() != 1 {
		t.Fatalf("expected one rendered alert, got %d", sink.count())
	}
	got := sink.shown[0]
	if got.alert.Severity != domain.SeveritySuccess || got.local {
		t.Fatalf("unexpected alert %+v", got)
	}

	feed.records = append(feed.records, domain.Record{ID: "8", Title: "Declined", NotificationType: "reservation_declined"})
	third, _ := uc.Check(context.Background())
	if third.Alerted != 1 || third.SeenSize != 2 {
		t.Fatalf("new id should alert once more: %+v", third)
	}
	if sink.shown[1].alert.Severity != domain.SeverityError {
		t.Fatalf("declined should render as error, got %s", sink.shown[1].alert.Severity)
	}
}

func TestCheckSkipsWithoutSession(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{{ID: "1"}}}
	sink := &fakeSink{}
	uc := newUsecase(feed, sink, false)

	out, err := uc.Check(context.Background())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !out.Skipped || feed.calls != 0 || sink.count() != 0 {
		t.Fatalf("unauthenticated check must not reach the feed: %+v calls=%d", out, feed.calls)
	}
}

func TestCheckFailureRendersNothing(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{err: errors.New("boom")}
	sink := &fakeSink{}
	uc := newUsecase(feed, sink, true)

	if _, err := uc.Check(context.Background()); err == nil {
		t.Fatalf("expected feed error to be returned")
	}
	if sink.count() != 0 {
		t.Fatalf("failed poll must not alert")
	}
}

func TestResetSeenAllowsRealert(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{{ID: "1", Title: "t"}}}
	sink := &fakeSink{}
	svc := service.NewNotificationService(feed, sink, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	_, _ = uc.Check(context.Background())
	uc.ResetSeen()
	_, _ = uc.Check(context.Background())
	if sink.count() != 2 {
		t.Fatalf("expected alert after reset, got %d", sink.count())
	}
}

func TestShowManualDefaults(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{}
	sink := &fakeSink{}
	svc := service.NewNotificationService(feed, sink, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	out := uc.ShowManual(context.Background(), notificationdto.ManualInput{Message: "hello"})
	if out.Severity != "info" || out.Title != "Info" || out.Color != "#3498db" || !out.Local {
		t.Fatalf("unexpected defaults %+v", out)
	}
	if !strings.HasPrefix(out.ID, "local-") || !out.CreatedAt.Equal(now) {
		t.Fatalf("manual alert id/time wrong: %+v", out)
	}

	errOut := uc.ShowManual(context.Background(), notificationdto.ManualInput{Title: "Error", Message: "HTTP error! status: 500", Severity: "error"})
	if errOut.Color != "#e74c3c" {
		t.Fatalf("error color = %s", errOut.Color)
	}
	if svc.SeenCount() != 0 {
		t.Fatalf("manual alerts must not enter the seen set")
	}
	if sink.count() != 2 || !sink.shown[0].local {
		t.Fatalf("manual alerts should render locally: %+v", sink.shown)
	}
}

func TestShowManualTitleFromMultibyteSeverity(t *testing.T) {
	t.Parallel()
	svc := service.NewNotificationService(&fakeFeed{}, &fakeSink{}, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	out := uc.ShowManual(context.Background(), notificationdto.ManualInput{Message: "hi", Severity: "élevé"})
	if out.Title != "Élevé" || !utf8.ValidString(out.Title) {
		t.Fatalf("title = %q", out.Title)
	}
}

func TestGetUnreadCountDegradesToZero(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{{ID: "1"}, {ID: "2"}}}
	svc := service.NewNotificationService(feed, &fakeSink{}, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	if got := uc.GetUnreadCount(context.Background()); got != 2 {
		t.Fatalf("count = %d, want 2", got)
	}
	feed.err = errors.New("network down")
	if got := uc.GetUnreadCount(context.Background()); got != 0 {
		t.Fatalf("count on failure = %d, want 0", got)
	}
	if err := uc.MarkAsRead(context.Background(), "1"); err == nil {
		t.Fatalf("mark-as-read should surface the error to the caller")
	}
}

func TestListUnreadSanitizesAndMaps(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{
		{ID: "3", Title: "Sys\x1b[31m", Message: "line1\nline2", NotificationType: "system_alert"},
	}}
	svc := service.NewNotificationService(feed, &fakeSink{}, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	list, err := uc.ListUnread(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Severity != "warning" || strings.ContainsRune(list[0].Title, 0x1b) {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].Message != "line1\nline2" {
		t.Fatalf("newline must survive sanitizing: %q", list[0].Message)
	}
	if err := uc.MarkAsRead(context.Background(), "3"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if len(feed.marked) != 1 || feed.marked[0] != "3" {
		t.Fatalf("marked = %+v", feed.marked)
	}
}

func TestPollStopsWithContext(t *testing.T) {
	t.Parallel()
	feed := &fakeFeed{records: []domain.Record{{ID: "1"}}}
	sink := &fakeSink{}
	svc := service.NewNotificationService(feed, sink, clock.Fixed{At: now}, &seqIDs{}, nil)
	uc := usecase.NewInteractor(svc, probe(true))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		uc.Poll(ctx, 5*time.Millisecond)
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("poll did not stop after cancel")
	}
	if sink.count() != 1 {
		t.Fatalf("expected exactly one alert across ticks, got %d", sink.count())
	}
}
