package service

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"labsched/internal/modules/notification/domain"
	notificationout "labsched/internal/modules/notification/port/out"
	"labsched/internal/platform/clock"
	"labsched/internal/platform/id"
)

type NotificationService struct {
	feed   notificationout.Feed
	sink   notificationout.Sink
	seen   *domain.SeenSet
	clock  clock.Clock
	ids    id.Generator
	logger hclog.Logger
}

func NewNotificationService(feed notificationout.Feed, sink notificationout.Sink, clk clock.Clock, ids id.Generator, logger hclog.Logger) *NotificationService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &NotificationService{
		feed:   feed,
		sink:   sink,
		seen:   domain.NewSeenSet(),
		clock:  clk,
		ids:    ids,
		logger: logger.Named("notification"),
	}
}

// AlertUnseen fetches unread records and renders those whose id has not been
// alerted yet. It returns the fetched count and the alerted count.
func (s *NotificationService) AlertUnseen(ctx context.Context) (int, int, error) {
	records, err := s.feed.ListUnread(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list unread: %w", err)
	}
	alerted := 0
	for _, r := range records {
		if !s.seen.MarkNew(r.ID) {
			continue
		}
		s.sink.Show(domain.AlertFor(r), false)
		alerted++
	}
	return len(records), alerted, nil
}

// Manual renders a locally generated record through the same path as server
// records. Manual ids never enter the seen-set.
func (s *NotificationService) Manual(title, message, severity string) domain.Alert {
	record := domain.Record{
		ID:               domain.ID("local-" + s.ids.New()),
		Title:            title,
		Message:          message,
		NotificationType: severity,
		CreatedAt:        domain.Timestamp{Time: s.clock.Now()},
	}
	alert := domain.AlertFor(record)
	s.sink.Show(alert, true)
	return alert
}

func (s *NotificationService) Unread(ctx context.Context) ([]domain.Record, error) {
	return s.feed.ListUnread(ctx)
}

func (s *NotificationService) MarkRead(ctx context.Context, id domain.ID) error {
	return s.feed.MarkRead(ctx, id)
}

func (s *NotificationService) SeenCount() int {
	return s.seen.Len()
}

func (s *NotificationService) ResetSeen() {
	s.seen.Reset()
}

func (s *NotificationService) Logger() hclog.Logger {
	return s.logger
}
