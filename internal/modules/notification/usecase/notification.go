package usecase

import (
	"context"
	"strings"
	"time"

	"labsched/internal/modules/notification/domain"
	notificationdto "labsched/internal/modules/notification/dto"
	notificationin "labsched/internal/modules/notification/port/in"
	notificationout "labsched/internal/modules/notification/port/out"
	"labsched/internal/modules/notification/service"
	"labsched/internal/platform/text"
)

type Interactor struct {
	svc     *service.NotificationService
	session notificationout.SessionProbe
}

func NewInteractor(svc *service.NotificationService, session notificationout.SessionProbe) notificationin.Usecase {
	return &Interactor{svc: svc, session: session}
}

func (i *Interactor) Check(ctx context.Context) (notificationdto.CheckOutput, error) {
	if i.session == nil || !i.session.Authenticated() {
		return notificationdto.CheckOutput{Skipped: true, SeenSize: i.svc.SeenCount()}, nil
	}
	fetched, alerted, err := i.svc.AlertUnseen(ctx)
	if err != nil {
		i.svc.Logger().Warn("notification check failed", "error", err)
		return notificationdto.CheckOutput{SeenSize: i.svc.SeenCount()}, err
	}
	return notificationdto.CheckOutput{Fetched: fetched, Alerted: alerted, SeenSize: i.svc.SeenCount()}, nil
}

// Poll uses a fixed-period ticker; a slow check delays nothing but itself
// because ticks that arrive while it runs are dropped by the ticker.
func (i *Interactor) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = i.Check(ctx)
		}
	}
}

func (i *Interactor) ShowManual(_ context.Context, input notificationdto.ManualInput) notificationdto.AlertOutput {
	severity := input.Severity
	if strings.TrimSpace(severity) == "" {
		severity = string(domain.SeverityInfo)
	}
	title := input.Title
	if title == "" {
		title = text.Capitalize(severity)
	}
	return alertOutput(i.svc.Manual(title, input.Message, severity), true)
}

func (i *Interactor) ListUnread(ctx context.Context) ([]notificationdto.NotificationOutput, error) {
	records, err := i.svc.Unread(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]notificationdto.NotificationOutput, 0, len(records))
	for _, r := range records {
		out = append(out, notificationdto.NotificationOutput{
			ID:               string(r.ID),
			Title:            domain.Sanitize(r.Title),
			Message:          domain.Sanitize(r.Message),
			NotificationType: r.NotificationType,
			Severity:         string(domain.SeverityFor(r.NotificationType)),
			CreatedAt:        r.CreatedAt.Time,
		})
	}
	return out, nil
}

// MarkAsRead logs failures and returns them to the caller, which may ignore
// them; nothing is alerted.
func (i *Interactor) MarkAsRead(ctx context.Context, id string) error {
	if err := i.svc.MarkRead(ctx, domain.ID(id)); err != nil {
		i.svc.Logger().Warn("mark notification read failed", "id", id, "error", err)
		return err
	}
	return nil
}

// GetUnreadCount degrades to zero on any failure.
func (i *Interactor) GetUnreadCount(ctx context.Context) int {
	records, err := i.svc.Unread(ctx)
	if err != nil {
		i.svc.Logger().Warn("unread count failed", "error", err)
		return 0
	}
	return len(records)
}

func (i *Interactor) ResetSeen() {
	i.svc.ResetSeen()
}

func alertOutput(a domain.Alert, local bool) notificationdto.AlertOutput {
	return notificationdto.AlertOutput{
		ID:        string(a.ID),
		Title:     a.Title,
		Message:   a.Message,
		Severity:  string(a.Severity),
		Color:     a.Severity.Color(),
		CreatedAt: a.CreatedAt,
		Local:     local,
	}
}
