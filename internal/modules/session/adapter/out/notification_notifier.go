package out

import (
	"context"
	"sync/atomic"

	notificationdto "labsched/internal/modules/notification/dto"
	notificationin "labsched/internal/modules/notification/port/in"
	sessionout "labsched/internal/modules/session/port/out"
)

// NotificationNotifier forwards session alerts to the notification center.
// The center itself depends on the session, so it is bound after both exist.
type NotificationNotifier struct {
	notifications atomic.Pointer[notificationin.Usecase]
}

func NewNotificationNotifier() *NotificationNotifier {
	return &NotificationNotifier{}
}

var _ sessionout.Notifier = (*NotificationNotifier)(nil)

func (n *NotificationNotifier) Bind(notifications notificationin.Usecase) {
	n.notifications.Store(&notifications)
}

func (n *NotificationNotifier) Notify(ctx context.Context, severity, title, message string) {
	uc := n.notifications.Load()
	if uc == nil {
		return
	}
	(*uc).ShowManual(ctx, notificationdto.ManualInput{Title: title, Message: message, Severity: severity})
}
