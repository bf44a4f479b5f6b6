package in

import (
	"context"
	"time"

	notificationdto "labsched/internal/modules/notification/dto"
	notificationin "labsched/internal/modules/notification/port/in"
)

type CLIHandler struct {
	usecase notificationin.Usecase
}

func NewCLIHandler(usecase notificationin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Check(ctx context.Context) (notificationdto.CheckOutput, error) {
	return h.usecase.Check(ctx)
}

func (h CLIHandler) Watch(ctx context.Context, interval time.Duration) {
	h.usecase.Poll(ctx, interval)
}

func (h CLIHandler) ShowManual(ctx context.Context, title, message, severity string) notificationdto.AlertOutput {
	return h.usecase.ShowManual(ctx, notificationdto.ManualInput{Title: title, Message: message, Severity: severity})
}

func (h CLIHandler) ListUnread(ctx context.Context) ([]notificationdto.NotificationOutput, error) {
	return h.usecase.ListUnread(ctx)
}

func (h CLIHandler) MarkAsRead(ctx context.Context, id string) error {
	return h.usecase.MarkAsRead(ctx, id)
}

func (h CLIHandler) GetUnreadCount(ctx context.Context) int {
	return h.usecase.GetUnreadCount(ctx)
}

func (h CLIHandler) ResetSeen() {
	h.usecase.ResetSeen()
}
