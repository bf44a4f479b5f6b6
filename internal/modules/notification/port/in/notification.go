package in

import (
	"context"
	"time"

	"labsched/internal/modules/notification/dto"
)

type Usecase interface {
	// Check fetches unread notifications and alerts on ids not seen before.
	Check(ctx context.Context) (dto.CheckOutput, error)
	// Poll runs Check every interval until ctx ends. Failures are logged.
	Poll(ctx context.Context, interval time.Duration)
	ShowManual(ctx context.Context, input dto.ManualInput) dto.AlertOutput
	ListUnread(ctx context.Context) ([]dto.NotificationOutput, error)
	MarkAsRead(ctx context.Context, id string) error
	GetUnreadCount(ctx context.Context) int
	// ResetSeen forgets alerted ids; called when a session ends.
	ResetSeen()
}
