package out

import (
	"context"

	"labsched/internal/modules/notification/domain"
)

type Feed interface {
	ListUnread(ctx context.Context) ([]domain.Record, error)
	MarkRead(ctx context.Context, id domain.ID) error
}

// Sink renders an alert. Implementations must not block.
type Sink interface {
	Show(alert domain.Alert, local bool)
}

// SessionProbe reports whether a user is logged in.
type SessionProbe interface {
	Authenticated() bool
}
