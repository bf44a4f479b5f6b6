package out

import (
	"context"

	"labsched/internal/modules/session/domain"
)

// Store is the persisted key-value session storage.
type Store interface {
	Load(ctx context.Context) (domain.Stored, error)
	Save(ctx context.Context, stored domain.Stored) error
	Clear(ctx context.Context) error
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
}

// Notifier surfaces a transient alert without a round trip.
type Notifier interface {
	Notify(ctx context.Context, severity, title, message string)
}
