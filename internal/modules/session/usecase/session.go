package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"labsched/internal/modules/session/domain"
	sessiondto "labsched/internal/modules/session/dto"
	sessionin "labsched/internal/modules/session/port/in"
	sessionout "labsched/internal/modules/session/port/out"
	"labsched/internal/modules/session/service"
	apperrors "labsched/internal/platform/errors"
)

// Interactor owns the current session and its two-state lifecycle. It is the
// only writer of both the in-memory session and the persisted keys.
type Interactor struct {
	svc      *service.SessionService
	store    sessionout.Store
	auth     sessionout.Authenticator
	notifier sessionout.Notifier
	logger   hclog.Logger

	mu        sync.Mutex
	current   *domain.Session
	listeners map[int]func(sessiondto.Event)
	nextID    int
}

func NewInteractor(
	svc *service.SessionService,
	store sessionout.Store,
	auth sessionout.Authenticator,
	notifier sessionout.Notifier,
	logger hclog.Logger,
) sessionin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{
		svc:       svc,
		store:     store,
		auth:      auth,
		notifier:  notifier,
		logger:    logger.Named("session"),
		listeners: map[int]func(sessiondto.Event){},
	}
}

func (i *Interactor) Start(ctx context.Context) (sessiondto.StateOutput, error) {
	stored, err := i.store.Load(ctx)
	if err != nil {
		return sessiondto.StateOutput{}, fmt.Errorf("load session: %w", err)
	}
	session, err := i.svc.Restore(stored)
	if err != nil {
		if errors.Is(err, apperrors.ErrSessionDataCorrupt) {
			i.logger.Warn("stored user data unreadable, showing login", "error", err)
		}
		i.leave(sessiondto.ReasonStart)
		return sessiondto.StateOutput{}, nil
	}
	out := i.enter(session, sessiondto.ReasonStart)
	return sessiondto.StateOutput{Authenticated: true, Session: out}, nil
}

func (i *Interactor) Login(ctx context.Context, input sessiondto.LoginInput) (sessiondto.StateOutput, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return sessiondto.StateOutput{}, fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	}
	session, err := i.auth.Login(ctx, input.Username, input.Password)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	stored, err := i.svc.Encode(session)
	if err != nil {
		return sessiondto.StateOutput{}, err
	}
	if err := i.store.Save(ctx, stored); err != nil {
		return sessiondto.StateOutput{}, fmt.Errorf("save session: %w", err)
	}
	out := i.enter(session, sessiondto.ReasonLogin)
	return sessiondto.StateOutput{Authenticated: true, Session: out}, nil
}

// Logout is idempotent; the informational alert is emitted every time.
func (i *Interactor) Logout(ctx context.Context) error {
	var clearErr error
	if err := i.store.Clear(ctx); err != nil {
		clearErr = fmt.Errorf("clear session: %w", err)
		i.logger.Error("clear persisted session", "error", err)
	}
	i.leave(sessiondto.ReasonLogout)
	if i.notifier != nil {
		i.notifier.Notify(ctx, "info", "Info", "You have been logged out")
	}
	return clearErr
}

func (i *Interactor) Current() (sessiondto.SessionOutput, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return sessiondto.SessionOutput{}, false
	}
	return i.output(*i.current), true
}

// Token implements the API client's token source.
func (i *Interactor) Token() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.current == nil {
		return ""
	}
	return i.current.Token
}

func (i *Interactor) Subscribe(fn func(sessiondto.Event)) func() {
	i.mu.Lock()
	defer i.mu.Unlock()
	id := i.nextID
	i.nextID++
	i.listeners[id] = fn
	return func() {
		i.mu.Lock()
		delete(i.listeners, id)
		i.mu.Unlock()
	}
}

// enter recomputes visibility from the role on every entry.
func (i *Interactor) enter(session domain.Session, reason string) sessiondto.SessionOutput {
	i.mu.Lock()
	i.current = &session
	out := i.output(session)
	listeners := i.snapshotListeners()
	i.mu.Unlock()

	i.logger.Info("session authenticated", "reason", reason, "role", session.User.Role)
	i.publish(listeners, sessiondto.Event{Authenticated: true, Reason: reason, Session: out})
	return out
}

func (i *Interactor) leave(reason string) {
	i.mu.Lock()
	i.current = nil
	listeners := i.snapshotListeners()
	i.mu.Unlock()

	i.logger.Info("session unauthenticated", "reason", reason)
	i.publish(listeners, sessiondto.Event{Authenticated: false, Reason: reason})
}

func (i *Interactor) snapshotListeners() []func(sessiondto.Event) {
	out := make([]func(sessiondto.Event), 0, len(i.listeners))
	for id := 0; id < i.nextID; id++ {
		if fn, ok := i.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (i *Interactor) publish(listeners []func(sessiondto.Event), ev sessiondto.Event) {
	for _, fn := range listeners {
		fn(ev)
	}
}

func (i *Interactor) output(session domain.Session) sessiondto.SessionOutput {
	vis := i.svc.Visibility(session.User.Role)
	out := sessiondto.SessionOutput{
		Username:    session.User.Username,
		FullName:    session.User.FullName,
		Role:        string(session.User.Role),
		DisplayRole: session.User.DisplayRole(),
		Initial:     session.User.Initial(),
		Visibility: sessiondto.VisibilityOutput{
			Reservation: vis.Reservation,
			Approvals:   vis.Approvals,
			Reports:     vis.Reports,
		},
	}
	if exp, ok := i.svc.TokenExpiry(session.Token); ok {
		out.ExpiresAt = exp
	}
	return out
}
