package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-hclog"

	notificationinadapter "labsched/internal/modules/notification/adapter/in"
	notificationoutadapter "labsched/internal/modules/notification/adapter/out"
	notificationdto "labsched/internal/modules/notification/dto"
	notificationout "labsched/internal/modules/notification/port/out"
	notificationservice "labsched/internal/modules/notification/service"
	notificationusecase "labsched/internal/modules/notification/usecase"
	reportinadapter "labsched/internal/modules/report/adapter/in"
	reportoutadapter "labsched/internal/modules/report/adapter/out"
	reportservice "labsched/internal/modules/report/service"
	reportusecase "labsched/internal/modules/report/usecase"
	schedulinginadapter "labsched/internal/modules/scheduling/adapter/in"
	schedulingoutadapter "labsched/internal/modules/scheduling/adapter/out"
	schedulingservice "labsched/internal/modules/scheduling/service"
	schedulingusecase "labsched/internal/modules/scheduling/usecase"
	sessioninadapter "labsched/internal/modules/session/adapter/in"
	sessionoutadapter "labsched/internal/modules/session/adapter/out"
	sessiondto "labsched/internal/modules/session/dto"
	sessionin "labsched/internal/modules/session/port/in"
	sessionservice "labsched/internal/modules/session/service"
	sessionusecase "labsched/internal/modules/session/usecase"
	"labsched/internal/platform/clock"
	"labsched/internal/platform/config"
	"labsched/internal/platform/httpapi"
	"labsched/internal/platform/id"
	"labsched/internal/platform/logging"
	uiapp "labsched/internal/ui/app"
)

const (
	alertBuffer = 64
	eventBuffer = 16
)

type App struct {
	Config          config.Config
	Logger          hclog.Logger
	SessionCLI      sessioninadapter.CLIHandler
	NotificationCLI notificationinadapter.CLIHandler
	ReportCLI       reportinadapter.CLIHandler
	SchedulingCLI   schedulinginadapter.CLIHandler

	alerts  *notificationoutadapter.ChannelSink
	closers []io.Closer
}

// Options adjust the wiring for tests and the CLI.
type Options struct {
	// AlertWriter receives one line per alert. When nil alerts are buffered
	// for the TUI instead.
	AlertWriter io.Writer
	// Logger replaces the file logger.
	Logger hclog.Logger
	// HTTP options for the API client.
	HTTP []httpapi.Option
}

// tokenSource defers to the session once it exists; the API client is needed
// to build the session's authenticator.
type tokenSource struct{ session *sessionin.Usecase }

func (t tokenSource) Token() string {
	if *t.session == nil {
		return ""
	}
	return (*t.session).Token()
}

func New(cfg config.Config, opts Options) (*App, error) {
	app := &App{Config: cfg}

	logger := opts.Logger
	if logger == nil {
		l, closer, err := logging.Open(cfg.LogPath, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		logger = l
		app.closers = append(app.closers, closer)
	}
	app.Logger = logger

	store, err := sessionoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new session store: %w", err)
	}
	app.closers = append(app.closers, store)

	var sessionUC sessionin.Usecase
	client := httpapi.New(cfg.APIURL, tokenSource{session: &sessionUC}, logger, opts.HTTP...)

	notifier := sessionoutadapter.NewNotificationNotifier()
	sessionUC = sessionusecase.NewInteractor(
		sessionservice.NewSessionService(),
		store,
		sessionoutadapter.NewHTTPAuthenticator(client),
		notifier,
		logger,
	)

	var sink notificationout.Sink
	if opts.AlertWriter != nil {
		sink = notificationoutadapter.NewWriterSink(opts.AlertWriter)
	} else {
		app.alerts = notificationoutadapter.NewChannelSink(alertBuffer, logger)
		sink = app.alerts
	}
	notificationUC := notificationusecase.NewInteractor(
		notificationservice.NewNotificationService(
			notificationoutadapter.NewHTTPFeed(client),
			sink,
			clock.SystemClock{},
			id.UUID{},
			logger,
		),
		notificationoutadapter.NewSessionProbeAdapter(sessionUC),
	)
	notifier.Bind(notificationUC)

	client.SetHooks(httpapi.Hooks{
		OnUnauthorized: func(ctx context.Context) {
			_ = sessionUC.Logout(ctx)
		},
		OnFailure: func(ctx context.Context, err error) {
			notificationUC.ShowManual(ctx, notificationdto.ManualInput{Title: "Error", Message: err.Error(), Severity: "error"})
		},
	})
	sessionUC.Subscribe(func(ev sessiondto.Event) {
		if !ev.Authenticated {
			notificationUC.ResetSeen()
		}
	})

	reportUC := reportusecase.NewInteractor(reportservice.NewReportService(
		reportoutadapter.NewHTTPSource(client),
		clock.SystemClock{},
	))
	schedulingUC := schedulingusecase.NewInteractor(schedulingservice.NewSchedulingService(
		schedulingoutadapter.NewHTTPGateway(client),
		logger,
	))

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.NotificationCLI = notificationinadapter.NewCLIHandler(notificationUC)
	app.ReportCLI = reportinadapter.NewCLIHandler(reportUC)
	app.SchedulingCLI = schedulinginadapter.NewCLIHandler(schedulingUC)
	return app, nil
}

// Alerts is the TUI alert stream; nil when alerts go to a writer.
func (a *App) Alerts() <-chan notificationdto.AlertOutput {
	if a.alerts == nil {
		return nil
	}
	return a.alerts.Alerts()
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewTUIModel builds the root model wired to this app's session events and
// alert stream. The returned function stops the event subscription.
func NewTUIModel(app *App) (uiapp.Model, func()) {
	events := make(chan sessiondto.Event, eventBuffer)
	unsubscribe := app.SessionCLI.Subscribe(func(ev sessiondto.Event) {
		select {
		case events <- ev:
		default:
			app.Logger.Warn("session event buffer full, dropping event", "reason", ev.Reason)
		}
	})

	opts := uiapp.Options{
		PollInterval:        app.Config.PollInterval,
		AlertTTL:            app.Config.AlertTTL,
		AlertExit:           app.Config.AlertExit,
		StopPollingOnLogout: app.Config.StopPollingOnLogout,
		Events:              events,
		Logger:              app.Logger,
	}
	if alerts := app.Alerts(); alerts != nil {
		opts.Alerts = alerts
	}
	model := uiapp.NewModel(uiapp.Ports{
		Session:       app.SessionCLI,
		Notifications: app.NotificationCLI,
		Scheduling:    app.SchedulingCLI,
		Reports:       app.ReportCLI,
	}, opts)
	return model, unsubscribe
}

func RunTUI(app *App) error {
	model, stop := NewTUIModel(app)
	defer stop()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}
