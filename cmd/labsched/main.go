package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"labsched/internal/bootstrap"
	reportdto "labsched/internal/modules/report/dto"
	schedulingdto "labsched/internal/modules/scheduling/dto"
	"labsched/internal/platform/config"
	"labsched/internal/platform/markdown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{dataDir: defaultDataDir()}

	root := &cobra.Command{
		Use:           "labsched",
		Short:         "Lab scheduling client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", flags.dataDir, "directory for the session store, log and config.yaml")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (defaults to <data-dir>/config.yaml)")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newLoginCmd(flags))
	root.AddCommand(newLogoutCmd(flags))
	root.AddCommand(newWhoamiCmd(flags))
	root.AddCommand(newDashboardCmd(flags))
	root.AddCommand(newNotificationsCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newLabsCmd(flags))
	root.AddCommand(newCoursesCmd(flags))
	root.AddCommand(newReservationsCmd(flags))
	return root
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "labsched")
	}
	return ".labsched"
}

// loadApp wires the application and restores the persisted session. Alerts
// are printed to the command's stderr.
func loadApp(cmd *cobra.Command, flags *rootFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir, flags.configPath)
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(cfg, bootstrap.Options{AlertWriter: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	if _, err := app.SessionCLI.Start(cmd.Context()); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// withApp runs fn against a loaded app and closes it afterwards.
func withApp(flags *rootFlags, fn func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd, flags)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()
		return fn(cmd, args, app)
	}
}

// requireSession fails fast when no session was restored.
func requireSession(app *bootstrap.App) error {
	if _, ok := app.SessionCLI.Current(); !ok {
		return fmt.Errorf("not logged in: run `labsched login` first")
	}
	return nil
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.dataDir, flags.configPath)
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}

func newLoginCmd(flags *rootFlags) *cobra.Command {
	var username, password string
	login := &cobra.Command{
		Use:   "login --username <name>",
		Short: "Sign in and persist the session",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if password == "" {
				password = os.Getenv("LABSCHED_PASSWORD")
			}
			out, err := app.SessionCLI.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			s := out.Session
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s (%s)\n", s.FullName, s.DisplayRole)
			return nil
		}),
	}
	login.Flags().StringVar(&username, "username", "", "account name")
	login.Flags().StringVar(&password, "password", "", "password (defaults to $LABSCHED_PASSWORD)")
	return login
}

func newLogoutCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			return app.SessionCLI.Logout(cmd.Context())
		}),
	}
}

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			s, ok := app.SessionCLI.Current()
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
				return nil
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "username: %s\nname: %s\nrole: %s\n", s.Username, s.FullName, s.DisplayRole)
			if !s.ExpiresAt.IsZero() {
				_, _ = fmt.Fprintf(w, "expires: %s\n", s.ExpiresAt.Format("2006-01-02 15:04"))
			}
			_, _ = fmt.Fprintf(w, "tabs: %s\n", strings.Join(visibleTabs(s.Visibility.Reservation, s.Visibility.Approvals, s.Visibility.Reports), ", "))
			return nil
		}),
	}
}

func visibleTabs(reservation, approvals, reports bool) []string {
	tabs := []string{"dashboard", "schedule"}
	if reservation {
		tabs = append(tabs, "reservation")
	}
	if approvals {
		tabs = append(tabs, "approvals")
	}
	if reports {
		tabs = append(tabs, "reports")
	}
	return tabs
}

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show dashboard statistics",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			s, err := app.SchedulingCLI.Dashboard(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "labs: %d\nsessions: %d\npending: %d\nusers: %d\nunread: %d\n",
				s.TotalLabs, s.TotalSessions, s.PendingRequests, s.TotalUsers,
				app.NotificationCLI.GetUnreadCount(cmd.Context()))
			return nil
		}),
	}
}

func newNotificationsCmd(flags *rootFlags) *cobra.Command {
	notifications := &cobra.Command{Use: "notifications", Short: "Unread notifications"}

	notifications.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List unread notifications",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			items, err := app.NotificationCLI.ListUnread(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no unread notifications")
				return nil
			}
			for _, n := range items {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", n.ID, n.Severity, n.Title, n.Message)
			}
			return nil
		}),
	})

	notifications.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			if err := app.NotificationCLI.MarkAsRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "marked %s as read\n", args[0])
			return nil
		}),
	})

	notifications.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the unread count",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), app.NotificationCLI.GetUnreadCount(cmd.Context()))
			return nil
		}),
	})

	notifications.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Alert on unread notifications once",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			out, err := app.NotificationCLI.Check(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, alerted %d\n", out.Fetched, out.Alerted)
			return nil
		}),
	})

	notifications.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Poll for notifications until interrupted",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "watching every %s, ctrl+c to stop\n", app.Config.PollInterval)
			app.NotificationCLI.Watch(ctx, app.Config.PollInterval)
			return nil
		}),
	})
	return notifications
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Usage reports"}

	var month string
	var plain bool
	for _, reportType := range []string{"monthly", "instructor", "peak-hours"} {
		report.AddCommand(&cobra.Command{
			Use:   reportType,
			Short: "Generate the " + reportType + " report",
			RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
				if err := requireSession(app); err != nil {
					return err
				}
				out, err := app.ReportCLI.Generate(cmd.Context(), reportType, month)
				if err != nil {
					return err
				}
				return printReport(cmd.OutOrStdout(), out, plain)
			}),
		})
	}
	report.PersistentFlags().StringVar(&month, "month", "", "month as YYYY-MM (defaults to the current month)")
	report.PersistentFlags().BoolVar(&plain, "plain", false, "print markdown source instead of rendering it")
	return report
}

func reportMarkdown(out reportdto.ReportOutput) string {
	doc := &markdown.Document{}
	doc.Heading(2, markdown.Escape(out.Title))
	headers := make([]string, len(out.Columns))
	for i, c := range out.Columns {
		headers[i] = markdown.Escape(c)
	}
	rows := make([][]string, len(out.Rows))
	for i, r := range out.Rows {
		cells := make([]string, len(r))
		for j, c := range r {
			cells[j] = markdown.Escape(c)
		}
		rows[i] = cells
	}
	doc.Table(headers, rows)
	return doc.String()
}

func printReport(w io.Writer, out reportdto.ReportOutput, plain bool) error {
	doc := reportMarkdown(out)
	if plain {
		_, err := fmt.Fprint(w, doc)
		return err
	}
	renderer, err := markdown.NewRenderer(100)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, renderer.Render(doc))
	return err
}

func newLabsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "labs",
		Short: "List labs",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			labs, err := app.SchedulingCLI.Labs(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range labs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tcapacity=%d\t%s\n", l.ID, l.Name, l.Capacity, l.Equipment)
			}
			return nil
		}),
	}
}

func newCoursesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "courses",
		Short: "List courses",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			courses, err := app.SchedulingCLI.Courses(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range courses {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tcredits=%d\n", c.ID, c.Label, c.Credits)
			}
			return nil
		}),
	}
}

func newReservationsCmd(flags *rootFlags) *cobra.Command {
	reservations := &cobra.Command{Use: "reservations", Short: "Lab reservations"}

	printList := func(w io.Writer, items []schedulingdto.ReservationOutput) {
		if len(items) == 0 {
			_, _ = fmt.Fprintln(w, "no reservations")
			return
		}
		for _, r := range items {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s → %s\t%s\n", r.ID, r.Status, r.LabName, r.CourseName, r.StartTime, r.EndTime, r.InstructorName)
		}
	}

	reservations.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all reservations",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			items, err := app.SchedulingCLI.Reservations(cmd.Context())
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), items)
			return nil
		}),
	})

	reservations.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List reservations awaiting a decision",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			items, err := app.SchedulingCLI.Pending(cmd.Context())
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), items)
			return nil
		}),
	})

	var input schedulingdto.ReservationInput
	create := &cobra.Command{
		Use:   "create --lab <id> --course <id> --start <time> --end <time>",
		Short: "Request a reservation",
		RunE: withApp(flags, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			if err := requireSession(app); err != nil {
				return err
			}
			out, err := app.SchedulingCLI.Reserve(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (id=%d)\n", out.Message, out.ReservationID)
			return nil
		}),
	}
	create.Flags().IntVar(&input.LabID, "lab", 0, "lab id")
	create.Flags().IntVar(&input.CourseID, "course", 0, "course id")
	create.Flags().StringVar(&input.Section, "section", "", "course section")
	create.Flags().StringVar(&input.StartTime, "start", "", "start as YYYY-MM-DDTHH:MM")
	create.Flags().StringVar(&input.EndTime, "end", "", "end as YYYY-MM-DDTHH:MM")
	create.Flags().IntVar(&input.Duration, "duration", 0, "duration in minutes (derived when 0)")
	create.Flags().StringVar(&input.Notes, "notes", "", "notes for the approver")
	reservations.AddCommand(create)

	for _, decision := range []string{"approve", "decline"} {
		reservations.AddCommand(&cobra.Command{
			Use:   decision + " <id>",
			Short: strings.ToUpper(decision[:1]) + decision[1:] + " a pending reservation",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(flags, func(cmd *cobra.Command, args []string, app *bootstrap.App) error {
				if err := requireSession(app); err != nil {
					return err
				}
				id, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid reservation id %q", args[0])
				}
				decide := app.SchedulingCLI.Approve
				if decision == "decline" {
					decide = app.SchedulingCLI.Decline
				}
				out, err := decide(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reservation %d %s: %s\n", out.ReservationID, out.Status, out.Message)
				return nil
			}),
		})
	}
	return reservations
}
