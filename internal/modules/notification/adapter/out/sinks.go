package out

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-hclog"

	"labsched/internal/modules/notification/domain"
	notificationdto "labsched/internal/modules/notification/dto"
	notificationout "labsched/internal/modules/notification/port/out"
)

func toOutput(a domain.Alert, local bool) notificationdto.AlertOutput {
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

// ChannelSink hands alerts to the TUI event loop. When the buffer is full the
// alert is dropped and logged rather than blocking an API call.
type ChannelSink struct {
	ch     chan notificationdto.AlertOutput
	logger hclog.Logger
}

func NewChannelSink(buffer int, logger hclog.Logger) *ChannelSink {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ChannelSink{ch: make(chan notificationdto.AlertOutput, buffer), logger: logger.Named("alerts")}
}

var _ notificationout.Sink = (*ChannelSink)(nil)

func (s *ChannelSink) Show(alert domain.Alert, local bool) {
	select {
	case s.ch <- toOutput(alert, local):
	default:
		s.logger.Warn("alert buffer full, dropping alert", "id", alert.ID, "title", alert.Title)
	}
}

func (s *ChannelSink) Alerts() <-chan notificationdto.AlertOutput {
	return s.ch
}

// WriterSink prints one coloured line per alert; used by the CLI.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

var _ notificationout.Sink = (*WriterSink)(nil)

func (s *WriterSink) Show(alert domain.Alert, _ bool) {
	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color(alert.Severity.Color())).
		Bold(true).
		Render("[" + string(alert.Severity) + "]")
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s %s: %s\n", badge, alert.Title, alert.Message)
}
