package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"labsched/internal/platform/text"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

var typeSeverity = map[string]Severity{
	"reservation_approved": SeveritySuccess,
	"reservation_declined": SeverityError,
	"reservation_pending":  SeverityInfo,
	"schedule_update":      SeverityInfo,
	"system_alert":         SeverityWarning,
	"success":              SeveritySuccess,
	"error":                SeverityError,
	"warning":              SeverityWarning,
	"info":                 SeverityInfo,
}

// SeverityFor maps a server notification_type (or a severity name used by
// manual alerts) to a severity. Unknown types are info.
func SeverityFor(notificationType string) Severity {
	if s, ok := typeSeverity[strings.ToLower(strings.TrimSpace(notificationType))]; ok {
		return s
	}
	return SeverityInfo
}

var severityColor = map[Severity]string{
	SeveritySuccess: "#2ecc71",
	SeverityError:   "#e74c3c",
	SeverityWarning: "#f39c12",
	SeverityInfo:    "#3498db",
}

// Color is the alert accent: green, red, orange, blue.
func (s Severity) Color() string {
	if c, ok := severityColor[s]; ok {
		return c
	}
	return severityColor[SeverityInfo]
}

// ID accepts both the backend's integer ids and string ids of local alerts.
type ID string

func (id *ID) UnmarshalJSON(raw []byte) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("notification id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// Timestamp parses the backend's naive ISO timestamps as well as RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unsupported format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

type Record struct {
	ID               ID        `json:"id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	NotificationType string    `json:"notification_type"`
	CreatedAt        Timestamp `json:"created_at"`
}

// RecordList is the GET /notifications/ response schema.
type RecordList []Record

func (l *RecordList) Validate() error {
	for idx, r := range *l {
		if r.ID == "" {
			return fmt.Errorf("notification %d has no id", idx)
		}
	}
	return nil
}

// Alert is what gets rendered. Text is stripped of control characters so a
// server string can never drive the terminal.
type Alert struct {
	ID        ID
	Title     string
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

func AlertFor(r Record) Alert {
	return Alert{
		ID:        r.ID,
		Title:     Sanitize(r.Title),
		Message:   Sanitize(r.Message),
		Severity:  SeverityFor(r.NotificationType),
		CreatedAt: r.CreatedAt.Time,
	}
}

func Sanitize(s string) string {
	return text.Sanitize(s)
}

// SeenSet remembers which ids have already produced an alert this session.
type SeenSet struct {
	mu  sync.Mutex
	ids map[ID]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{ids: map[ID]struct{}{}}
}

// MarkNew records id and reports whether it was unseen.
func (s *SeenSet) MarkNew(id ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *SeenSet) Reset() {
	s.mu.Lock()
	s.ids = map[ID]struct{}{}
	s.mu.Unlock()
}
