package dto

import "time"

type ManualInput struct {
	Title    string
	Message  string
	Severity string
}

// AlertOutput is a rendered alert: Color is the severity accent.
type AlertOutput struct {
	ID        string
	Title     string
	Message   string
	Severity  string
	Color     string
	CreatedAt time.Time
	Local     bool
}

type NotificationOutput struct {
	ID               string
	Title            string
	Message          string
	NotificationType string
	Severity         string
	CreatedAt        time.Time
}

type CheckOutput struct {
	Skipped  bool
	Fetched  int
	Alerted  int
	SeenSize int
}
