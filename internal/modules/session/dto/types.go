package dto

import "time"

type LoginInput struct {
	Username string
	Password string
}

type VisibilityOutput struct {
	Reservation bool
	Approvals   bool
	Reports     bool
}

type SessionOutput struct {
	Username    string
	FullName    string
	Role        string
	DisplayRole string
	Initial     string
	ExpiresAt   time.Time
	Visibility  VisibilityOutput
}

type StateOutput struct {
	Authenticated bool
	Session       SessionOutput
}

// Event is published on every state transition.
type Event struct {
	Authenticated bool
	Reason        string
	Session       SessionOutput
}

const (
	ReasonStart  = "start"
	ReasonLogin  = "login"
	ReasonLogout = "logout"
)
