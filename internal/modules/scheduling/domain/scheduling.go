package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDeclined Status = "declined"
)

// DashboardStats is the GET /dashboard/stats response schema.
type DashboardStats struct {
	TotalLabs       int `json:"total_labs"`
	TotalSessions   int `json:"total_sessions"`
	PendingRequests int `json:"pending_requests"`
	TotalUsers      int `json:"total_users"`
}

func (s *DashboardStats) Validate() error {
	if s.TotalLabs < 0 || s.TotalSessions < 0 || s.PendingRequests < 0 || s.TotalUsers < 0 {
		return fmt.Errorf("dashboard stats: negative counter")
	}
	return nil
}

type Lab struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	Equipment   string `json:"equipment"`
}

type LabList []Lab

func (l *LabList) Validate() error {
	for idx, lab := range *l {
		if lab.ID <= 0 || lab.Name == "" {
			return fmt.Errorf("lab %d: id and name are required", idx)
		}
	}
	return nil
}

type Course struct {
	ID          int    `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Credits     int    `json:"credits"`
}

type CourseList []Course

func (l *CourseList) Validate() error {
	for idx, c := range *l {
		if c.ID <= 0 || c.Name == "" {
			return fmt.Errorf("course %d: id and name are required", idx)
		}
	}
	return nil
}

// Label is how a course appears in pickers.
func (c Course) Label() string {
	if c.Code == "" {
		return c.Name
	}
	return c.Code + " - " + c.Name
}

type Reservation struct {
	ID             int    `json:"id"`
	LabID          int    `json:"lab_id"`
	CourseID       int    `json:"course_id"`
	Section        string `json:"section"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Duration       int    `json:"duration"`
	Notes          string `json:"notes"`
	Status         Status `json:"status"`
	InstructorName string `json:"instructor_name"`
	LabName        string `json:"lab_name"`
	CourseName     string `json:"course_name"`
}

type ReservationList []Reservation

func (l *ReservationList) Validate() error {
	for idx, r := range *l {
		if r.ID <= 0 {
			return fmt.Errorf("reservation %d has no id", idx)
		}
	}
	return nil
}

// Pending keeps reservations awaiting a decision, in server order.
func (l ReservationList) Pending() ReservationList {
	out := ReservationList{}
	for _, r := range l {
		if strings.EqualFold(string(r.Status), string(StatusPending)) {
			out = append(out, r)
		}
	}
	return out
}

// Accepted input layouts for reservation times; the first is what is sent.
var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func ParseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("time must look like 2024-03-05T09:00, got %q", raw)
}

// ReservationRequest is the POST /reservations body.
type ReservationRequest struct {
	LabID     int    `json:"lab_id"`
	CourseID  int    `json:"course_id"`
	Section   string `json:"section"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
	Notes     string `json:"notes,omitempty"`
}

// NewReservationRequest validates the form fields and normalizes the times.
// Duration is in minutes and is derived from the interval when zero.
func NewReservationRequest(labID, courseID int, section, start, end string, duration int, notes string) (ReservationRequest, error) {
	if labID <= 0 {
		return ReservationRequest{}, fmt.Errorf("a lab must be selected")
	}
	if courseID <= 0 {
		return ReservationRequest{}, fmt.Errorf("a course must be selected")
	}
	section = strings.TrimSpace(section)
	if section == "" {
		return ReservationRequest{}, fmt.Errorf("section is required")
	}
	from, err := ParseTime(start)
	if err != nil {
		return ReservationRequest{}, fmt.Errorf("start: %w", err)
	}
	to, err := ParseTime(end)
	if err != nil {
		return ReservationRequest{}, fmt.Errorf("end: %w", err)
	}
	if !to.After(from) {
		return ReservationRequest{}, fmt.Errorf("end must be after start")
	}
	if duration < 0 {
		return ReservationRequest{}, fmt.Errorf("duration cannot be negative")
	}
	if duration == 0 {
		duration = int(to.Sub(from) / time.Minute)
	}
	return ReservationRequest{
		LabID:     labID,
		CourseID:  courseID,
		Section:   section,
		StartTime: from.Format(timeLayouts[0]),
		EndTime:   to.Format(timeLayouts[0]),
		Duration:  duration,
		Notes:     strings.TrimSpace(notes),
	}, nil
}

// CreateResult is the POST /reservations response schema.
type CreateResult struct {
	Message       string `json:"message"`
	ReservationID int    `json:"reservation_id"`
}

func (r *CreateResult) Validate() error {
	if r.ReservationID <= 0 {
		return fmt.Errorf("create reservation: missing reservation_id")
	}
	return nil
}

// Ack is a bare {"message": ...} acknowledgement.
type Ack struct {
	Message string `json:"message"`
}
