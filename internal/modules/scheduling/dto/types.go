package dto

type StatsOutput struct {
	TotalLabs       int
	TotalSessions   int
	PendingRequests int
	TotalUsers      int
}

type LabOutput struct {
	ID          int
	Name        string
	Description string
	Capacity    int
	Equipment   string
}

type CourseOutput struct {
	ID      int
	Code    string
	Name    string
	Label   string
	Credits int
}

type ReservationOutput struct {
	ID             int
	LabName        string
	CourseName     string
	Section        string
	StartTime      string
	EndTime        string
	Duration       int
	Notes          string
	Status         string
	InstructorName string
}

type ReservationInput struct {
	LabID     int
	CourseID  int
	Section   string
	StartTime string
	EndTime   string
	// Duration in minutes; zero derives it from the interval.
	Duration int
	Notes    string
}

type CreateOutput struct {
	ReservationID int
	Message       string
}

type DecisionOutput struct {
	ReservationID int
	Status        string
	Message       string
}
