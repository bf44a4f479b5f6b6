package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"labsched/internal/platform/text"
)

type Type string

const (
	TypeMonthly    Type = "monthly"
	TypeInstructor Type = "instructor"
	TypePeakHours  Type = "peak-hours"
)

var Types = []Type{TypeMonthly, TypeInstructor, TypePeakHours}

var typeSeparators = strings.NewReplacer("_", " ", "-", " ")

// ParseType accepts the type names in any case with spaces, dashes or
// underscores between words, so "Peak Hours" and "peak_hours" both parse.
func ParseType(raw string) (Type, error) {
	words := strings.Fields(strings.ToLower(typeSeparators.Replace(raw)))
	t := Type(strings.Join(words, "-"))
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown report type %q", raw)
}

// Endpoint is the API path for the report type, without the month query.
func (t Type) Endpoint() string {
	switch t {
	case TypeMonthly:
		return "/reports/monthly-usage"
	case TypeInstructor:
		return "/reports/instructor-usage"
	default:
		return "/reports/peak-hours"
	}
}

const monthLayout = "2006-01"

// Month is a calendar month in YYYY-MM form.
type Month string

func ParseMonth(raw string) (Month, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(monthLayout, raw); err != nil {
		return "", fmt.Errorf("month must be YYYY-MM, got %q", raw)
	}
	return Month(raw), nil
}

func MonthOf(t time.Time) Month {
	return Month(t.Format(monthLayout))
}

// Shift moves the month by delta months.
func (m Month) Shift(delta int) Month {
	t, err := time.Parse(monthLayout, string(m))
	if err != nil {
		return m
	}
	return MonthOf(t.AddDate(0, delta, 0))
}

type UsageStats struct {
	LabName         string  `json:"lab_name"`
	TotalHours      float64 `json:"total_hours"`
	UtilizationRate float64 `json:"utilization_rate"`
	PeakDay         string  `json:"peak_day"`
	PeakHours       string  `json:"peak_hours"`
}

type PeakHourData struct {
	TimeSlot    string  `json:"time_slot"`
	Utilization float64 `json:"utilization"`
}

// MonthlyReport is the GET /reports/monthly-usage response schema.
type MonthlyReport struct {
	Period    string         `json:"period"`
	Data      []UsageStats   `json:"data"`
	PeakHours []PeakHourData `json:"peak_hours"`
}

func (r *MonthlyReport) Validate() error {
	if r.Data == nil {
		return fmt.Errorf("monthly report: missing data")
	}
	for idx, item := range r.Data {
		if item.LabName == "" {
			return fmt.Errorf("monthly report: row %d has no lab_name", idx)
		}
	}
	for idx, slot := range r.PeakHours {
		if slot.TimeSlot == "" {
			return fmt.Errorf("monthly report: peak hour %d has no time_slot", idx)
		}
	}
	return nil
}

type InstructorUsage struct {
	InstructorName    string  `json:"instructor_name"`
	TotalReservations int     `json:"total_reservations"`
	TotalHours        float64 `json:"total_hours"`
	FavoriteLab       string  `json:"favorite_lab"`
}

// InstructorReport is the GET /reports/instructor-usage response schema.
type InstructorReport struct {
	Period string            `json:"period"`
	Data   []InstructorUsage `json:"data"`
}

func (r *InstructorReport) Validate() error {
	if r.Data == nil {
		return fmt.Errorf("instructor report: missing data")
	}
	for idx, item := range r.Data {
		if item.InstructorName == "" {
			return fmt.Errorf("instructor report: row %d has no instructor_name", idx)
		}
	}
	return nil
}

// PeakHoursReport maps a time-slot label to a utilization percentage.
type PeakHoursReport map[string]float64

func (r *PeakHoursReport) Validate() error {
	if *r == nil {
		return fmt.Errorf("peak-hours report: expected an object")
	}
	return nil
}

// Slots returns the entries ordered by label.
func (r PeakHoursReport) Slots() []PeakHourData {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]PeakHourData, 0, len(keys))
	for _, k := range keys {
		out = append(out, PeakHourData{TimeSlot: k, Utilization: r[k]})
	}
	return out
}

// Bar is one row of a utilization chart; Percent is clamped to [0,100].
type Bar struct {
	Label   string
	Percent float64
}

// Table is the renderable form of any report. Server strings in it are
// single-line printable text.
type Table struct {
	Type    Type
	Month   Month
	Title   string
	Columns []string
	Rows    [][]string
	Bars    []Bar
}

func MonthlyTable(month Month, r MonthlyReport) Table {
	t := Table{
		Type:    TypeMonthly,
		Month:   month,
		Title:   "Monthly Lab Usage Report - " + periodOr(r.Period, month),
		Columns: []string{"Lab", "Total Hours", "Utilization Rate", "Most Used Day", "Peak Hours"},
	}
	for _, item := range r.Data {
		t.Rows = append(t.Rows, []string{
			text.SingleLine(item.LabName),
			formatNumber(item.TotalHours) + " hours",
			formatNumber(item.UtilizationRate) + "%",
			text.SingleLine(item.PeakDay),
			text.SingleLine(item.PeakHours),
		})
	}
	for _, slot := range r.PeakHours {
		t.Bars = append(t.Bars, newBar(slot))
	}
	return t
}

func InstructorTable(month Month, r InstructorReport) Table {
	t := Table{
		Type:    TypeInstructor,
		Month:   month,
		Title:   "Instructor Usage Summary - " + periodOr(r.Period, month),
		Columns: []string{"Instructor", "Total Reservations", "Total Hours", "Favorite Lab"},
	}
	for _, item := range r.Data {
		t.Rows = append(t.Rows, []string{
			text.SingleLine(item.InstructorName),
			strconv.Itoa(item.TotalReservations),
			formatNumber(item.TotalHours) + " hours",
			text.SingleLine(item.FavoriteLab),
		})
	}
	return t
}

func PeakHoursTable(month Month, r PeakHoursReport) Table {
	t := Table{
		Type:    TypePeakHours,
		Month:   month,
		Title:   "Peak Hours Analysis - " + string(month),
		Columns: []string{"Time Slot", "Utilization"},
	}
	for _, slot := range r.Slots() {
		t.Rows = append(t.Rows, []string{text.SingleLine(slot.TimeSlot), formatNumber(slot.Utilization) + "%"})
		t.Bars = append(t.Bars, newBar(slot))
	}
	return t
}

func newBar(slot PeakHourData) Bar {
	p := slot.Utilization
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return Bar{Label: text.SingleLine(slot.TimeSlot), Percent: p}
}

func periodOr(period string, month Month) string {
	if p := text.SingleLine(period); p != "" {
		return p
	}
	return string(month)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
