package appointments

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Status tracks an appointment's lifecycle. Any status may replace any
// other, and re-applying the current status is a no-op.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether the status is a known value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Appointment represents a booked (or requested) visit. Cancellation is
// a status, not a deletion. The 24-hour start time is stored for
// chronological ordering; the 12-hour string is what the dashboard
// renders.
type Appointment struct {
	ID          int64   `json:"id"`
	LeadID      *string `json:"leadId,omitempty"`
	PatientName string  `json:"patientName"`
	Service     string  `json:"service"`
	Date        string  `json:"date"` // calendar date, YYYY-MM-DD
	StartTime   string  `json:"startTime"` // 24h HH:MM, sort key
	Time        string  `json:"time"`      // 12h display, e.g. "1:05 PM"
	Duration    string  `json:"duration"`
	Status      Status  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
}

// BookingRequest is the booking form payload.
type BookingRequest struct {
	LeadID      *string `json:"leadId"`
	PatientName string  `json:"patientName"`
	Service     string  `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"` // 24h HH:MM
	Duration    string  `json:"duration"`
	Notes       string  `json:"notes"`
}

const (
	defaultTimeDisplay = "10:00 AM"
	defaultTime24      = "10:00"
	defaultDuration    = "30 minutes"
)

// FormatTimeDisplay converts a 24-hour clock value to the 12-hour
// display string the dashboard renders: "14:30" becomes "2:30 PM" and
// "00:00" becomes "12:00 AM". An empty input falls back to the booking
// form's default slot of 10:00 AM.
func FormatTimeDisplay(time24 string) string {
	if time24 == "" {
		return defaultTimeDisplay
	}
	parts := strings.SplitN(time24, ":", 2)
	if len(parts) != 2 {
		return defaultTimeDisplay
	}
	hh, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return defaultTimeDisplay
	}
	suffix := "AM"
	if hh >= 12 {
		suffix = "PM"
	}
	hour12 := (hh+11)%12 + 1
	return fmt.Sprintf("%d:%02d %s", hour12, mm, suffix)
}

// NewFromBooking builds a pending appointment from the booking form,
// applying the form defaults for blank fields.
func NewFromBooking(req BookingRequest) *Appointment {
	name := strings.TrimSpace(req.PatientName)
	if name == "" {
		name = "Unnamed"
	}
	start := req.Time
	if start == "" {
		start = defaultTime24
	}
	duration := req.Duration
	if duration == "" {
		duration = defaultDuration
	}
	return &Appointment{
		LeadID:      req.LeadID,
		PatientName: name,
		Service:     req.Service,
		Date:        req.Date,
		StartTime:   start,
		Time:        FormatTimeDisplay(req.Time),
		Duration:    duration,
		Status:      StatusPending,
		Notes:       req.Notes,
	}
}

// SortSchedule orders appointments by date then start time, ascending.
// Sorting on the stored 24-hour value keeps 11:30 AM ahead of 12:15 PM,
// which a lexicographic sort of the display string would not.
func SortSchedule(appts []*Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].StartTime < appts[j].StartTime
	})
}

// ParseDate parses the wire date format.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}
