// Package dashboard derives the overview stats from the current lead,
// appointment and follow-up collections. It owns no state of its own.
package dashboard

import (
	"math"
	"time"

	"github.com/dentalops/leadflow/internal/appointments"
	"github.com/dentalops/leadflow/internal/leads"
)

// Stats is the dashboard overview payload. Rates are percentages
// rounded to one decimal place.
type Stats struct {
	TotalLeads            int     `json:"total_leads"`
	NewLeads              int     `json:"new_leads"`
	QualifiedLeads        int     `json:"qualified_leads"`
	ConfirmedAppointments int     `json:"confirmed_appointments"`
	PendingFollowUps      int     `json:"pending_followups"`
	ThisWeekLeads         int     `json:"this_week_leads"`
	LastWeekLeads         int     `json:"last_week_leads"`
	ConversionRate        float64 `json:"conversion_rate"`
	QualificationRate     float64 `json:"qualification_rate"`
	BookingRate           float64 `json:"booking_rate"`
	WeeklyGrowth          float64 `json:"weekly_growth"`
}

// Compute derives the stats at the given instant. New leads are those
// submitted in the trailing seven days; weekly growth compares that
// window against the seven days before it and reports 0% when the
// earlier window is empty rather than dividing by zero.
func Compute(now time.Time, allLeads []*leads.Lead, appts []*appointments.Appointment, pendingFollowUps int) Stats {
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	s := Stats{
		TotalLeads:       len(allLeads),
		PendingFollowUps: pendingFollowUps,
	}
	for _, lead := range allLeads {
		if lead.QualificationStatus == leads.StatusQualified {
			s.QualifiedLeads++
		}
		if !lead.SubmittedAt.Before(weekAgo) {
			s.ThisWeekLeads++
		} else if !lead.SubmittedAt.Before(twoWeeksAgo) {
			s.LastWeekLeads++
		}
	}
	s.NewLeads = s.ThisWeekLeads

	for _, appt := range appts {
		if appt.Status == appointments.StatusConfirmed {
			s.ConfirmedAppointments++
		}
	}

	s.ConversionRate = percent(s.ConfirmedAppointments, s.TotalLeads)
	s.QualificationRate = percent(s.QualifiedLeads, s.TotalLeads)
	s.BookingRate = percent(s.ConfirmedAppointments, s.QualifiedLeads)
	if s.LastWeekLeads > 0 {
		s.WeeklyGrowth = round1(float64(s.ThisWeekLeads-s.LastWeekLeads) / float64(s.LastWeekLeads) * 100)
	}
	return s
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
