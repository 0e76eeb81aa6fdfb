// Package events defines the integration events published to the
// outbound queue. Consumers (CRM sync, ad attribution) live outside
// this repo; the envelope versioning keeps them decoupled.
package events

import "time"

// LeadCreatedV1 is published after a lead intake is stored.
type LeadCreatedV1 struct {
	EventID             string    `json:"event_id"`
	LeadID              string    `json:"lead_id"`
	FirstName           string    `json:"first_name"`
	LastName            string    `json:"last_name"`
	Email               string    `json:"email"`
	Phone               string    `json:"phone"`
	QualificationStatus string    `json:"qualification_status"`
	QualificationScore  int       `json:"qualification_score"`
	Tags                []string  `json:"tags,omitempty"`
	SubmittedAt         time.Time `json:"submitted_at"`
}

// FollowUpSentV1 is published after a follow-up job is dispatched.
type FollowUpSentV1 struct {
	EventID    string    `json:"event_id"`
	JobID      string    `json:"job_id"`
	LeadID     string    `json:"lead_id"`
	TemplateID string    `json:"template_id"`
	Channel    string    `json:"channel"`
	SentAt     time.Time `json:"sent_at"`
}

// AppointmentBookedV1 is published after a booking is stored.
type AppointmentBookedV1 struct {
	EventID     string `json:"event_id"`
	Appointment int64  `json:"appointment_id"`
	LeadID      string `json:"lead_id,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	Service     string `json:"service"`
}
