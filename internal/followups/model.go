package followups

import (
	"time"

	"github.com/dentalops/leadflow/internal/http/apierror"
	"github.com/dentalops/leadflow/internal/leads"
)

// Channel selects the delivery transport for a template.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Valid reports whether the channel is a known value.
func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelSMS
}

// Template is a reusable follow-up message definition. trigger_on names
// the qualification status that auto-schedules it for new leads; the
// subject only applies to the email channel.
type Template struct {
	ID           string                    `json:"id"`
	Name         string                    `json:"name"`
	Channel      Channel                   `json:"channel"`
	Subject      string                    `json:"subject"`
	Content      string                    `json:"content"`
	DelayMinutes int                       `json:"delay_minutes"`
	TriggerOn    leads.QualificationStatus `json:"trigger_on"`
	Active       bool                      `json:"active"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// Validate checks a template before it is stored.
func (t *Template) Validate() apierror.FieldErrors {
	errs := apierror.FieldErrors{}
	if t.Name == "" {
		errs.Add("name", "Required")
	}
	if t.Content == "" {
		errs.Add("content", "Required")
	}
	if !t.Channel.Valid() {
		errs.Add("channel", "must be email or sms")
	}
	if !t.TriggerOn.Valid() {
		errs.Add("trigger_on", "must be qualified, nurture or disqualified")
	}
	if t.DelayMinutes < 0 {
		errs.Add("delay_minutes", "must be zero or positive")
	}
	if t.Channel == ChannelEmail && t.Subject == "" {
		errs.Add("subject", "Required")
	}
	return errs
}

// Normalize clears fields that do not apply to the channel. SMS has no
// subject line.
func (t *Template) Normalize() {
	if t.Channel == ChannelSMS {
		t.Subject = ""
	}
}

// TemplatePatch is a partial template update.
type TemplatePatch struct {
	Name         *string                    `json:"name"`
	Channel      *Channel                   `json:"channel"`
	Subject      *string                    `json:"subject"`
	Content      *string                    `json:"content"`
	DelayMinutes *int                       `json:"delay_minutes"`
	TriggerOn    *leads.QualificationStatus `json:"trigger_on"`
	Active       *bool                      `json:"active"`
}

// JobStatus tracks a job's lifecycle: pending until dispatched, sent
// after. Sending is the only transition.
type JobStatus string

const (
	JobPending JobStatus = "pending"
	JobSent    JobStatus = "sent"
)

// Job binds a template to a lead with a send time. The job references
// the lead by id; it does not own it.
type Job struct {
	ID           string     `json:"id"`
	LeadID       string     `json:"lead"`
	TemplateID   string     `json:"template"`
	Channel      Channel    `json:"channel"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Status       JobStatus  `json:"status"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// ScheduleRequest is the body of the schedule endpoint. send_now chains
// an immediate dispatch after the job is created. delay_minutes wins
// over delay_hours when both are present.
type ScheduleRequest struct {
	Lead         string `json:"lead"`
	Template     string `json:"template"`
	DelayMinutes *int   `json:"delay_minutes"`
	DelayHours   *int   `json:"delay_hours"`
	SendNow      bool   `json:"send_now"`
}

// delayOverride resolves the request's delay in minutes, or nil when
// the template's own delay should apply.
func (r ScheduleRequest) delayOverride() *int {
	if r.DelayMinutes != nil {
		return r.DelayMinutes
	}
	if r.DelayHours != nil {
		minutes := *r.DelayHours * 60
		return &minutes
	}
	return nil
}
