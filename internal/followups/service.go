package followups

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalops/leadflow/internal/leads"
	"github.com/dentalops/leadflow/pkg/logging"
)

// MessageSender delivers a rendered follow-up over the template's
// channel. The notify package provides the production implementation.
type MessageSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendSMS(ctx context.Context, to, body string) error
}

// Service owns follow-up scheduling and dispatch.
type Service struct {
	templates  TemplateRepository
	jobs       JobRepository
	leads      leads.Repository
	sender     MessageSender
	clinicName string
	now         func() time.Time
	onScheduled []func(job *Job)
	onSent      []func(job *Job)
	logger      *logging.Logger
}

// NewService creates the follow-up service.
func NewService(templates TemplateRepository, jobs JobRepository, leadRepo leads.Repository, sender MessageSender, clinicName string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		templates:  templates,
		jobs:       jobs,
		leads:      leadRepo,
		sender:     sender,
		clinicName: clinicName,
		now:        time.Now,
		logger:     logger,
	}
}

// OnScheduled registers a callback invoked after each job is created.
func (s *Service) OnScheduled(fn func(job *Job)) {
	s.onScheduled = append(s.onScheduled, fn)
}

// OnSent registers a callback invoked after each successful dispatch.
func (s *Service) OnSent(fn func(job *Job)) {
	s.onSent = append(s.onSent, fn)
}

// Schedule creates a pending job for the lead/template pair. The send
// time is now plus the requested delay, falling back to the template's
// own delay when the request leaves it unset. Negative delays coerce
// to zero, meaning due immediately.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*Job, error) {
	if _, err := s.leads.GetByID(ctx, req.Lead); err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetByID(ctx, req.Template)
	if err != nil {
		return nil, err
	}

	delay := tpl.DelayMinutes
	if override := req.delayOverride(); override != nil {
		delay = *override
	}
	if delay < 0 {
		delay = 0
	}

	job := &Job{
		LeadID:       req.Lead,
		TemplateID:   tpl.ID,
		Channel:      tpl.Channel,
		ScheduledFor: s.now().UTC().Add(time.Duration(delay) * time.Minute),
		Status:       JobPending,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("followups: create job: %w", err)
	}

	s.logger.Info("follow-up scheduled",
		"job", job.ID,
		"lead", job.LeadID,
		"template", tpl.Name,
		"scheduled_for", job.ScheduledFor,
	)
	for _, fn := range s.onScheduled {
		fn(job)
	}
	return job, nil
}

// SendNow renders and dispatches a pending job, then marks it sent. A
// dispatch failure leaves the job pending so it can be retried; there
// is no transactional boundary between delivery and the status update.
func (s *Service) SendNow(ctx context.Context, jobID string) (*Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == JobSent {
		return nil, ErrJobAlreadySent
	}

	lead, err := s.leads.GetByID(ctx, job.LeadID)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetByID(ctx, job.TemplateID)
	if err != nil {
		return nil, err
	}

	vars := Vars(lead, s.clinicName)
	body := Render(tpl.Content, vars)
	switch tpl.Channel {
	case ChannelSMS:
		err = s.sender.SendSMS(ctx, lead.Phone, body)
	default:
		err = s.sender.SendEmail(ctx, lead.Email, Render(tpl.Subject, vars), body)
	}
	if err != nil {
		return nil, fmt.Errorf("followups: dispatch job %s: %w", jobID, err)
	}

	sent, err := s.jobs.MarkSent(ctx, jobID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("followups: mark sent: %w", err)
	}

	s.logger.Info("follow-up sent",
		"job", sent.ID,
		"lead", sent.LeadID,
		"channel", string(sent.Channel),
	)
	for _, fn := range s.onSent {
		fn(sent)
	}
	return sent, nil
}

// AutoSchedule creates jobs for every active template whose trigger
// matches the lead's qualification status. Wired as an intake listener;
// failures are logged and skipped so one bad template cannot block the
// rest.
func (s *Service) AutoSchedule(ctx context.Context, lead *leads.Lead) {
	matching, err := s.templates.ListActiveByTrigger(ctx, lead.QualificationStatus)
	if err != nil {
		s.logger.Error("failed to load templates for auto-schedule", "error", err, "lead", lead.ID)
		return
	}
	for _, tpl := range matching {
		_, err := s.Schedule(ctx, ScheduleRequest{Lead: lead.ID, Template: tpl.ID})
		if err != nil {
			s.logger.Error("auto-schedule failed",
				"error", err, "lead", lead.ID, "template", tpl.ID)
		}
	}
}

// ProcessDue dispatches every job whose send time has arrived. Errors
// are logged per job; one failure does not stop the sweep. Returns the
// number of jobs sent.
func (s *Service) ProcessDue(ctx context.Context) int {
	due, err := s.jobs.ListDue(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("failed to list due jobs", "error", err)
		return 0
	}
	sent := 0
	for _, job := range due {
		if _, err := s.SendNow(ctx, job.ID); err != nil {
			s.logger.Error("failed to dispatch due job", "error", err, "job", job.ID)
			continue
		}
		sent++
	}
	return sent
}
